package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/motorlane/fleetbooks/billing"
	"github.com/motorlane/fleetbooks/cache"
	"github.com/motorlane/fleetbooks/logging"
	"github.com/motorlane/fleetbooks/tabular"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Provision missing tables with their column layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		schemas := billing.Schemas()
		for _, name := range billing.SchemaNames() {
			t, err := app.cache.Get(cmd.Context(), name, true)
			if err != nil {
				return err
			}
			if len(t.Columns) > 0 {
				continue
			}
			fresh := tabular.New(name, schemas[name]...)
			if err := app.cache.SaveAndInvalidate(cmd.Context(), name, fresh); err != nil {
				return err
			}
			fmt.Printf("created %s\n", name)
		}
		return nil
	},
}

var nextIDCmd = &cobra.Command{
	Use:   "next-id <table>",
	Short: "Show the next identifier a table would allocate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		id, err := app.cache.NextID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the data directory and report external table changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if app.csvDir == "" {
			return fmt.Errorf("watch requires the csv store backend")
		}
		w, err := cache.Watch(app.csvDir, app.cache, logging.WithComponent("watch"))
		if err != nil {
			return err
		}
		defer w.Close()

		fmt.Printf("watching %s, Ctrl-C to stop\n", app.csvDir)
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(nextIDCmd)
	rootCmd.AddCommand(watchCmd)
}
