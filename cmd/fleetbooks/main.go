// ============================================================================
// FLEETBOOKS ENTRY POINT
// ============================================================================
//
// PURPOSE:
// Loads a .env file when present, then hands off to the cobra command tree.
// All wiring (config, logging, store backend, cache) happens per command in
// the cli package so tests can build the same stack against in-memory stores.
//
// ============================================================================

package main

import (
	"github.com/joho/godotenv"

	"github.com/motorlane/fleetbooks/cli"
)

func main() {
	// Missing .env is fine; environment variables alone are enough.
	_ = godotenv.Load()

	cli.Execute()
}
