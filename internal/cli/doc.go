// Package cli implements the nstake command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to a command function that does the actual work against a
// Session.
//
// # Command Structure
//
// The root command is "nstake". Without a subcommand it opens the dashboard:
//
//	nstake                  - Interactive dashboard (same as nstake monitor)
//	nstake watch            - Headless polling, driven by signals
//	nstake add              - Add a staker (prompts without flags)
//	nstake remove <index>   - Remove a staker
//	nstake list             - Print stakers and their last report
//	nstake refresh          - Fetch every staker once
//	nstake export / import  - Move the staker list between machines
//	nstake config [init|set|show]
//
// # Sessions
//
// OpenSession performs the setup shared by every command:
//
//  1. Load and validate config (--config, else the global file, else defaults)
//  2. Open the store (bbolt at store.path, or memory with --ephemeral)
//  3. Build the monitor and hydrate it from the store
//
// The session must be closed, which cancels outstanding fetches and
// releases the database lock.
//
// # Flag Handling
//
// Global flags (--config, --json, --ephemeral, --no-color) are defined on the
// root command. With --json every command writes a JSONEnvelope, and errors
// are mapped to stable codes by ErrorToJSON.
package cli
