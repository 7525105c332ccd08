// Package monitor implements the Bubble Tea dashboard for staking nodes.
//
// The dashboard renders one card per staker with its balance, reward
// averages, time to the next stake and a balance sparkline, and lets the
// user add, delete and refresh stakers without leaving the terminal.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: holds the display state and owns a *node.Monitor
//   - Update: processes keystrokes, ticks and fetch results
//   - View: renders the current state to a string for display
//
// # Message Flow
//
// Update is the monitor's owner goroutine. Every mutation goes through it:
//
//  1. tickMsg fires at the poll interval and starts a refresh
//  2. fetches run on their own goroutines and post node.Result values
//  3. listenCmd turns each result into a resultMsg
//  4. Update hands it to Monitor.Apply, then re-arms the listener
//
// Ticks carry a generation number. Changing the poll multiplier bumps the
// generation, so ticks scheduled under the old interval are dropped.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit (cancels every in-flight fetch)
//	r           - Refresh now
//	a           - Add a staker
//	d           - Delete the selected staker
//	p           - Pause / resume polling
//	+ / -       - Poll less / more often
//	n           - Toggle notifications
//	s           - Cycle sort order (list/name/balance)
//	j/k, ↑/↓    - Navigate
//	Enter       - Open detail view
//	Esc         - Back / cancel a prompt
//	?           - Toggle help overlay
package monitor
