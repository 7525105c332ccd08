// Package ui holds the terminal building blocks shared by nstake's commands
// and its dashboard.
//
//	Spinner        - "Refreshing n/total" line for nstake refresh
//	FetchProgress  - Bubble Tea refresh indicator for the dashboard header
//	RenderSparkline - one-row balance history
//	RenderTable, RenderKeyValues - list and config output
//
// Colors follow the status they mark (success, error, warning, info, muted).
// DisableColors switches to plain output for --no-color and --json.
package ui
