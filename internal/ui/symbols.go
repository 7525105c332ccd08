package ui

// Status glyphs shared by CLI output and the dashboard.
const (
	SymbolSuccess  = "◉"
	SymbolFail     = "✕"
	SymbolProgress = "◆"
	SymbolWarning  = "⚠"
)
