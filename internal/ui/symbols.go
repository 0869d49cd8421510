package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Operation succeeded
	SymbolFail    = "✗" // Operation failed
	SymbolPrimary = "★" // Primary monitor marker
	SymbolLinked  = "⇄" // Sync mode enabled
	SymbolSun     = "☀" // Brightness
)
