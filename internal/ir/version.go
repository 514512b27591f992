package ir

// Version constants for generated programs and cache rows.
const (
	// FormatVersion changes whenever generated program text changes shape.
	// Cache keys include it so stale translations are never served.
	FormatVersion = "1"

	// ToolVersion is the bfc release version.
	ToolVersion = "0.1.0"
)
