package ir

// Version constants for the IR schema and the frontend.
const (
	// IRVersion is the IR schema version. It is part of every cache key, so
	// bumping it invalidates stored translations.
	IRVersion = "1"

	// FrontendVersion is the jitfront release.
	FrontendVersion = "0.1.0"
)
