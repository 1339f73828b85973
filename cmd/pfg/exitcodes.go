package main

// Exit codes used across pfg commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no workspace, invalid paths)
	ExitDataError   = 3 // Data error (malformed input, validation failure)
	ExitNotFound    = 4 // Artifact or edge not found
	ExitBackend     = 5 // Extraction backend unreachable or unhealthy
)
