package main

// Exit codes reported by the kl CLI.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing workspace, invalid config)
	ExitDataError   = 3 // Data error (unknown dataset or run, validation failure)
)
