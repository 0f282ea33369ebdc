package errors

type ExitCode int

const (
	SuccessExitCode ExitCode = 0
	UsageExitCode   ExitCode = 1

	// The destination could not be reset, nothing was captured.
	PrepareFailureExitCode ExitCode = 70

	// The run completed but at least one capture step failed.
	CaptureFailureExitCode ExitCode = 71
)
