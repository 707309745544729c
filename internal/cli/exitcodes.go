package cli

import (
	"errors"

	"github.com/yaklabco/cheatfind/internal/configloader"
)

// Exit codes for cheatfind.
const (
	// ExitSuccess indicates the session ended normally, with or without a
	// selection.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (terminal, corpus, download).
	ExitFailure = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65
)

// ExitCodeFromError maps a command error to a process exit code.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var verr *configloader.ValidationError
	if errors.As(err, &verr) {
		return ExitConfigError
	}
	var uerr *UsageError
	if errors.As(err, &uerr) {
		return ExitInvalidUsage
	}
	return ExitFailure
}

// UsageError wraps errors caused by invalid arguments or flags.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}
