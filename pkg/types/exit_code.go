// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ExitOK and ExitFailed are the statuses used when no external tool
// supplied one.
const (
	ExitOK     ExitCode = 0
	ExitFailed ExitCode = 1
)

// ErrInvalidExitCode is wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is a process exit status. Only 0-255 can be reported to
	// the parent shell; a child killed by a signal reports -1.
	ExitCode int

	// InvalidExitCodeError reports an ExitCode outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate rejects codes a process cannot exit with.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

func (c ExitCode) IsSuccess() bool { return c == ExitOK }

// Failure returns the status to exit with after c was reported by a failed
// step: c itself when it is a usable non-zero code, ExitFailed otherwise.
func (c ExitCode) Failure() ExitCode {
	if c.IsSuccess() || c.Validate() != nil {
		return ExitFailed
	}
	return c
}

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
