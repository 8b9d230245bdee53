// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"mythicrealms-cli/internal/runner"
	"mythicrealms-cli/pkg/types"
)

// ExitError carries the process status a failed command should exit with.
// Handlers return it after printing their own diagnostics so Execute only
// has to translate it into os.Exit.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %s", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitCodeFor propagates the status of a failed external tool; every other
// failure exits 1.
func exitCodeFor(err error) types.ExitCode {
	var toolErr *runner.ToolError
	if errors.As(err, &toolErr) {
		return toolErr.ExitCode.Failure()
	}
	return 1
}

// exitStatus is the os.Exit argument for an error returned by the root command.
func exitStatus(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.Code.Failure())
	}
	return 1
}
