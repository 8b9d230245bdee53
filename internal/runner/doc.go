// SPDX-License-Identifier: MPL-2.0

// Package runner spawns external tools (git, npm, zip) with the caller's stdio
// attached and maps their exit status to an error.
//
// A zero exit status is success. Any other status, or a failure to start the
// process at all, is reported as a *ToolError carrying the status the caller
// should exit with.
package runner
