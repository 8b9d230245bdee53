// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv, MustUnsetenv),
// file tree fixtures (WriteFile, WriteTree, ReadFile) and a recorder that fakes
// external tools by re-executing the test binary (CommandRecorder, RunHelperProcess).
package testutil
