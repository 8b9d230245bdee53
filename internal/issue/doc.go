// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions. Issue holds longer Markdown guidance for a failure class,
// rendered for the terminal with glamour.
package issue
