// SPDX-License-Identifier: MPL-2.0

// Package platform holds the little OS knowledge the tool needs: GOOS names,
// where the user config root lives, and the file names extracted pack files
// must avoid on Windows.
package platform
