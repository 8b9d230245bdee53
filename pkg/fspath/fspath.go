// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, plus the slug rules used to turn
// display names into file and directory names.
package fspath

import (
	"fmt"
	"path/filepath"

	"mythicrealms-cli/pkg/types"
)

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments (file names from os.ReadDir, literal constants).
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Abs wraps filepath.Abs for FilesystemPath.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// JoinWithin joins rel onto root and rejects results that leave root.
// rel uses forward slashes, as produced by path resolution over content names.
func JoinWithin(root types.FilesystemPath, rel string) (types.FilesystemPath, error) {
	joined := JoinStr(root, filepath.FromSlash(rel))
	if !root.Contains(joined) {
		return "", fmt.Errorf("%w: %q", types.ErrPathEscapesRoot, rel)
	}
	return joined, nil
}
