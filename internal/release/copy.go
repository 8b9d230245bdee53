// SPDX-License-Identifier: MPL-2.0

package release

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// textExtensions are the files a rewrite copy may edit. Everything else,
// LevelDB tables included, is copied byte for byte.
var textExtensions = map[string]bool{
	".json": true,
	".yml":  true,
	".yaml": true,
	".db":   true,
	".md":   true,
	".html": true,
	".txt":  true,
	".css":  true,
	".js":   true,
	".mjs":  true,
}

type (
	// copier writes one file's content.
	copier interface {
		copy(dst io.Writer, src io.Reader, name string) error
	}

	plainCopier struct{}

	rewriteCopier struct {
		from []byte
		to   []byte
	}
)

func (plainCopier) copy(dst io.Writer, src io.Reader, _ string) error {
	_, err := io.Copy(dst, src)
	return err
}

func newRewriteCopier(from, to string) rewriteCopier {
	return rewriteCopier{from: []byte(from), to: []byte(to)}
}

func (c rewriteCopier) copy(dst io.Writer, src io.Reader, name string) error {
	if !textExtensions[strings.ToLower(filepath.Ext(name))] {
		_, err := io.Copy(dst, src)
		return err
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	_, err = dst.Write(bytes.ReplaceAll(data, c.from, c.to))
	return err
}

// copyTree recursively copies src into dst, overwriting existing files.
// Symlinks and other special files are skipped.
func copyTree(src, dst string, c copier) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
			return nil
		case d.Type().IsRegular():
			return copyFile(path, target, c)
		default:
			return nil
		}
	})
}

func copyFile(src, dst string, c copier) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := c.copy(out, in, src); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return nil
}
