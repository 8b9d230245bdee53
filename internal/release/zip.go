// SPDX-License-Identifier: MPL-2.0

package release

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// writeZip archives files, relative to root, into artifact. Directories are
// added recursively. Missing paths are skipped with a warning, as the zip
// tool does.
func writeZip(artifact, root string, files []string, logger *log.Logger) (err error) {
	zipFile, err := os.Create(artifact)
	if err != nil {
		return fmt.Errorf("failed to create ZIP file: %w", err)
	}
	defer func() {
		if closeErr := zipFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(artifact)
		}
	}()

	zipWriter := zip.NewWriter(zipFile)
	defer func() {
		if closeErr := zipWriter.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	artifactRel, _ := filepath.Rel(root, artifact)
	added := make(map[string]struct{})

	for _, rel := range files {
		start := filepath.Join(root, filepath.FromSlash(rel))
		if _, statErr := os.Stat(start); errors.Is(statErr, fs.ErrNotExist) {
			logger.Warn("Archive entry not found", "path", rel)
			continue
		}

		walkErr := filepath.WalkDir(start, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			relPath, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return fmt.Errorf("failed to get relative path: %w", relErr)
			}
			if relPath == artifactRel {
				return nil
			}
			zipPath := filepath.ToSlash(relPath)
			if d.IsDir() {
				zipPath += "/"
			}
			if _, ok := added[zipPath]; ok {
				return nil
			}
			added[zipPath] = struct{}{}

			if d.IsDir() {
				if _, createErr := zipWriter.Create(zipPath); createErr != nil {
					return fmt.Errorf("failed to create directory entry: %w", createErr)
				}
				return nil
			}
			return addZipFile(zipWriter, path, zipPath, d)
		})
		if walkErr != nil {
			return fmt.Errorf("failed to archive %s: %w", rel, walkErr)
		}
	}
	return nil
}

func addZipFile(w *zip.Writer, path, zipPath string, d fs.DirEntry) error {
	fileInfo, err := d.Info()
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}
	header, err := zip.FileInfoHeader(fileInfo)
	if err != nil {
		return fmt.Errorf("failed to create file header: %w", err)
	}
	header.Name = zipPath
	header.Method = zip.Deflate

	writer, err := w.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create ZIP entry: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(writer, f); err != nil {
		return fmt.Errorf("failed to write file data: %w", err)
	}
	return nil
}
