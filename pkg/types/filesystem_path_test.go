// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFilesystemPath_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    FilesystemPath
		wantErr bool
	}{
		{"absolute path", FilesystemPath("/srv/dist/system.json"), false},
		{"relative path", FilesystemPath("packs/_source"), false},
		{"dot path", FilesystemPath("."), false},
		{"empty is invalid", FilesystemPath(""), true},
		{"whitespace only is invalid", FilesystemPath("   "), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.path.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("FilesystemPath(%q).Validate() error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFilesystemPath) {
					t.Errorf("error should wrap ErrInvalidFilesystemPath, got: %v", err)
				}
				var fpErr *InvalidFilesystemPathError
				if !errors.As(err, &fpErr) {
					t.Errorf("error should be *InvalidFilesystemPathError, got: %T", err)
				}
			}
		})
	}
}

func TestFilesystemPath_Contains(t *testing.T) {
	t.Parallel()

	root := FilesystemPath(filepath.Join("packs", "_source"))
	tests := []struct {
		target string
		want   bool
	}{
		{filepath.Join("packs", "_source"), true},
		{filepath.Join("packs", "_source", "spells", "fireball.yml"), true},
		{filepath.Join("packs", "_source", "..", "spells.yml"), false},
		{filepath.Join("packs", "_sourcery"), false},
		{"elsewhere", false},
	}

	for _, tt := range tests {
		if got := root.Contains(FilesystemPath(tt.target)); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}
}
