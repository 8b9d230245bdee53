// SPDX-License-Identifier: MPL-2.0

package fspath_test

import (
	"errors"
	"path/filepath"
	"testing"

	"mythicrealms-cli/pkg/fspath"
	"mythicrealms-cli/pkg/types"
)

func TestJoinStr(t *testing.T) {
	t.Parallel()

	got := fspath.JoinStr(types.FilesystemPath("packs"), "_source", "spells")
	want := types.FilesystemPath(filepath.Join("packs", "_source", "spells"))
	if got != want {
		t.Errorf("JoinStr() = %q, want %q", got, want)
	}
}

func TestDirAndAbs(t *testing.T) {
	t.Parallel()

	p := types.FilesystemPath(filepath.Join("dist", "system.json"))
	if dir := fspath.Dir(p); dir != types.FilesystemPath("dist") {
		t.Errorf("Dir() = %q, want %q", dir, "dist")
	}

	abs, err := fspath.Abs(p)
	if err != nil {
		t.Fatalf("Abs() error = %v", err)
	}
	if !filepath.IsAbs(abs.String()) || filepath.Base(abs.String()) != "system.json" {
		t.Errorf("Abs() = %q", abs)
	}
}

func TestJoinWithin(t *testing.T) {
	t.Parallel()

	root := types.FilesystemPath(t.TempDir())

	got, err := fspath.JoinWithin(root, "monsters/undead/lich.yml")
	if err != nil {
		t.Fatalf("JoinWithin() error = %v", err)
	}
	want := types.FilesystemPath(filepath.Join(string(root), "monsters", "undead", "lich.yml"))
	if got != want {
		t.Errorf("JoinWithin() = %q, want %q", got, want)
	}

	if _, err := fspath.JoinWithin(root, "../escape.yml"); !errors.Is(err, types.ErrPathEscapesRoot) {
		t.Errorf("JoinWithin(../escape.yml) error = %v, want ErrPathEscapesRoot", err)
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Tasha's Hideous Laughter!!", "tashas-hideous-laughter"},
		{"Fireball", "fireball"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Potion of Healing (Greater)", "potion-of-healing-greater"},
		{"double--hyphen---run", "double-hyphen-run"},
		{"Wizard’s Tower", "wizards-tower"},
		{"Épée of the Dûnedain", "epee-of-the-dunedain"},
		{"Level 3 Spells", "level-3-spells"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := fspath.Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Tasha's Hideous Laughter!!", "Épée", "a--b"} {
		once := fspath.Slugify(in)
		if twice := fspath.Slugify(once); twice != once {
			t.Errorf("Slugify(Slugify(%q)) = %q, want %q", in, twice, once)
		}
	}
}
