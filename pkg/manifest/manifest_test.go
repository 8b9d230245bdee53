// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	sys, err := Parse([]byte(testSystemManifest), FileName)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if sys.Version != "2.3.0" || sys.ID != "mythicrealms" {
		t.Errorf("Parse() = %+v", sys)
	}
	if len(sys.ESModules) != 1 || sys.ESModules[0] != "mythicrealms.mjs" {
		t.Errorf("ESModules = %v", sys.ESModules)
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "missing version", data: `{"download": "https://example.com/a.zip"}`},
		{name: "bad version", data: `{"version": "latest", "download": "https://example.com/a.zip"}`},
		{name: "bad download", data: `{"version": "1.0.0", "download": "example.com/a.zip"}`},
		{name: "pack without path", data: `{"version": "1.0.0", "download": "https://example.com/a.zip", "packs": [{"name": "spells"}]}`},
		{name: "not json", data: `{"version": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Parse([]byte(tt.data), FileName); !errors.Is(err, ErrInvalidManifest) {
				t.Errorf("Parse() error = %v, want ErrInvalidManifest", err)
			}
		})
	}
}

func TestSystem_PackNamed(t *testing.T) {
	t.Parallel()

	sys := &System{Packs: []Pack{{Name: "spells", Path: "packs/spells"}, {Name: "items", Path: "packs/items"}}}
	p, ok := sys.PackNamed("items")
	if !ok || p.Path != "packs/items" {
		t.Errorf("PackNamed(items) = %+v, %v", p, ok)
	}
	if _, ok := sys.PackNamed("monsters"); ok {
		t.Error("PackNamed(monsters) should not be found")
	}
}

func TestLoadPacks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dev := filepath.Join(dir, "dev.json")
	data := `{"id": "mythicrealms", "version": "dev", "packs": [{"name": "spells", "path": "packs/spells"}]}`
	if err := os.WriteFile(dev, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dev); !errors.Is(err, ErrInvalidManifest) {
		t.Fatalf("Load() error = %v, want ErrInvalidManifest for a development manifest", err)
	}
	sys, err := LoadPacks(dev)
	if err != nil {
		t.Fatalf("LoadPacks() error = %v", err)
	}
	if p, ok := sys.PackNamed("spells"); !ok || p.Path != "packs/spells" {
		t.Errorf("PackNamed(spells) = %+v, %v", p, ok)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"packs": [{"name": "spells"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPacks(bad); !errors.Is(err, ErrInvalidManifest) {
		t.Errorf("LoadPacks() error = %v, want ErrInvalidManifest for a pack without path", err)
	}
}

func TestLoadPlatformConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := LoadPlatformConfig(filepath.Join(dir, "foundryvtt.json"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if len(cfg.Includes) != 0 {
		t.Errorf("Includes = %v, want empty", cfg.Includes)
	}

	path := filepath.Join(dir, "present.json")
	if err := os.WriteFile(path, []byte(`{"includes": ["LICENSE", "assets/**"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadPlatformConfig(path)
	if err != nil {
		t.Fatalf("LoadPlatformConfig() error = %v", err)
	}
	if len(cfg.Includes) != 2 || cfg.Includes[1] != "assets/**" {
		t.Errorf("Includes = %v", cfg.Includes)
	}
}

func TestArchiveFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, f := range []string{"assets/a.png", "assets/b/c.png", "assets/readme.txt"} {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	sys := &System{
		ESModules: []string{"mythicrealms.mjs"},
		Styles:    []string{"mythicrealms.css"},
		Packs:     []Pack{{Name: "spells", Path: "packs/spells"}},
		Languages: []Language{{Lang: "en", Path: "lang/en.json"}},
	}
	platform := &PlatformConfig{Includes: []string{"assets/**/*.png", "LICENSE", "system.json", "packs/spells"}}

	got, err := ArchiveFiles(FileName, sys, platform, root)
	if err != nil {
		t.Fatalf("ArchiveFiles() error = %v", err)
	}
	want := []string{
		"system.json",
		"mythicrealms.mjs",
		"mythicrealms.mjs.map",
		"mythicrealms.css",
		"packs/spells",
		"lang/en.json",
		"assets/a.png",
		"assets/b/c.png",
		"LICENSE",
	}
	if len(got) != len(want) {
		t.Fatalf("ArchiveFiles() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ArchiveFiles()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestArchiveFiles_NoPlatformConfig(t *testing.T) {
	t.Parallel()

	got, err := ArchiveFiles(FileName, &System{}, nil, t.TempDir())
	if err != nil {
		t.Fatalf("ArchiveFiles() error = %v", err)
	}
	if len(got) != 1 || got[0] != FileName {
		t.Errorf("ArchiveFiles() = %v, want [system.json]", got)
	}
}
