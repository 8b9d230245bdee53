// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	testBaseURL = "https://github.com/acme/MythicRealms"
	testTag     = "v1-2.3.0"
)

const testSystemManifest = `{
  "id": "mythicrealms",
  "title": "Mythic Realms",
  "version": "2.3.0",
  "download": "https://github.com/acme/MythicRealms/releases/download/v1-2.3.0/mythicrealms-v1-2.3.0.zip",
  "esmodules": ["mythicrealms.mjs"],
  "flags": {
    "hotReload": {"extensions": ["css", "hbs"]},
    "mythicrealms": {"sourceBooks": {"core": {"title": "Core Rules"}}}
  }
}`

const testFreeManifest = `{
  "id": "mythicrealms-free",
  "flags": {
    "mythicrealms": {
      "sourceBooks": {
        "core": {"title": "Free Core"},
        "expansion": {"title": "Expansion"}
      }
    }
  }
}`

func writeManifests(t *testing.T, system, free string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	systemPath := filepath.Join(dir, FileName)
	freePath := filepath.Join(dir, FreeFileName)
	if err := os.WriteFile(systemPath, []byte(system), 0o666); err != nil {
		t.Fatalf("failed to write system manifest: %v", err)
	}
	if err := os.WriteFile(freePath, []byte(free), 0o644); err != nil {
		t.Fatalf("failed to write free manifest: %v", err)
	}
	return systemPath, freePath
}

func compileOptions(systemPath, freePath, tag string) CompileOptions {
	return CompileOptions{
		SystemPath: systemPath,
		FreePath:   freePath,
		Tag:        tag,
		BaseURL:    testBaseURL,
		SystemName: "mythicrealms",
	}
}

func TestParseTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag     string
		want    string
		wantErr bool
	}{
		{tag: "v1-2.3.0", want: "2.3.0"},
		{tag: "release-4.0.1", want: "4.0.1"},
		{tag: "release-4.0.1-beta.2", want: "4.0.1-beta.2"},
		{tag: "2.3.0", wantErr: true},
		{tag: "release-", wantErr: true},
		{tag: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			t.Parallel()

			got, err := ParseTag(tt.tag)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTag) {
					t.Fatalf("ParseTag(%q) error = %v, want ErrInvalidTag", tt.tag, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTag(%q) unexpected error: %v", tt.tag, err)
			}
			if got != tt.want {
				t.Errorf("ParseTag(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestDownloadURL(t *testing.T) {
	t.Parallel()

	want := "https://github.com/acme/MythicRealms/releases/download/v1-2.3.0/mythicrealms-v1-2.3.0.zip"
	for _, base := range []string{testBaseURL, testBaseURL + "/"} {
		if got := DownloadURL(base, "mythicrealms", testTag); got != want {
			t.Errorf("DownloadURL(%q) = %q, want %q", base, got, want)
		}
	}
	if got := ArchiveName("mythicrealms", testTag); got != "mythicrealms-v1-2.3.0.zip" {
		t.Errorf("ArchiveName() = %q", got)
	}
}

func TestCompile_MergesAndRewrites(t *testing.T) {
	t.Parallel()

	systemPath, freePath := writeManifests(t, testSystemManifest, testFreeManifest)
	if err := Compile(compileOptions(systemPath, freePath, testTag)); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	data, err := os.ReadFile(systemPath)
	if err != nil {
		t.Fatalf("failed to read result: %v", err)
	}
	out := string(data)

	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("manifest should end with a newline, got %q", out[len(out)-3:])
	}
	if !strings.Contains(out, "\n  \"id\": \"mythicrealms\"") {
		t.Errorf("manifest should use two-space indentation:\n%s", out)
	}
	if id, title := strings.Index(out, `"id"`), strings.Index(out, `"title"`); id > title {
		t.Errorf("key order not preserved:\n%s", out)
	}

	var doc struct {
		Flags map[string]json.RawMessage `json:"flags"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if _, ok := doc.Flags["hotReload"]; ok {
		t.Error("hotReload flag should be removed")
	}

	var scope struct {
		SourceBooks map[string]struct {
			Title string `json:"title"`
		} `json:"sourceBooks"`
	}
	if err := json.Unmarshal(doc.Flags["mythicrealms"], &scope); err != nil {
		t.Fatalf("failed to decode flags scope: %v", err)
	}
	if got := scope.SourceBooks["core"].Title; got != "Core Rules" {
		t.Errorf("existing sourceBook overwritten: core.title = %q", got)
	}
	if got := scope.SourceBooks["expansion"].Title; got != "Expansion" {
		t.Errorf("free sourceBook not merged: expansion.title = %q", got)
	}

	info, err := os.Stat(systemPath)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("mode = %o, want 644", perm)
	}
}

func TestCompile_VersionMismatchWritesNothing(t *testing.T) {
	t.Parallel()

	system := strings.Replace(testSystemManifest, `"version": "2.3.0"`, `"version": "2.2.0"`, 1)
	systemPath, freePath := writeManifests(t, system, testFreeManifest)

	err := Compile(compileOptions(systemPath, freePath, testTag))
	if !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("Compile() error = %v, want ErrVersionMismatch", err)
	}
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) || mismatch.Field != "version" || mismatch.Actual != "2.2.0" {
		t.Errorf("MismatchError = %+v", mismatch)
	}

	data, err := os.ReadFile(systemPath)
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}
	if string(data) != system {
		t.Error("manifest must not be modified on mismatch")
	}
}

func TestCompile_DownloadMismatch(t *testing.T) {
	t.Parallel()

	systemPath, freePath := writeManifests(t, testSystemManifest, testFreeManifest)
	opts := compileOptions(systemPath, freePath, testTag)
	opts.BaseURL = "https://github.com/someone-else/MythicRealms"

	err := Compile(opts)
	if !errors.Is(err, ErrDownloadMismatch) {
		t.Fatalf("Compile() error = %v, want ErrDownloadMismatch", err)
	}
}

func TestCompile_CreatesMissingSourceBooks(t *testing.T) {
	t.Parallel()

	system := `{"version": "2.3.0", "download": "https://github.com/acme/MythicRealms/releases/download/v1-2.3.0/mythicrealms-v1-2.3.0.zip"}`
	systemPath, freePath := writeManifests(t, system, testFreeManifest)

	if err := Compile(compileOptions(systemPath, freePath, testTag)); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	data, err := os.ReadFile(systemPath)
	if err != nil {
		t.Fatalf("failed to read result: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	books := doc["flags"].(map[string]any)["mythicrealms"].(map[string]any)["sourceBooks"].(map[string]any)
	if len(books) != 2 {
		t.Errorf("sourceBooks = %v, want core and expansion", books)
	}
}

func TestMergeSourceBooks_FreeWithoutBooks(t *testing.T) {
	t.Parallel()

	out, err := MergeSourceBooks([]byte(`{"flags":{"mythicrealms":{"sourceBooks":{"core":1}}}}`), []byte(`{"id":"free"}`), "mythicrealms")
	if err != nil {
		t.Fatalf("MergeSourceBooks() error = %v", err)
	}
	if string(out) != `{"flags":{"mythicrealms":{"sourceBooks":{"core":1}}}}` {
		t.Errorf("system manifest changed: %s", out)
	}
}

func TestCompile_InvalidTag(t *testing.T) {
	t.Parallel()

	systemPath, freePath := writeManifests(t, testSystemManifest, testFreeManifest)
	if err := Compile(compileOptions(systemPath, freePath, "2.3.0")); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("Compile() error = %v, want ErrInvalidTag", err)
	}
}
