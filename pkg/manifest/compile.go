// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DevFlagPath is the development-only flag removed before release.
const DevFlagPath = "flags.hotReload"

var (
	// ErrInvalidTag is returned when a release tag is not <prefix>-<version>.
	ErrInvalidTag = errors.New("invalid release tag")

	// ErrVersionMismatch is returned when the tag version differs from the manifest version.
	ErrVersionMismatch = errors.New("system manifest version mismatch")

	// ErrDownloadMismatch is returned when the manifest download URL differs from the release URL.
	ErrDownloadMismatch = errors.New("system download path mismatch")
)

type (
	// CompileOptions locate the manifests and describe the release being built.
	CompileOptions struct {
		// SystemPath is the checked-out system.json, rewritten in place.
		SystemPath string
		// FreePath is the free rules module.json.
		FreePath string
		// Tag is the release tag, e.g. "release-2.3.0".
		Tag string
		// BaseURL is the repository web URL used to derive the download URL.
		BaseURL string
		// SystemName prefixes the archive file name.
		SystemName string
		// FlagScope is the flags namespace holding sourceBooks.
		FlagScope string
	}

	// MismatchError reports a manifest field that does not match the release.
	MismatchError struct {
		Field    string
		Expected string
		Actual   string
		err      error
	}
)

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: expected %q, manifest has %q", e.err, e.Expected, e.Actual)
}

// Unwrap returns ErrVersionMismatch or ErrDownloadMismatch.
func (e *MismatchError) Unwrap() error {
	return e.err
}

// ParseTag returns the version part of a <prefix>-<version> tag. Everything
// after the first hyphen is the version, so prerelease suffixes survive.
func ParseTag(tag string) (string, error) {
	_, version, found := strings.Cut(tag, "-")
	if !found || version == "" {
		return "", fmt.Errorf("%w: %q (want <prefix>-<version>)", ErrInvalidTag, tag)
	}
	return version, nil
}

// DownloadURL returns the release archive URL for tag.
func DownloadURL(baseURL, systemName, tag string) string {
	return fmt.Sprintf("%s/releases/download/%s/%s-%s.zip", strings.TrimRight(baseURL, "/"), tag, systemName, tag)
}

// ArchiveName returns the release archive file name for tag.
func ArchiveName(systemName, tag string) string {
	return systemName + "-" + tag + ".zip"
}

// Compile checks the system manifest against the release tag, merges the
// free rules sourceBooks into it and rewrites it without development flags.
// Nothing is written when a check fails.
func Compile(opts CompileOptions) error {
	scope := opts.FlagScope
	if scope == "" {
		scope = DefaultFlagScope
	}

	version, err := ParseTag(opts.Tag)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(opts.SystemPath)
	if err != nil {
		return fmt.Errorf("failed to read system manifest: %w", err)
	}
	sys, err := Parse(raw, opts.SystemPath)
	if err != nil {
		return err
	}

	if sys.Version != version {
		return &MismatchError{Field: "version", Expected: version, Actual: sys.Version, err: ErrVersionMismatch}
	}
	download := DownloadURL(opts.BaseURL, opts.SystemName, opts.Tag)
	if sys.Download != download {
		return &MismatchError{Field: "download", Expected: download, Actual: sys.Download, err: ErrDownloadMismatch}
	}

	free, err := os.ReadFile(opts.FreePath)
	if err != nil {
		return fmt.Errorf("failed to read free rules manifest: %w", err)
	}
	if !gjson.ValidBytes(free) {
		return fmt.Errorf("%w: %s: not valid JSON", ErrInvalidManifest, opts.FreePath)
	}

	merged, err := MergeSourceBooks(raw, free, scope)
	if err != nil {
		return err
	}
	merged, err = sjson.DeleteBytes(merged, DevFlagPath)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", DevFlagPath, err)
	}

	out, err := Format(merged)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.SystemPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write system manifest: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(opts.SystemPath, 0o644); err != nil {
		return fmt.Errorf("failed to set system manifest permissions: %w", err)
	}
	return nil
}

// MergeSourceBooks copies every flags.<scope>.sourceBooks entry of free into
// system, keeping the value system already has for a colliding key. The map
// is created in system when missing. Key order of system is preserved.
func MergeSourceBooks(system, free []byte, scope string) ([]byte, error) {
	booksPath := "flags." + escapePath(scope) + ".sourceBooks"

	out := system
	if !gjson.GetBytes(out, booksPath).IsObject() {
		var err error
		out, err = sjson.SetRawBytes(out, booksPath, []byte("{}"))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", booksPath, err)
		}
	}

	freeBooks := gjson.GetBytes(free, booksPath)
	if !freeBooks.IsObject() {
		return out, nil
	}

	var setErr error
	freeBooks.ForEach(func(key, value gjson.Result) bool {
		p := booksPath + "." + escapePath(key.String())
		if gjson.GetBytes(out, p).Exists() {
			return true
		}
		out, setErr = sjson.SetRawBytes(out, p, []byte(value.Raw))
		return setErr == nil
	})
	if setErr != nil {
		return nil, fmt.Errorf("failed to merge sourceBooks: %w", setErr)
	}
	return out, nil
}

// Format re-indents a JSON document with two spaces and a trailing newline.
func Format(data []byte) ([]byte, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	".", `\.`,
	"*", `\*`,
	"?", `\?`,
	"|", `\|`,
	"#", `\#`,
	"@", `\@`,
)

// escapePath escapes a single key for use in a gjson/sjson path.
func escapePath(key string) string {
	return pathEscaper.Replace(key)
}
