// SPDX-License-Identifier: MPL-2.0

package compendium

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"

	"mythicrealms-cli/pkg/entry"
	"mythicrealms-cli/pkg/manifest"
)

const (
	// DefaultSource is the editable pack tree, relative to the project root.
	DefaultSource = "packs/_source"
	// DefaultDest is where compiled packs are written, relative to the project root.
	DefaultDest = "packs"

	cleanPattern   = "**/*.yml"
	compilePattern = "**/*.{yml,yaml,json}"

	sourceFileMode fs.FileMode = 0o664
)

// ErrSourceMissing is returned when the pack source tree does not exist.
var ErrSourceMissing = errors.New("pack source directory not found")

type (
	// Option configures a Tool.
	Option func(*Tool)

	// Tool runs the clean, compile and extract operations for one project.
	Tool struct {
		root     string
		source   string
		dest     string
		format   Format
		manifest string
		logger   *log.Logger
	}
)

// New creates a Tool rooted at the current directory using LevelDB packs.
func New(opts ...Option) *Tool {
	t := &Tool{
		root:     ".",
		source:   DefaultSource,
		dest:     DefaultDest,
		format:   FormatLevelDB,
		manifest: manifest.FileName,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WithRoot sets the project root all other paths are relative to.
func WithRoot(root string) Option {
	return func(t *Tool) { t.root = root }
}

// WithSource sets the editable pack tree.
func WithSource(dir string) Option {
	return func(t *Tool) { t.source = dir }
}

// WithDest sets the compiled pack directory.
func WithDest(dir string) Option {
	return func(t *Tool) { t.dest = dir }
}

// WithFormat sets the compiled pack format.
func WithFormat(f Format) Option {
	return func(t *Tool) { t.format = f }
}

// WithManifest sets the system manifest file name.
func WithManifest(name string) Option {
	return func(t *Tool) { t.manifest = name }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(t *Tool) {
		if l != nil {
			t.logger = l
		}
	}
}

func (t *Tool) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(t.root, p)
}

// SourceDir returns the absolute-or-root-relative editable tree.
func (t *Tool) SourceDir() string { return t.path(t.source) }

// Clean normalizes every YAML source file of pack (all packs when empty) in
// place. When entryName is set only entries with that name, compared
// case-insensitively, are touched. Unreadable or unkeyed files are skipped
// with a warning.
func (t *Tool) Clean(ctx context.Context, pack, entryName string) error {
	folders, err := t.packFolders(pack)
	if err != nil {
		return err
	}

	for _, folder := range folders {
		t.logger.Info("Cleaning pack", "pack", folder)
		dir := filepath.Join(t.SourceDir(), folder)

		for src, err := range sourceFiles(dir, cleanPattern) {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := t.cleanFile(src, entryName); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Tool) cleanFile(src, entryName string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	e, err := entry.DecodeYAML(data)
	if err != nil {
		t.logger.Warn("Skipping unreadable entry", "file", src, "err", err)
		return nil
	}
	if !matchesName(e, entryName) {
		return nil
	}
	if !e.Keyed() {
		t.logger.Warn("Skipping entry, missing _id or _key", "file", src)
		return nil
	}

	entry.Normalize(e)
	out, err := e.EncodeYAML()
	if err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to replace %s: %w", src, err)
	}
	if err := os.WriteFile(src, out, sourceFileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", src, err)
	}
	t.logger.Debug("Cleaned", "file", src)
	return nil
}

// Compile builds the compiled form of pack (all packs when empty) from its
// source tree, normalizing every entry on the way. The compiled pack ends
// up holding exactly the source entries.
func (t *Tool) Compile(ctx context.Context, pack string) error {
	folders, err := t.packFolders(pack)
	if err != nil {
		return err
	}

	for _, folder := range folders {
		t.logger.Info("Compiling pack", "pack", folder)
		entries, err := t.readSources(ctx, filepath.Join(t.SourceDir(), folder))
		if err != nil {
			return err
		}

		dest := CompiledPath(t.format, t.path(t.dest), folder)
		if err := writeStore(t.format, dest, entries); err != nil {
			return fmt.Errorf("pack %s: %w", folder, err)
		}
		t.logger.Info("Compiled pack", "pack", folder, "entries", len(entries), "dest", dest)
	}
	return nil
}

func (t *Tool) readSources(ctx context.Context, dir string) ([]*entry.Entry, error) {
	var entries []*entry.Entry
	for src, err := range sourceFiles(dir, compilePattern) {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e, err := readSource(src)
		if err != nil {
			t.logger.Warn("Skipping unreadable entry", "file", src, "err", err)
			continue
		}
		if !e.Keyed() {
			t.logger.Warn("Skipping entry, missing _id or _key", "file", src)
			continue
		}
		entry.Normalize(e)
		entries = append(entries, e)
		t.logger.Debug("Packed", "file", src, "key", e.Key)
	}
	return entries, nil
}

func readSource(path string) (*entry.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var e entry.Entry
		if err := e.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return &e, nil
	}
	return entry.DecodeYAML(data)
}

func writeStore(format Format, path string, entries []*entry.Entry) (err error) {
	store, err := OpenStore(format, path, ModeWrite)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return store.Replace(entries)
}

// packFolders lists the directories under the source tree, restricted to
// pack when it is set.
func (t *Tool) packFolders(pack string) ([]string, error) {
	dirEntries, err := os.ReadDir(t.SourceDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, t.SourceDir())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list pack sources: %w", err)
	}

	var folders []string
	for _, d := range dirEntries {
		if d.IsDir() && (pack == "" || d.Name() == pack) {
			folders = append(folders, d.Name())
		}
	}
	return folders, nil
}

// sourceFiles yields the files below dir matching pattern in lexical order.
func sourceFiles(dir, pattern string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
		if err != nil {
			yield("", fmt.Errorf("failed to walk %s: %w", dir, err))
			return
		}
		slices.Sort(matches)
		for _, m := range matches {
			if !yield(filepath.Join(dir, filepath.FromSlash(m)), nil) {
				return
			}
		}
	}
}

func matchesName(e *entry.Entry, name string) bool {
	return name == "" || strings.EqualFold(e.Name, name)
}
