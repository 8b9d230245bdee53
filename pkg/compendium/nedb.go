// SPDX-License-Identifier: MPL-2.0

package compendium

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"

	"mythicrealms-cli/pkg/entry"
)

// maxNeDBLine bounds a single serialized document.
const maxNeDBLine = 64 * 1024 * 1024

// nedbStore is a legacy pack file: one JSON document per line, embedded
// documents inline.
type nedbStore struct {
	path string
}

func openNeDBStore(path string, mode Mode) (*nedbStore, error) {
	if mode == ModeRead {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open pack file: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("failed to open pack file %s: is a directory", path)
		}
	}
	return &nedbStore{path: path}, nil
}

func (s *nedbStore) Entries() ([]*entry.Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pack file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxNeDBLine)

	var entries []*entry.Entry
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		var e entry.Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", s.path, line, err)
		}
		entries = append(entries, &e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pack file %s: %w", s.path, err)
	}

	sortEntries(entries)
	return entries, nil
}

func (s *nedbStore) Replace(entries []*entry.Entry) error {
	sorted := slices.Clone(entries)
	sortEntries(sorted)

	var buf bytes.Buffer
	for _, e := range sorted {
		if !e.Keyed() {
			return fmt.Errorf("%w: %q", ErrUnkeyedEntry, e.Name)
		}
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", e.Key, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create pack directory: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write pack file: %w", err)
	}
	return nil
}

func (s *nedbStore) Close() error { return nil }

func sortEntries(entries []*entry.Entry) {
	slices.SortStableFunc(entries, func(a, b *entry.Entry) int {
		if c := strings.Compare(a.Key, b.Key); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
