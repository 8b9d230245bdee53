// SPDX-License-Identifier: MPL-2.0

package compendium

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"mythicrealms-cli/pkg/entry"
)

const (
	// FormatLevelDB is the host's native compiled pack format.
	FormatLevelDB Format = "leveldb"
	// FormatNeDB is the legacy single-file JSON-lines format.
	FormatNeDB Format = "nedb"
)

const (
	// ModeRead opens an existing compiled pack.
	ModeRead Mode = iota
	// ModeWrite opens a compiled pack for replacement, creating it if needed.
	ModeWrite
)

var (
	// ErrUnknownFormat is returned for a pack format other than leveldb or nedb.
	ErrUnknownFormat = errors.New("unknown pack format")

	// ErrUnkeyedEntry is returned when a document cannot be addressed in a store.
	ErrUnkeyedEntry = errors.New("entry has no _id or _key")
)

type (
	// Format names a compiled pack format.
	Format string

	// Mode selects how a store is opened.
	Mode int

	// Store is a compiled pack.
	Store interface {
		// Entries returns the primary documents in key order, with their
		// embedded documents attached.
		Entries() ([]*entry.Entry, error)
		// Replace makes entries the full contents of the store.
		Replace(entries []*entry.Entry) error
		Close() error
	}
)

// ParseFormat validates a configured format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatLevelDB, FormatNeDB:
		return f, nil
	case "":
		return FormatLevelDB, nil
	default:
		return "", fmt.Errorf("%w: %q (want leveldb or nedb)", ErrUnknownFormat, s)
	}
}

// OpenStore opens the compiled pack at path.
func OpenStore(format Format, path string, mode Mode) (Store, error) {
	switch format {
	case FormatLevelDB:
		return openLevelStore(path, mode)
	case FormatNeDB:
		return openNeDBStore(path, mode)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// CompiledPath returns where the compiled form of pack lives under dest.
func CompiledPath(format Format, dest, pack string) string {
	if format == FormatNeDB {
		return filepath.Join(dest, pack+".db")
	}
	return filepath.Join(dest, pack)
}
