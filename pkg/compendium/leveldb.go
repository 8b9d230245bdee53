// SPDX-License-Identifier: MPL-2.0

package compendium

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"mythicrealms-cli/pkg/entry"
)

// levelStore keeps each primary document under its _key ("!items!<id>").
// Embedded documents live under "!<collection>.<field>!<parentId>.<id>" and
// the parent stores only their ids.
type levelStore struct {
	db   *leveldb.DB
	path string
}

func openLevelStore(path string, mode Mode) (*levelStore, error) {
	o := &opt.Options{}
	if mode == ModeRead {
		o.ErrorIfMissing = true
		o.ReadOnly = true
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create pack directory: %w", err)
	}

	db, err := leveldb.OpenFile(path, o)
	if err != nil {
		return nil, fmt.Errorf("failed to open pack database %s: %w", path, err)
	}
	return &levelStore{db: db, path: path}, nil
}

func (s *levelStore) Entries() ([]*entry.Entry, error) {
	it := s.db.NewIterator(nil, nil)
	defer it.Release()

	var entries []*entry.Entry
	for it.Next() {
		key := string(it.Key())
		collection, id, ok := splitKey(key)
		if !ok || strings.Contains(collection, ".") {
			continue
		}

		doc, err := entry.DecodeJSONDocument(it.Value())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if err := s.inflate(collection, id, doc); err != nil {
			return nil, err
		}
		doc["_key"] = key

		e, err := entry.FromMap(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		entries = append(entries, e)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("failed to read pack database %s: %w", s.path, err)
	}
	return entries, nil
}

// inflate replaces embedded id lists in doc with the documents they name.
// Ids without a stored document are dropped.
func (s *levelStore) inflate(collection, parentPath string, doc map[string]any) error {
	for _, field := range embeddedFields(collection) {
		ids, ok := doc[field].([]any)
		if !ok {
			continue
		}

		childCollection := collection + "." + field
		children := make([]any, 0, len(ids))
		for _, raw := range ids {
			id, ok := raw.(string)
			if !ok {
				continue
			}
			childPath := parentPath + "." + id
			key := makeKey(childCollection, childPath)

			value, err := s.db.Get([]byte(key), nil)
			if errors.Is(err, leveldb.ErrNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", key, err)
			}

			child, err := entry.DecodeJSONDocument(value)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			if err := s.inflate(childCollection, childPath, child); err != nil {
				return err
			}
			child["_key"] = key
			children = append(children, child)
		}
		doc[field] = children
	}
	return nil
}

func (s *levelStore) Replace(entries []*entry.Entry) error {
	batch := new(leveldb.Batch)
	written := make(map[string]struct{})

	for _, e := range entries {
		collection, _, ok := splitKey(e.Key)
		if !e.Keyed() || !ok {
			return fmt.Errorf("%w: %q", ErrUnkeyedEntry, e.Name)
		}
		doc, err := e.Map()
		if err != nil {
			return err
		}
		if err := flatten(batch, written, e.Key, collection, e.ID, doc); err != nil {
			return err
		}
	}

	it := s.db.NewIterator(nil, nil)
	for it.Next() {
		if _, ok := written[string(it.Key())]; !ok {
			batch.Delete(append([]byte(nil), it.Key()...))
		}
	}
	it.Release()
	if err := it.Error(); err != nil {
		return fmt.Errorf("failed to scan pack database %s: %w", s.path, err)
	}

	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("failed to write pack database %s: %w", s.path, err)
	}
	if err := s.db.CompactRange(util.Range{}); err != nil {
		return fmt.Errorf("failed to compact pack database %s: %w", s.path, err)
	}
	return nil
}

// flatten stores doc under key and its embedded documents under their own
// keys, leaving id lists behind in doc.
func flatten(batch *leveldb.Batch, written map[string]struct{}, key, collection, path string, doc map[string]any) error {
	for _, field := range embeddedFields(collection) {
		children, ok := doc[field].([]any)
		if !ok {
			continue
		}

		childCollection := collection + "." + field
		ids := make([]any, 0, len(children))
		for _, raw := range children {
			child, ok := raw.(map[string]any)
			if !ok {
				return fmt.Errorf("%s: %s holds a non-document value", key, field)
			}
			id, _ := child["_id"].(string)
			if id == "" {
				return fmt.Errorf("%w: embedded %s document in %s", ErrUnkeyedEntry, childCollection, key)
			}
			childPath := path + "." + id
			if err := flatten(batch, written, makeKey(childCollection, childPath), childCollection, childPath, child); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		doc[field] = ids
	}

	delete(doc, "_key")
	value, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	batch.Put([]byte(key), value)
	written[key] = struct{}{}
	return nil
}

func (s *levelStore) Close() error {
	return s.db.Close()
}

func makeKey(collection, path string) string {
	return "!" + collection + "!" + path
}

// splitKey splits "!collection!path" into its parts.
func splitKey(key string) (collection, path string, ok bool) {
	rest, found := strings.CutPrefix(key, "!")
	if !found {
		return "", "", false
	}
	collection, path, ok = strings.Cut(rest, "!")
	return collection, path, ok && collection != "" && path != ""
}
