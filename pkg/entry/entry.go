// SPDX-License-Identifier: MPL-2.0

package entry

import "strings"

const (
	// FolderKeyPrefix prefixes the _key of folder documents.
	FolderKeyPrefix = "!folders"

	// TypeContainer is the type discriminator of container items.
	TypeContainer = "container"
)

// Entry is one compendium document. Embedded documents (effects, items, pages)
// share the same shape and are normalized recursively.
type Entry struct {
	Name           string         `yaml:"name,omitempty"`
	Type           string         `yaml:"type,omitempty"`
	ID             string         `yaml:"_id,omitempty"`
	Img            *string        `yaml:"img,omitempty"`
	Label          string         `yaml:"label,omitempty"`
	System         map[string]any `yaml:"system,omitempty"`
	PrototypeToken map[string]any `yaml:"prototypeToken,omitempty"`
	Items          []*Entry       `yaml:"items,omitempty"`
	Effects        []*Entry       `yaml:"effects,omitempty"`
	Pages          []*Entry       `yaml:"pages,omitempty"`
	Folder         *string        `yaml:"folder,omitempty"`
	Ownership      map[string]int `yaml:"ownership,omitempty"`
	Flags          map[string]any `yaml:"flags,omitempty"`
	Stats          map[string]any `yaml:"_stats,omitempty"`
	Key            string         `yaml:"_key,omitempty"`

	// Extra holds every document field without a dedicated struct field.
	Extra map[string]any `yaml:",inline"`
}

// IsFolder reports whether the entry is a folder document.
func (e *Entry) IsFolder() bool {
	return strings.HasPrefix(e.Key, FolderKeyPrefix)
}

// IsContainer reports whether the entry is a container item.
func (e *Entry) IsContainer() bool {
	return e.Type == TypeContainer
}

// FolderID returns the id of the folder holding the entry, or "".
func (e *Entry) FolderID() string {
	if e.Folder == nil {
		return ""
	}
	return *e.Folder
}

// ContainerID returns system.container, the id of the container holding the entry.
func (e *Entry) ContainerID() string {
	id, _ := e.System["container"].(string)
	return id
}

// Collection returns the collection segment of the entry key: "items" for
// "!items!abc", "actors.items" for "!actors.items!abc.def".
func (e *Entry) Collection() string {
	rest, ok := strings.CutPrefix(e.Key, "!")
	if !ok {
		return ""
	}
	collection, _, _ := strings.Cut(rest, "!")
	return collection
}

// Keyed reports whether the entry carries both an identifier and a key.
func (e *Entry) Keyed() bool {
	return e.ID != "" && e.Key != ""
}

// ImgPath returns the image path, or "" when unset.
func (e *Entry) ImgPath() string {
	if e.Img == nil {
		return ""
	}
	return *e.Img
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
