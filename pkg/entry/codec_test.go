// SPDX-License-Identifier: MPL-2.0

package entry

import (
	"encoding/json"
	"strings"
	"testing"
)

const sampleActor = `name: Goblin Boss
type: npc
_id: gob001
img: ""
system:
  abilities:
    str:
      value: 10
  details:
    cr: 1
items:
  - name: Scimitar
    type: weapon
    _id: itm001
    system:
      damage:
        parts:
          - - 1d6 + @mod
            - slashing
folder: fld001
sort: 100000
_key: '!actors!gob001'
`

func TestDecodeYAML_KeepsUnknownFields(t *testing.T) {
	t.Parallel()

	e := mustDecode(t, sampleActor)

	if e.ID != "gob001" || e.Key != "!actors!gob001" || e.Type != "npc" {
		t.Fatalf("unexpected identity fields: id=%q key=%q type=%q", e.ID, e.Key, e.Type)
	}
	if e.Extra["sort"] != 100000 {
		t.Errorf("Extra[sort] = %v, want 100000", e.Extra["sort"])
	}
	if e.FolderID() != "fld001" {
		t.Errorf("FolderID() = %q, want fld001", e.FolderID())
	}
	if e.Img == nil || *e.Img != "" {
		t.Errorf("Img = %v, want pointer to empty string", e.Img)
	}
	if len(e.Items) != 1 || e.Items[0].ID != "itm001" {
		t.Fatalf("Items = %v", e.Items)
	}

	out := string(mustEncode(t, e))
	for _, want := range []string{"sort: 100000", "img: \"\"", "_key: '!actors!gob001'", "cr: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("encoded YAML missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("encoded YAML does not end with a newline")
	}
	if !strings.Contains(out, "\n  abilities:") {
		t.Errorf("encoded YAML does not use two-space indentation:\n%s", out)
	}
}

func TestEntry_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	src := `{"_id":"itm9","name":"Rope","type":"loot","system":{"weight":{"value":10,"units":"lb"},"price":{"value":1.5}},"effects":[],"sort":42,"_key":"!items!itm9"}`

	var e Entry
	if err := json.Unmarshal([]byte(src), &e); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	weight, _ := e.System["weight"].(map[string]any)
	if weight["value"] != 10 {
		t.Errorf("system.weight.value = %#v, want integer 10", weight["value"])
	}
	price, _ := e.System["price"].(map[string]any)
	if price["value"] != 1.5 {
		t.Errorf("system.price.value = %#v, want 1.5", price["value"])
	}

	data, err := json.Marshal(&e)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	doc, err := DecodeJSONDocument(data)
	if err != nil {
		t.Fatalf("DecodeJSONDocument() error = %v", err)
	}
	if doc["sort"] != int64(42) {
		t.Errorf("sort = %#v, want int64(42)", doc["sort"])
	}
	if doc["_key"] != "!items!itm9" {
		t.Errorf("_key = %#v", doc["_key"])
	}
	if doc["name"] != "Rope" {
		t.Errorf("name = %#v", doc["name"])
	}
}

func TestFromMap(t *testing.T) {
	t.Parallel()

	e, err := FromMap(map[string]any{
		"_id":  "jrn1",
		"name": "Handout",
		"pages": []any{
			map[string]any{"_id": "pg1", "name": "One", "type": "text"},
		},
		"folder":    nil,
		"ownership": map[string]any{"default": json.Number("2")},
	})
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}
	if len(e.Pages) != 1 || e.Pages[0].Name != "One" {
		t.Errorf("Pages = %v", e.Pages)
	}
	if e.Folder != nil {
		t.Errorf("Folder = %v, want nil", *e.Folder)
	}
	if e.Ownership["default"] != 2 {
		t.Errorf("Ownership = %v", e.Ownership)
	}
}

func TestEntry_Accessors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		entry          Entry
		wantCollection string
		wantFolder     bool
		wantContainer  bool
		wantKeyed      bool
	}{
		{name: "item", entry: Entry{ID: "a", Key: "!items!a"}, wantCollection: "items", wantKeyed: true},
		{name: "folder", entry: Entry{ID: "f", Key: "!folders!f"}, wantCollection: "folders", wantFolder: true, wantKeyed: true},
		{name: "container", entry: Entry{ID: "c", Key: "!items!c", Type: TypeContainer}, wantCollection: "items", wantContainer: true, wantKeyed: true},
		{name: "embedded", entry: Entry{ID: "b", Key: "!actors.items!a.b"}, wantCollection: "actors.items", wantKeyed: true},
		{name: "unkeyed", entry: Entry{ID: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.entry.Collection(); got != tt.wantCollection {
				t.Errorf("Collection() = %q, want %q", got, tt.wantCollection)
			}
			if got := tt.entry.IsFolder(); got != tt.wantFolder {
				t.Errorf("IsFolder() = %v, want %v", got, tt.wantFolder)
			}
			if got := tt.entry.IsContainer(); got != tt.wantContainer {
				t.Errorf("IsContainer() = %v, want %v", got, tt.wantContainer)
			}
			if got := tt.entry.Keyed(); got != tt.wantKeyed {
				t.Errorf("Keyed() = %v, want %v", got, tt.wantKeyed)
			}
		})
	}

	e := Entry{System: map[string]any{"container": "bag01"}}
	if e.ContainerID() != "bag01" {
		t.Errorf("ContainerID() = %q, want bag01", e.ContainerID())
	}
}
