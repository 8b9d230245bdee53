// SPDX-License-Identifier: MPL-2.0

package compendium

import "strings"

// embedded maps a document collection to the fields holding its embedded
// documents. Embedded collections are looked up by their last segment, so
// "actors.items" resolves through "items".
var embedded = map[string][]string{
	"actors":    {"items", "effects"},
	"cards":     {"cards"},
	"combats":   {"combatants"},
	"items":     {"effects"},
	"journal":   {"pages"},
	"playlists": {"sounds"},
	"regions":   {"behaviors"},
	"scenes":    {"drawings", "tokens", "lights", "notes", "regions", "sounds", "templates", "tiles", "walls"},
	"tables":    {"results"},
}

// embeddedFields returns the embedded fields of collection.
func embeddedFields(collection string) []string {
	if i := strings.LastIndexByte(collection, '.'); i >= 0 {
		collection = collection[i+1:]
	}
	return embedded[collection]
}
