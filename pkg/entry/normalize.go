// SPDX-License-Identifier: MPL-2.0

package entry

import (
	"strings"

	"golang.org/x/exp/slices"
)

// PlaceholderImg is the host's generic actor portrait.
const PlaceholderImg = "icons/svg/mystery-man.svg"

type (
	// Option adjusts a single Normalize call.
	Option func(*options)

	options struct {
		clearSourceID bool
		ownership     int
	}

	// sentinel rewrites the "deliberately unset" spelling of one system field.
	sentinel struct {
		path    []string
		numeric bool
	}
)

var (
	// Fields whose zero spelling means "unset". Numeric fields become null,
	// string fields holding "0" become "".
	sentinels = []sentinel{
		{path: []string{"activation", "cost"}, numeric: true},
		{path: []string{"duration", "value"}},
		{path: []string{"target", "value"}, numeric: true},
		{path: []string{"target", "width"}, numeric: true},
		{path: []string{"range", "value"}, numeric: true},
		{path: []string{"range", "long"}, numeric: true},
		{path: []string{"uses", "value"}, numeric: true},
		{path: []string{"uses", "max"}},
		{path: []string{"save", "dc"}, numeric: true},
		{path: []string{"capacity", "value"}, numeric: true},
		{path: []string{"strength"}, numeric: true},
	}

	actorTypes = []string{"character", "npc"}

	textCleaner = strings.NewReplacer(
		"\u2060", "", // word joiner
		"\u200d", "", // zero width joiner
		"\u2018", "'",
		"\u2019", "'",
		"\u201c", `"`,
		"\u201d", `"`,
	)
)

// WithClearSourceID controls whether compendium source stamps are removed.
// Defaults to true.
func WithClearSourceID(clear bool) Option {
	return func(o *options) {
		o.clearSourceID = clear
	}
}

// WithOwnership sets the level ownership collapses to. Defaults to 0.
func WithOwnership(level int) Option {
	return func(o *options) {
		o.ownership = level
	}
}

// Normalize rewrites e in place into its canonical distribution form.
// It is idempotent and tolerates missing substructure.
func Normalize(e *Entry, opts ...Option) {
	if e == nil {
		return
	}
	o := options{clearSourceID: true}
	for _, opt := range opts {
		opt(&o)
	}

	if e.Ownership != nil {
		e.Ownership = map[string]int{"default": o.ownership}
	}

	if o.clearSourceID {
		delete(e.Stats, "compendiumSource")
		if core, ok := e.Flags["core"].(map[string]any); ok {
			delete(core, "sourceId")
		}
	}
	delete(e.Flags, "importSource")
	delete(e.Flags, "exportSource")

	for _, s := range sentinels {
		s.apply(e.System)
	}

	if slices.Contains(actorTypes, e.Type) && e.ImgPath() == PlaceholderImg {
		e.Img = StringPtr("")
		if texture, ok := e.PrototypeToken["texture"].(map[string]any); ok {
			texture["src"] = ""
		}
	}

	for _, effect := range e.Effects {
		Normalize(effect, WithClearSourceID(false))
	}
	for _, item := range e.Items {
		Normalize(item, WithClearSourceID(false))
	}
	for _, page := range e.Pages {
		Normalize(page, WithOwnership(-1))
	}

	if description, ok := e.System["description"].(map[string]any); ok {
		if value, ok := description["value"].(string); ok && value != "" {
			description["value"] = CleanString(value)
		}
	}
	if e.Label != "" {
		e.Label = CleanString(e.Label)
	}
	if e.Name != "" {
		e.Name = CleanString(e.Name)
	}
}

// CleanString strips joiner characters, straightens curly quotes and trims
// surrounding whitespace.
func CleanString(s string) string {
	return strings.TrimSpace(textCleaner.Replace(s))
}

func (s sentinel) apply(system map[string]any) {
	parent := system
	for _, key := range s.path[:len(s.path)-1] {
		child, ok := parent[key].(map[string]any)
		if !ok {
			return
		}
		parent = child
	}

	leaf := s.path[len(s.path)-1]
	value, ok := parent[leaf]
	if !ok {
		return
	}
	if s.numeric {
		if isZeroNumber(value) {
			parent[leaf] = nil
		}
		return
	}
	if value == "0" {
		parent[leaf] = ""
	}
}

func isZeroNumber(v any) bool {
	switch n := v.(type) {
	case int:
		return n == 0
	case int8:
		return n == 0
	case int16:
		return n == 0
	case int32:
		return n == 0
	case int64:
		return n == 0
	case uint:
		return n == 0
	case uint8:
		return n == 0
	case uint16:
		return n == 0
	case uint32:
		return n == 0
	case uint64:
		return n == 0
	case float32:
		return n == 0
	case float64:
		return n == 0
	default:
		return false
	}
}
