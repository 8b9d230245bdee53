// SPDX-License-Identifier: MPL-2.0

package entry

import (
	"bytes"
	"strings"
	"testing"
)

func mustDecode(t *testing.T, src string) *Entry {
	t.Helper()
	e, err := DecodeYAML([]byte(src))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	return e
}

func mustEncode(t *testing.T, e *Entry) []byte {
	t.Helper()
	data, err := e.EncodeYAML()
	if err != nil {
		t.Fatalf("EncodeYAML() error = %v", err)
	}
	return data
}

func TestNormalize_Ownership(t *testing.T) {
	t.Parallel()

	e := mustDecode(t, `
_id: j1
name: Lore
ownership:
  default: 2
  abcdef: 3
pages:
  - _id: p1
    name: Page One
    ownership:
      default: 2
  - _id: p2
    name: Page Two
`)
	Normalize(e)

	if len(e.Ownership) != 1 || e.Ownership["default"] != 0 {
		t.Errorf("Ownership = %v, want map[default:0]", e.Ownership)
	}
	if got := e.Pages[0].Ownership; len(got) != 1 || got["default"] != -1 {
		t.Errorf("page Ownership = %v, want map[default:-1]", got)
	}
	if e.Pages[1].Ownership != nil {
		t.Errorf("page without ownership gained one: %v", e.Pages[1].Ownership)
	}
}

func TestNormalize_ProvenanceFlags(t *testing.T) {
	t.Parallel()

	e := mustDecode(t, `
_id: a1
name: Goblin
type: npc
_stats:
  compendiumSource: Compendium.world.monsters.Actor.a1
  coreVersion: "12"
flags:
  core:
    sourceId: Compendium.world.monsters.a1
  importSource:
    path: goblin.json
  exportSource:
    world: test
  mythicrealms:
    keep: true
items:
  - _id: i1
    name: Scimitar
    _stats:
      compendiumSource: Compendium.world.items.Item.i1
    flags:
      core:
        sourceId: Compendium.world.items.i1
      importSource:
        path: scimitar.json
`)
	Normalize(e)

	if _, ok := e.Stats["compendiumSource"]; ok {
		t.Error("_stats.compendiumSource was not removed")
	}
	if e.Stats["coreVersion"] != "12" {
		t.Errorf("_stats.coreVersion = %v, want 12", e.Stats["coreVersion"])
	}
	core, _ := e.Flags["core"].(map[string]any)
	if _, ok := core["sourceId"]; ok {
		t.Error("flags.core.sourceId was not removed")
	}
	for _, key := range []string{"importSource", "exportSource"} {
		if _, ok := e.Flags[key]; ok {
			t.Errorf("flags.%s was not removed", key)
		}
	}
	if _, ok := e.Flags["mythicrealms"]; !ok {
		t.Error("unrelated flag scope was removed")
	}

	item := e.Items[0]
	if _, ok := item.Stats["compendiumSource"]; !ok {
		t.Error("nested item lost _stats.compendiumSource")
	}
	itemCore, _ := item.Flags["core"].(map[string]any)
	if _, ok := itemCore["sourceId"]; !ok {
		t.Error("nested item lost flags.core.sourceId")
	}
	if _, ok := item.Flags["importSource"]; ok {
		t.Error("nested item kept flags.importSource")
	}
}

func TestNormalize_Sentinels(t *testing.T) {
	t.Parallel()

	e := mustDecode(t, `
_id: s1
name: Fireball
type: spell
system:
  activation: {cost: 0}
  duration: {value: "0"}
  target: {value: 0, width: 0.0}
  range: {value: 0, long: 0}
  uses: {value: 0, max: "0"}
  save: {dc: 0}
  capacity: {value: 0}
  strength: 0
`)
	Normalize(e)

	numeric := [][]string{
		{"activation", "cost"},
		{"target", "value"},
		{"target", "width"},
		{"range", "value"},
		{"range", "long"},
		{"uses", "value"},
		{"save", "dc"},
		{"capacity", "value"},
	}
	for _, path := range numeric {
		parent, _ := e.System[path[0]].(map[string]any)
		value, ok := parent[path[1]]
		if !ok || value != nil {
			t.Errorf("system.%s = %v (present %v), want null", strings.Join(path, "."), value, ok)
		}
	}
	if value, ok := e.System["strength"]; !ok || value != nil {
		t.Errorf("system.strength = %v, want null", value)
	}

	strs := [][]string{{"duration", "value"}, {"uses", "max"}}
	for _, path := range strs {
		parent, _ := e.System[path[0]].(map[string]any)
		if parent[path[1]] != "" {
			t.Errorf("system.%s = %#v, want empty string", strings.Join(path, "."), parent[path[1]])
		}
	}
}

func TestNormalize_SentinelsKeepRealValues(t *testing.T) {
	t.Parallel()

	e := mustDecode(t, `
_id: s2
name: Longbow
type: weapon
system:
  activation: {cost: 1}
  duration: {value: "10"}
  range: {value: 150, long: 600}
  uses: {value: 2, max: "3"}
  save: {dc: 13}
  strength: 15
  capacity: {value: "0"}
`)
	Normalize(e)

	rng, _ := e.System["range"].(map[string]any)
	if rng["value"] != 150 || rng["long"] != 600 {
		t.Errorf("system.range = %v, want value 150 long 600", rng)
	}
	uses, _ := e.System["uses"].(map[string]any)
	if uses["value"] != 2 || uses["max"] != "3" {
		t.Errorf("system.uses = %v, want value 2 max \"3\"", uses)
	}
	if e.System["strength"] != 15 {
		t.Errorf("system.strength = %v, want 15", e.System["strength"])
	}
	capacity, _ := e.System["capacity"].(map[string]any)
	if capacity["value"] != "0" {
		t.Errorf("numeric sentinel rewrote a string value: %#v", capacity["value"])
	}
	duration, _ := e.System["duration"].(map[string]any)
	if duration["value"] != "10" {
		t.Errorf("system.duration.value = %#v, want \"10\"", duration["value"])
	}
}

func TestNormalize_PlaceholderPortrait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		src       string
		wantImg   string
		wantToken string
	}{
		{
			name: "npc placeholder is blanked",
			src: `
_id: a1
name: Bandit
type: npc
img: icons/svg/mystery-man.svg
prototypeToken:
  texture:
    src: icons/svg/mystery-man.svg
`,
			wantImg:   "",
			wantToken: "",
		},
		{
			name: "character with custom art is kept",
			src: `
_id: a2
name: Hero
type: character
img: systems/mythicrealms/art/hero.webp
prototypeToken:
  texture:
    src: systems/mythicrealms/art/hero-token.webp
`,
			wantImg:   "systems/mythicrealms/art/hero.webp",
			wantToken: "systems/mythicrealms/art/hero-token.webp",
		},
		{
			name: "items keep the placeholder",
			src: `
_id: i1
name: Mask
type: equipment
img: icons/svg/mystery-man.svg
prototypeToken:
  texture:
    src: icons/svg/mystery-man.svg
`,
			wantImg:   PlaceholderImg,
			wantToken: PlaceholderImg,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := mustDecode(t, tt.src)
			Normalize(e)
			if e.Img == nil || *e.Img != tt.wantImg {
				t.Errorf("img = %v, want %q", e.Img, tt.wantImg)
			}
			texture, _ := e.PrototypeToken["texture"].(map[string]any)
			if texture["src"] != tt.wantToken {
				t.Errorf("prototypeToken.texture.src = %v, want %q", texture["src"], tt.wantToken)
			}
		})
	}
}

func TestNormalize_PlaceholderWithoutToken(t *testing.T) {
	t.Parallel()

	e := mustDecode(t, "_id: a3\nname: Ghost\ntype: npc\nimg: icons/svg/mystery-man.svg\n")
	Normalize(e)
	if e.ImgPath() != "" {
		t.Errorf("img = %q, want empty", e.ImgPath())
	}
	if e.Img == nil {
		t.Error("img field was dropped instead of blanked")
	}
}

func TestNormalize_TextFields(t *testing.T) {
	t.Parallel()

	e := &Entry{
		ID:    "e1",
		Name:  "  \u201cDragon\u2019s\u2060 Breath\u201d  ",
		Label: "\u2018Bless\u2019\u200d",
		System: map[string]any{
			"description": map[string]any{"value": "<p>It\u2019s \u201chot\u201d.</p>\n"},
		},
		Effects: []*Entry{{ID: "x1", Label: " Burning\u2060 "}},
	}
	Normalize(e)

	if e.Name != `"Dragon's Breath"` {
		t.Errorf("Name = %q", e.Name)
	}
	if e.Label != "'Bless'" {
		t.Errorf("Label = %q", e.Label)
	}
	description, _ := e.System["description"].(map[string]any)
	if description["value"] != `<p>It's "hot".</p>` {
		t.Errorf("description.value = %q", description["value"])
	}
	if e.Effects[0].Label != "Burning" {
		t.Errorf("effect Label = %q", e.Effects[0].Label)
	}
}

func TestNormalize_MissingStructure(t *testing.T) {
	t.Parallel()

	for _, e := range []*Entry{
		{},
		{ID: "bare", Type: "npc"},
		{ID: "odd", System: map[string]any{"activation": "not a map", "description": 7, "range": map[string]any{}}},
		{ID: "nil-children", Items: []*Entry{nil}, Pages: []*Entry{nil}},
	} {
		Normalize(e)
	}
	Normalize(nil)
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	src := `
_id: a1
_key: '!actors!a1'
name: " \u201cOld\u2019 Tom\u201d "
type: npc
img: icons/svg/mystery-man.svg
prototypeToken:
  texture: {src: icons/svg/mystery-man.svg}
ownership: {default: 3}
_stats: {compendiumSource: x}
flags:
  core: {sourceId: y}
  exportSource: {world: z}
system:
  strength: 0
  uses: {value: 0, max: "0"}
  description: {value: "  It\u2019s old\u2060.  "}
items:
  - _id: i1
    name: "\u2018Club\u2019"
    system: {activation: {cost: 0}}
    effects:
      - _id: e1
        label: " Stunned\u2060"
pages:
  - _id: p1
    name: Notes
    ownership: {default: 2}
`
	once := mustDecode(t, src)
	Normalize(once)
	first := mustEncode(t, once)

	Normalize(once)
	second := mustEncode(t, once)

	if !bytes.Equal(first, second) {
		t.Errorf("Normalize is not idempotent:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestCleanString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"  padded  ", "padded"},
		{"word\u2060joiner", "wordjoiner"},
		{"zero\u200dwidth", "zerowidth"},
		{"\u2018single\u2019", "'single'"},
		{"\u201cdouble\u201d", `"double"`},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanString(tt.in); got != tt.want {
			t.Errorf("CleanString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
