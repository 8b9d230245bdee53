// SPDX-License-Identifier: MPL-2.0

package fspath

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var apostrophes = strings.NewReplacer("'", "", "\u2019", "")

// Slugify turns a display name into a lowercase, hyphenated token that is safe
// as a file or directory name. Accented letters fold to their ASCII base, every
// run of other characters becomes a single hyphen, and edge hyphens are trimmed:
//
//	Slugify("Tasha's Hideous Laughter!!") == "tashas-hideous-laughter"
func Slugify(name string) string {
	name = apostrophes.Replace(name)

	// Transformers carry state, so each call builds its own chain.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, name); err == nil {
		name = folded
	}

	var b strings.Builder
	b.Grow(len(name))
	gap := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if gap && b.Len() > 0 {
				b.WriteByte('-')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}
