// SPDX-License-Identifier: MPL-2.0

// Package entry models a single compendium pack entry (an actor, item, journal
// entry, folder, ...) and the normalization every entry goes through before it
// is written to an editable source file or a compiled pack.
//
// An Entry keeps the fields the tooling reasons about as explicit struct fields
// and carries every other document field through untouched, so entries survive
// YAML and JSON round trips without losing host data.
package entry
