// SPDX-License-Identifier: MPL-2.0

// Package compendium converts compendium packs between their editable source
// form, one YAML file per entry under packs/_source/<pack>, and the compiled
// form the host application loads from packs/<pack>.
//
// Compiled packs are read and written through a Store. Two formats exist: the
// LevelDB database the host uses natively and the legacy NeDB JSON-lines file.
package compendium
