// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the mythicrealms CLI commands: dist builds a release
// archive, package maintains compendium packs, config inspects the tool
// configuration.
package cmd
