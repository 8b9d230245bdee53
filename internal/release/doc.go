// SPDX-License-Identifier: MPL-2.0

// Package release builds a distributable system archive from a tagged
// checkout of the system repository and the free rules content.
//
// A Builder runs a fixed sequence of steps (prepare, checkout, install,
// manifest, icons, content, build, archive) against a single output
// directory. Steps run strictly in order and the first failure aborts the
// run; the output directory is left as the failing step found it.
package release
