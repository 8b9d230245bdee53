// SPDX-License-Identifier: MPL-2.0

// Package manifest reads, validates and rewrites the system manifest
// (system.json) of a release, and computes the file set a release archive
// ships.
//
// Rewrites edit the manifest document in place so the host fields this
// package does not model keep their content and key order.
package manifest
