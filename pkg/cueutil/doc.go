// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates JSON and CUE documents against embedded CUE schemas.
//
// The flow is the same for every caller:
//
//  1. Compile the embedded schema
//  2. Compile the document and unify it with a schema definition
//  3. Validate and decode into the requested Go type
//
// # Usage
//
//	//go:embed manifest_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[System](
//	    schemaBytes,
//	    data,
//	    "#SystemManifest",
//	    cueutil.WithFilename("system.json"),
//	)
//	if err != nil {
//	    return nil, err // error carries the offending field path
//	}
//	return result.Value, nil
package cueutil
