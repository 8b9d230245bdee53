// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"errors"
	"fmt"

	"mythicrealms-cli/pkg/cueutil"
)

// ErrInvalidManifest is returned when a manifest does not satisfy the schema.
var ErrInvalidManifest = errors.New("invalid manifest")

//go:embed manifest_schema.cue
var manifestSchema []byte

func decode[T any](data []byte, definition, name string) (*T, error) {
	result, err := cueutil.ParseAndDecode[T](manifestSchema, data, definition, cueutil.WithFilename(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return result.Value, nil
}
