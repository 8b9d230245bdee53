// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"os"
)

const (
	// FileName is the system manifest file name inside a release tree.
	FileName = "system.json"

	// FreeFileName is the manifest file name of the free rules module.
	FreeFileName = "module.json"

	// DefaultFlagScope is the flags namespace holding sourceBooks.
	DefaultFlagScope = "mythicrealms"
)

type (
	// System is the typed, read-only view of a system manifest.
	System struct {
		ID        string     `json:"id"`
		Version   string     `json:"version"`
		Download  string     `json:"download"`
		ESModules []string   `json:"esmodules"`
		Styles    []string   `json:"styles"`
		Packs     []Pack     `json:"packs"`
		Languages []Language `json:"languages"`
	}

	// Pack is one compendium declared by the manifest.
	Pack struct {
		Name  string `json:"name"`
		Label string `json:"label,omitempty"`
		Path  string `json:"path"`
		Type  string `json:"type,omitempty"`
	}

	// Language is one localization file declared by the manifest.
	Language struct {
		Lang string `json:"lang"`
		Name string `json:"name,omitempty"`
		Path string `json:"path"`
	}

	// PlatformConfig is the packaging configuration file shipped next to the
	// manifest (foundryvtt.json). Includes may be literal paths or glob patterns.
	PlatformConfig struct {
		Includes []string `json:"includes"`
	}
)

// Load reads and validates the system manifest at path.
func Load(path string) (*System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data, path)
}

// Parse validates data against the manifest schema and decodes it.
// name is only used in error messages.
func Parse(data []byte, name string) (*System, error) {
	return decode[System](data, "#SystemManifest", name)
}

// LoadPacks reads the manifest at path checking only its pack declarations.
// Extraction needs nothing else, so development manifests without a release
// version or download URL still load.
func LoadPacks(path string) (*System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return decode[System](data, "#PackIndex", path)
}

// PackNamed returns the declared pack called name.
func (s *System) PackNamed(name string) (Pack, bool) {
	for _, p := range s.Packs {
		if p.Name == name {
			return p, true
		}
	}
	return Pack{}, false
}

// LoadPlatformConfig reads the packaging configuration at path. A missing
// file yields an empty configuration.
func LoadPlatformConfig(path string) (*PlatformConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &PlatformConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read platform config: %w", err)
	}
	return decode[PlatformConfig](data, "#PlatformConfig", path)
}
