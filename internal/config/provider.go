// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions pins every input of a load so tests never touch the user's
// real config directory or environment.
type LoadOptions struct {
	// ConfigFilePath, when set, is the only file considered and must exist.
	ConfigFilePath string
	// ConfigDirPath replaces ConfigDir() in the lookup.
	ConfigDirPath string
	// WorkDir is searched after the config directory; "" means the
	// current directory.
	WorkDir string
	// Environment replaces the process environment for MYTHICREALMS_*
	// overrides when non-nil.
	Environment map[string]string
}

// Provider resolves the effective configuration and reports the file it was
// read from ("" when only defaults and the environment applied).
type Provider interface {
	Resolve(ctx context.Context, opts LoadOptions) (*Config, string, error)
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(ctx context.Context, opts LoadOptions) (*Config, string, error)

func (f ProviderFunc) Resolve(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	return f(ctx, opts)
}

// NewProvider returns the Provider layering defaults, the CUE config file
// and environment overrides.
func NewProvider() Provider {
	return ProviderFunc(loadWithOptions)
}
