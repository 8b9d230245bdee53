// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/mythicrealms/config.cue (%APPDATA% on
// Windows, ~/Library/Application Support on macOS), falling back to ./config.cue. A file
// passed with --config is used exclusively. MYTHICREALMS_* environment variables override
// the file, and command-line flags override both.
//
// Files are validated against an embedded CUE schema (config_schema.cue).
package config
