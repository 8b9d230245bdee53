// SPDX-License-Identifier: MPL-2.0

package platform

// runtime.GOOS values the tool branches on.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// ConfigHomeEnv names the environment variable holding the per-user config
// root on goos. macOS has no such variable and returns "".
func ConfigHomeEnv(goos string) string {
	switch goos {
	case Windows:
		return "APPDATA"
	case Darwin:
		return ""
	default:
		return "XDG_CONFIG_HOME"
	}
}
