// SPDX-License-Identifier: MPL-2.0

package config

// Tests override these instead of HOME, which os.UserHomeDir and
// os.UserConfigDir do not honor the same way on every platform.
var (
	configDirOverride string
	dataDirOverride   string
)

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
	dataDirOverride = ""
}

// SetConfigDirOverride makes ConfigDir return dir.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetDataDirOverride makes DataDir return dir.
func SetDataDirOverride(dir string) {
	dataDirOverride = dir
}
