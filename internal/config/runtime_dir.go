package config

import (
	"os"
	"path/filepath"
)

// RuntimeDir resolves the directory riv loads runtime assets
// (tutor.txt, themes) from. Resolution order: the RIV_RUNTIME
// environment variable, then HELIX_RUNTIME (riv reads helix runtime
// trees unchanged), then a `runtime/` directory next to the executable
// for development checkouts, then the OS config dir. The returned path
// is not guaranteed to exist; callers treat a missing asset as "not
// installed".
func RuntimeDir() string {
	if dir := os.Getenv("RIV_RUNTIME"); dir != "" {
		return dir
	}
	if dir := os.Getenv("HELIX_RUNTIME"); dir != "" {
		return dir
	}
	if exe, err := os.Executable(); err == nil {
		dev := filepath.Join(filepath.Dir(exe), "runtime")
		if st, err := os.Stat(dev); err == nil && st.IsDir() {
			return dev
		}
	}
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "runtime"
	}
	return filepath.Join(cfgDir, "riv", "runtime")
}
