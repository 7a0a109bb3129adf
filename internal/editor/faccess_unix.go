//go:build !windows

package editor

import (
	"os"
	"syscall"
)

func ownerMismatchPlatform(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	return int(stat.Uid) != os.Getuid()
}

// restoreOwner re-applies the original owner after a force-write
// rename; only root can actually change ownership, so failures are
// ignored.
func restoreOwner(path string, st os.FileInfo) {
	if stat, ok := st.Sys().(*syscall.Stat_t); ok {
		_ = os.Chown(path, int(stat.Uid), int(stat.Gid))
	}
}
