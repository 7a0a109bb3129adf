//go:build windows

package editor

import "os"

func ownerMismatchPlatform(path string) bool {
	return false
}

func restoreOwner(path string, st os.FileInfo) {}
