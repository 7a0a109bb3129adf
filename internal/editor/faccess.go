package editor

import (
	"os"
)

// IsReadonly reports whether path exists and is not writable by the
// current process, used by `:w` to decide whether a `!` override is
// needed, via the equivalent of a unix access(2)/stat check.
func IsReadonly(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.Mode().Perm()&0o222 == 0 {
		return true
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return true
	}
	f.Close()
	return false
}

// ownerMismatch reports whether path's owning uid differs from the
// current process's uid. On platforms without a uid concept this
// always reports false. An owner-mismatched file needs the same `:w!`
// override a readonly one does.
func ownerMismatch(path string) bool {
	return ownerMismatchPlatform(path)
}

// forceWrite replaces a file the plain write path cannot open: it
// writes a sibling temp file, copies the original's mode onto it, and
// renames it over the original. Metadata the rename preserves poorly
// (ownership) is restored best-effort via the original stat.
func forceWrite(path string, data []byte) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	tmp := path + ".riv~"
	if err := os.WriteFile(tmp, data, st.Mode().Perm()|0o200); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	restoreOwner(path, st)
	return os.Chmod(path, st.Mode().Perm())
}
