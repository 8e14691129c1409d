// Package atomicfile replaces files by writing a temporary sibling and
// renaming it over the target, so readers never observe a partial write.
package atomicfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/artpar/hostctl/internal/core"
)

// WriteFile atomically replaces path with data. The temporary file lives in
// the target's directory and is removed on every failure path; on failure
// the target is left untouched.
func WriteFile(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return core.NewIOError("create temporary file in", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return core.NewIOError("write", tmpName, err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return core.NewIOError("set permissions on", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return core.NewIOError("sync", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return core.NewIOError("close", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return core.NewIOError("replace", path, err)
	}

	if d, derr := os.Open(dir); derr == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

// Mode returns the permission bits of path, or fallback when it does not exist.
func Mode(path string, fallback os.FileMode) (os.FileMode, error) {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fallback, nil
		}
		return 0, core.NewIOError("stat", path, err)
	}
	return st.Mode().Perm(), nil
}

// EnsureDir creates dir and its parents.
func EnsureDir(dir string, perm os.FileMode) error {
	if err := os.MkdirAll(dir, perm); err != nil {
		return core.NewIOError("create directory", dir, err)
	}
	return nil
}
