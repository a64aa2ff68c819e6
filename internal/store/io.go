package store

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// readFile returns the file contents, or (nil, nil) when it does not exist.
func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return b, nil
}

// writeFile replaces path with b. The data is synced to a sibling temp file
// and renamed over the target, so readers see the old or the new contents.
func writeFile(path string, b []byte, mode os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = f.Chmod(mode); err != nil {
		return errors.Wrap(err, "chmod temp file")
	}
	if _, err = f.Write(b); err != nil {
		return errors.Wrap(err, "write temp file")
	}
	if err = f.Sync(); err != nil {
		return errors.Wrap(err, "sync temp file")
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err = os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "replace %s", path)
	}
	return nil
}
