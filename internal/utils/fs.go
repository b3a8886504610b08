package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// IsFile reports whether path names an existing regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ExecutableDir is the directory of the running binary, symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// WritableDir creates dir when missing and reports whether files can be
// created in it.
func WritableDir(dir string) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Debugf("Cannot create %s: %v", dir, err)
		return false
	}
	f, err := os.CreateTemp(dir, ".overboard-*")
	if err != nil {
		log.Debugf("Cannot write to %s: %v", dir, err)
		return false
	}
	f.Close()
	os.Remove(f.Name())
	return true
}

// WriteFileAtomic writes path through write. The content goes to a temporary
// file of the same directory first and replaces path in one rename, readers
// see the old file or the new one.
func WriteFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = write(f); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Chmod(f.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// AbsPath returns path made absolute, or path itself when that fails.
func AbsPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// errNoWritableDir is returned when neither candidate directory is usable.
var errNoWritableDir = errors.New("no writable directory")

// FirstWritableDir returns the first of dirs that can hold new files.
func FirstWritableDir(dirs ...string) (string, error) {
	for _, dir := range dirs {
		if dir != "" && WritableDir(dir) {
			return dir, nil
		}
	}
	return "", errNoWritableDir
}
