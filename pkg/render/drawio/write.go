package drawio

import (
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/netdraw/pkg/errors"
)

// StdoutToken is the output path meaning standard output.
const StdoutToken = "-"

// WriteFile writes data to path, or to stdout when path is [StdoutToken].
//
// File output is atomic: missing parent directories are created, data goes
// to a temporary file in the target directory and is renamed into place. On
// any failure the temporary file is removed and an existing file at path is
// left untouched. All failures carry [errors.ErrCodeOutputWrite].
func WriteFile(path string, data []byte, stdout io.Writer) error {
	if path == StdoutToken {
		if _, err := stdout.Write(data); err != nil {
			return errors.Wrap(errors.ErrCodeOutputWrite, err, "write standard output")
		}
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "create %s", path)
	}
	tmpName := tmp.Name()
	fail := func(err error, action string) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "%s %s", action, path)
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err, "write")
	}
	if err := tmp.Sync(); err != nil {
		return fail(err, "sync")
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail(err, "chmod")
	}
	if err := tmp.Close(); err != nil {
		return fail(err, "close")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "rename into %s", path)
	}
	return nil
}
