package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/pmx/internal/errors"
)

// MaxFileSize is the largest profile or target file pmx reads (8MB).
const MaxFileSize = 8 * 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads a file up to MaxFileSize.
// The returned error wraps fs.ErrNotExist when the file is absent.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	return data, nil
}

// CopyFile copies src to dst, preserving the source permission bits.
// dst is written atomically; its parent must exist.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrap(err, "stat source")
	}
	data, err := ReadFileWithLimit(src)
	if err != nil {
		return err
	}
	return AtomicWriteFile(dst, data, info.Mode().Perm())
}
