// Package hasher computes the digest of a single filesystem entry: its kind,
// relative path and mode, followed by the file content or symlink target.
package hasher

import (
	"fmt"

	"github.com/garrettladley/sha1dir/internal/object"
	"github.com/garrettladley/sha1dir/internal/xerrors"
	"golang.org/x/sys/unix"
)

// Stat describes the entry at fsPath without following symlinks. relPath is
// the path recorded in the entry.
func Stat(relPath, fsPath string) (object.Entry, error) {
	var st unix.Stat_t
	if err := unix.Lstat(fsPath, &st); err != nil {
		return object.Entry{}, err //nolint:wrapcheck // errno is reported next to the path
	}
	return object.NewEntry(relPath, uint32(st.Mode), st.Size), nil //nolint:unconvert // st.Mode is uint16 on darwin
}

// Hash digests e. fsPath is where the entry lives on disk; e.Path is what
// gets hashed. Unsupported entries return xerrors.ErrUnsupportedFileType.
func Hash(e object.Entry, fsPath string) (object.Hash, error) {
	switch e.Kind {
	case object.KindFile:
		return hashFile(e, fsPath)
	case object.KindSymlink:
		return hashSymlink(e, fsPath)
	case object.KindDirectory, object.KindSocket:
		return object.HeaderHash(e)
	default:
		return object.ZeroHash, xerrors.ErrUnsupportedFileType
	}
}

func hashFile(e object.Entry, fsPath string) (object.Hash, error) {
	d, err := object.Begin(e)
	if err != nil {
		return object.ZeroHash, err
	}
	if e.Size > 0 {
		if err := mapInto(d, fsPath); err != nil {
			return object.ZeroHash, err
		}
	}
	return d.Sum(), nil
}

// mapInto feeds the whole content of the file at path to d through a
// read-only mapping. The size is taken from the open descriptor, so a file
// truncated since lstat maps nothing.
func mapInto(d *object.Digest, path string) error {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return err //nolint:wrapcheck // errno is reported next to the path
	}
	defer func() { _ = unix.Close(fd) }()

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return err //nolint:wrapcheck // errno is reported next to the path
	}
	if st.Size == 0 {
		return nil
	}
	if int64(int(st.Size)) != st.Size {
		return fmt.Errorf("file too large to map: %d bytes", st.Size)
	}

	data, err := unix.Mmap(fd, 0, int(st.Size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return fmt.Errorf("mmap: %w", err)
	}
	defer func() { _ = unix.Munmap(data) }()

	_, _ = d.Write(data)
	return nil
}

func hashSymlink(e object.Entry, fsPath string) (object.Hash, error) {
	target, err := readlink(fsPath)
	if err != nil {
		return object.ZeroHash, err
	}

	d, err := object.Begin(e)
	if err != nil {
		return object.ZeroHash, err
	}
	_, _ = d.Write(target)
	return d.Sum(), nil
}

// readlink returns the raw target bytes, growing the buffer until it fits.
func readlink(path string) ([]byte, error) {
	for size := 256; ; size *= 2 {
		buf := make([]byte, size)
		n, err := unix.Readlink(path, buf)
		if err != nil {
			return nil, err //nolint:wrapcheck // errno is reported next to the path
		}
		if n < size {
			return buf[:n], nil
		}
	}
}
