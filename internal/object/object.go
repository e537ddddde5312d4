package object

import (
	"crypto/sha1" //nolint:gosec // sha1 is part of the checksum format, not used for security
	"encoding/hex"
	"fmt"

	"golang.org/x/sys/unix"
)

const HashSize = sha1.Size

type Hash [HashSize]byte

var _ fmt.Stringer = Hash{}

var ZeroHash Hash

// String renders the hash as lowercase hex, most significant byte first.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Xor returns the bytewise exclusive or of h and o.
func (h Hash) Xor(o Hash) Hash {
	for i := range h {
		h[i] ^= o[i]
	}
	return h
}

type Kind uint8

const (
	KindUnsupported Kind = iota
	KindFile
	KindSymlink
	KindDirectory
	KindSocket
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindSymlink:
		return "symlink"
	case KindDirectory:
		return "directory"
	case KindSocket:
		return "socket"
	default:
		return "unsupported"
	}
}

// Tag is the single byte that opens an entry's digest input.
// Unsupported kinds have no tag.
func (k Kind) Tag() (byte, bool) {
	switch k {
	case KindFile:
		return 'f', true
	case KindSymlink:
		return 'l', true
	case KindDirectory:
		return 'd', true
	case KindSocket:
		return 's', true
	default:
		return 0, false
	}
}

// KindOf classifies a raw st_mode value.
func KindOf(mode uint32) Kind {
	switch mode & unix.S_IFMT {
	case unix.S_IFREG:
		return KindFile
	case unix.S_IFLNK:
		return KindSymlink
	case unix.S_IFDIR:
		return KindDirectory
	case unix.S_IFSOCK:
		return KindSocket
	default:
		return KindUnsupported
	}
}

// Entry is a single filesystem object discovered during a walk. Path is
// relative to the walk root and is hashed exactly as stored. Size is the
// lstat size and is not part of the digest.
type Entry struct {
	Path string
	Kind Kind
	Mode uint32
	Size int64
}

func NewEntry(path string, mode uint32, size int64) Entry {
	return Entry{
		Path: path,
		Kind: KindOf(mode),
		Mode: mode,
		Size: size,
	}
}
