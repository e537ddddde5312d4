package object

import (
	"crypto/sha1" //nolint:gosec // sha1 is part of the checksum format, not used for security
	"encoding/binary"
	"fmt"
	"hash"
	"math"
)

// Digest accumulates the hash input of one entry. The header (tag, path
// length, path, mode) is written by Begin; payload bytes follow through Write.
type Digest struct {
	h hash.Hash
}

// Begin starts the digest for e.
func Begin(e Entry) (*Digest, error) {
	tag, ok := e.Kind.Tag()
	if !ok {
		return nil, fmt.Errorf("no tag for %s entry", e.Kind)
	}
	if uint64(len(e.Path)) > math.MaxUint32 {
		return nil, fmt.Errorf("path length %d exceeds 32 bits", len(e.Path))
	}

	d := &Digest{h: sha1.New()} //nolint:gosec // see import

	var buf [4]byte
	d.h.Write([]byte{tag})
	binary.LittleEndian.PutUint32(buf[:], uint32(len(e.Path)))
	d.h.Write(buf[:])
	d.h.Write([]byte(e.Path))
	binary.LittleEndian.PutUint32(buf[:], e.Mode)
	d.h.Write(buf[:])

	return d, nil
}

// Write appends payload bytes. It never fails.
func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

func (d *Digest) Sum() Hash {
	var out Hash
	copy(out[:], d.h.Sum(nil))
	return out
}

// HeaderHash is the digest of an entry that carries no payload.
func HeaderHash(e Entry) (Hash, error) {
	d, err := Begin(e)
	if err != nil {
		return ZeroHash, err
	}
	return d.Sum(), nil
}
