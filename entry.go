package zar

import (
	"hash/crc32"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/elliotnunn/zar/internal/stream"
)

// Entry is an opened archive member: a composed stream (slice over a
// duplicated archive stream, optionally wrapped in the DEFLATE
// adapter), read-only and forward-only when deflated (spec.md §3, §4.6).
type Entry struct {
	stream stream.Stream
	name   string
	size   uint32
	crc    uint32
}

// Read copies decompressed (or, for stored entries, raw) bytes into p.
func (e *Entry) Read(p []byte) (int, error) {
	return e.stream.Read(p)
}

// Close releases the entry's owned stream. Idempotent.
func (e *Entry) Close() error {
	err := e.stream.Close()
	e.stream = stream.Null
	return err
}

// Size returns the entry's declared uncompressed size.
func (e *Entry) Size() uint32 {
	return e.size
}

// VerifyCRC reads the entry to completion and checks the decompressed
// bytes against the local header's CRC-32 (IEEE, ZIP's variant). This
// is an additive, opt-in feature: spec.md §9 explicitly permits but
// does not require CRC verification, and neither Open nor Read performs
// it automatically. Calling VerifyCRC consumes the entry; it must be
// the only read performed on a given Entry.
func (e *Entry) VerifyCRC() error {
	h := crc32.NewIEEE()
	var buf [32 * 1024]byte
	for {
		n, err := e.stream.Read(buf[:])
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	if h.Sum32() != e.crc {
		return errors.Newf("zar: CRC-32 mismatch for %q: header says %08x, computed %08x", e.name, e.crc, h.Sum32())
	}
	return nil
}
