// Package zipwalk implements the sequential ZIP local-file-header
// walker from spec.md §4.3: it parses local-file-header chunks and
// computes each chunk's next offset, ignoring the central directory
// entirely. Grounded on _examples/original_source/garlib.c's
// read_pk0304_header/gar_enum, deliberately diverging from the
// teacher's own internal/zip/zip.go, which is central-directory-based —
// see DESIGN.md for that divergence.
package zipwalk

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/elliotnunn/zar/internal/stream"
)

// headerSize is the fixed local-file-header size (spec.md §4.3's table).
const headerSize = 30

var signature = [4]byte{'P', 'K', 0x03, 0x04}

// Entry is the internal per-chunk record the walker emits. RawModTime/
// RawModDate/CRC32 are read from the header but not interpreted or
// verified by default — see SPEC_FULL.md's supplemented-features
// section for why they are kept here rather than discarded outright.
type Entry struct {
	Name              []byte
	UncompressedSize  uint32
	CompressionMethod uint16
	DataOffset        int64
	CompressedSize    uint32
	RawModTime        uint16
	RawModDate        uint16
	CRC32             uint32
}

// Visitor is invoked once per discovered entry. Returning false stops
// the walk early (spec.md §4.3: "nonzero to stop", inverted to a bool
// here since Go has no natural zero-is-continue convention for bools).
// The Entry passed in is not reused across calls, so retaining a
// pointer past the call is safe (a deliberate relaxation of spec.md's
// "name pointer valid only during that call" note, which describes a
// C-level aliasing constraint that doesn't apply once each Entry is
// freshly allocated).
type Visitor func(e *Entry) bool

// Walk performs the sequential walk described in spec.md §4.3: seek to
// a cursor starting at 0, read a 30-byte header, terminate (without
// error — this marks end of entries, not a failure) on a short read or
// signature mismatch, otherwise read the filename, emit a record, and
// advance the cursor by 30+fname_len+extra_len+comp_size.
func Walk(src stream.Stream, visit Visitor) error {
	var off int64
	for {
		if err := src.Seek(off); err != nil {
			return err
		}

		var hdr [headerSize]byte
		n, err := readFull(src, hdr[:])
		if err != nil {
			return err
		}
		if n < headerSize || !bytes.Equal(hdr[0:4], signature[:]) {
			return nil
		}

		method := binary.LittleEndian.Uint16(hdr[8:10])
		modTime := binary.LittleEndian.Uint16(hdr[10:12])
		modDate := binary.LittleEndian.Uint16(hdr[12:14])
		crc := binary.LittleEndian.Uint32(hdr[14:18])
		compSize := binary.LittleEndian.Uint32(hdr[18:22])
		uncompSize := binary.LittleEndian.Uint32(hdr[22:26])
		fnameLen := binary.LittleEndian.Uint16(hdr[26:28])
		extraLen := binary.LittleEndian.Uint16(hdr[28:30])

		name := make([]byte, fnameLen)
		if fnameLen > 0 {
			n, err := readFull(src, name)
			if err != nil {
				return err
			}
			if n < int(fnameLen) {
				return nil
			}
		}

		e := &Entry{
			Name:              name,
			UncompressedSize:  uncompSize,
			CompressionMethod: method,
			DataOffset:        off + headerSize + int64(fnameLen) + int64(extraLen),
			CompressedSize:    compSize,
			RawModTime:        modTime,
			RawModDate:        modDate,
			CRC32:             crc,
		}
		if !visit(e) {
			return nil
		}

		off += headerSize + int64(fnameLen) + int64(extraLen) + int64(compSize)
	}
}

// readFull reads until buf is filled or the stream ends, returning the
// count actually read. A short read terminated by io.EOF means end of
// stream and is not itself reported as an error — the caller detects a
// short result by comparing the returned count against len(buf), per
// spec.md §4.3's "terminate without error" walk-ending rule.
func readFull(src stream.Stream, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := src.Read(buf[total:])
		total += n
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
	}
	return total, nil
}

// Find runs Walk with a visitor that compares names and stops at the
// first match — spec.md §4.3's definition of lookup ("no hash, no
// prefix index").
func Find(src stream.Stream, name []byte) (*Entry, error) {
	var found *Entry
	err := Walk(src, func(e *Entry) bool {
		if bytes.Equal(e.Name, name) {
			found = e
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
