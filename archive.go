// Package zar is a read-only reader for the ZIP archive container
// format combined with a from-scratch DEFLATE (RFC 1951) decompressor.
// Given an archive presented as a seekable byte source, it enumerates
// the entries stored inside, reports per-entry metadata, and exposes
// each entry's decompressed payload as a forward-only byte stream.
//
// Archive/entry handle composition is grounded on
// _examples/original_source/garlib.c's gar_archive_gopen/gar_open/
// open_fdata.
package zar

import (
	"github.com/elliotnunn/zar/internal/huffcache"
	"github.com/elliotnunn/zar/internal/inflate"
	"github.com/elliotnunn/zar/internal/stream"
	"github.com/elliotnunn/zar/internal/zerr"
	"github.com/elliotnunn/zar/internal/zipwalk"
)

// huffmanCacheSize bounds the number of distinct Huffman lookup tables
// (fixed and dynamic) an Archive keeps built across Open calls.
const huffmanCacheSize = 64

// EntryInfo is the public per-entry metadata record: name and
// uncompressed size, per spec.md §3's "Entry metadata (internal)"
// promoted to the public surface in the shape spec.md §6's API lists
// ("Stat an entry by name → metadata or not-found").
type EntryInfo struct {
	Name string
	Size uint32
}

// Archive owns one archive byte stream; entries are discovered on
// demand by the walker, and no central directory cache is maintained
// (spec.md §3).
type Archive struct {
	stream stream.Stream
	cache  *huffcache.Cache
}

// Open takes ownership of an already-opened archive stream (spec.md
// §4.6: "archive_open(stream) takes ownership of a source stream;
// stored verbatim").
func Open(s stream.Stream) *Archive {
	return &Archive{stream: s, cache: huffcache.New(huffmanCacheSize)}
}

// OpenFile is sugar for opening a file stream and handing it to Open
// (spec.md §4.6: "archive_open_file(path)").
func OpenFile(path string) (*Archive, error) {
	s, err := stream.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return Open(s), nil
}

// Close releases the archive's owned stream. Idempotent.
func (a *Archive) Close() error {
	err := a.stream.Close()
	a.stream = stream.Null
	return err
}

// Enumerate runs the walker over every entry, invoking visit for each
// one in file order. visit returns true to continue, false to stop
// (spec.md §4.3's visitor contract, Go-booleanized).
func (a *Archive) Enumerate(visit func(EntryInfo) bool) error {
	return zipwalk.Walk(a.stream, func(e *zipwalk.Entry) bool {
		return visit(EntryInfo{Name: string(e.Name), Size: e.UncompressedSize})
	})
}

// Stat looks up an entry by name. A missing entry is reported as
// (EntryInfo{}, false, nil) — not found is not an error (spec.md §7).
func (a *Archive) Stat(name string) (EntryInfo, bool, error) {
	e, err := zipwalk.Find(a.stream, []byte(name))
	if err != nil {
		return EntryInfo{}, false, err
	}
	if e == nil {
		return EntryInfo{}, false, nil
	}
	return EntryInfo{Name: string(e.Name), Size: e.UncompressedSize}, true, nil
}

// Open composes an entry's data stream (spec.md §4.6): duplicate the
// archive stream, slice it over the entry's compressed payload, and —
// if the entry is deflated — wrap that in the DEFLATE adapter. A
// missing entry returns (nil, nil), not an error.
func (a *Archive) Open(name string) (*Entry, error) {
	e, err := zipwalk.Find(a.stream, []byte(name))
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, nil
	}

	dup, err := a.stream.Duplicate()
	if err != nil {
		return nil, err
	}

	sliced, err := stream.OpenSlice(&dup, e.DataOffset, int64(e.CompressedSize))
	if err != nil {
		dup.Close()
		return nil, err
	}

	var data stream.Stream
	switch e.CompressionMethod {
	case 0:
		data = sliced
	case 8:
		data = inflate.NewStream(&sliced, a.cache)
	default:
		sliced.Close()
		return nil, zerr.Newf(zerr.Unsupported, "", "compression method %d is not stored (0) or deflated (8)", e.CompressionMethod)
	}

	return &Entry{stream: data, name: string(e.Name), size: e.UncompressedSize, crc: e.CRC32}, nil
}
