// Package stream implements the generalized-file abstraction: a
// polymorphic byte source with four operations (read, seek, duplicate,
// close). It is the Go-interface branch of the redesign spec.md §9
// allows ("a sealed variant ... OR an interface/trait ... either is
// acceptable"), chosen because the rest of this codebase's lineage
// (io/fs.FS, io.ReaderAt) is interface-heavy throughout.
package stream

import (
	"io"

	"github.com/elliotnunn/zar/internal/zerr"
)

// Stream is the four-operation byte source contract. Every instance
// must make Close idempotent and must leave a null-reset holder safe
// to operate on.
type Stream interface {
	// Read copies up to len(p) bytes into p and returns the count
	// copied, following the standard io.Reader contract: once the
	// stream is exhausted, Read returns io.EOF (either immediately, as
	// its own call, or alongside a final n>0). Read never blocks on
	// data that will never arrive.
	Read(p []byte) (n int, err error)

	// Seek performs an absolute seek to pos. Bounded streams fail with
	// zerr.OutOfRangeSeek outside [0, length]; the DEFLATE adapter
	// always fails with zerr.NotSeekable.
	Seek(pos int64) error

	// Duplicate produces an independent stream over the same underlying
	// data with its own position, reset to the start of the stream's
	// natural window. The DEFLATE adapter fails with zerr.NotDuplicable.
	Duplicate() (Stream, error)

	// Close releases owned resources. Idempotent: calling Close on an
	// already-closed (null-reset) stream is a safe no-op.
	Close() error
}

// Null is the stateless universal safe default: Read reports immediate
// EOF, Seek accepts only offset 0, Duplicate yields another Null,
// Close is a no-op. It exists so that partially-constructed-then-unwound
// paths are leak-free: resetting a holder to Null after ownership
// transfer, or after Close, makes every further operation on that
// holder harmless.
var Null Stream = nullStream{}

type nullStream struct{}

func (nullStream) Read(p []byte) (int, error) { return 0, io.EOF }

func (nullStream) Seek(pos int64) error {
	if pos != 0 {
		return zerr.Newf(zerr.OutOfRangeSeek, "", "seek to %d on null stream", pos)
	}
	return nil
}

func (nullStream) Duplicate() (Stream, error) { return Null, nil }

func (nullStream) Close() error { return nil }

// Take captures the stream held at *s and resets *s to Null in the same
// step — the ownership-transfer pattern used throughout this package and
// its callers: move the source into a new wrapper and immediately
// null-reset the source, so the original holder's Close remains safe to
// call even after a successful move.
func Take(s *Stream) Stream {
	old := *s
	*s = Null
	return old
}
