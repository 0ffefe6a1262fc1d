package inflate

import (
	"github.com/elliotnunn/zar/internal/huffcache"
	"github.com/elliotnunn/zar/internal/stream"
	"github.com/elliotnunn/zar/internal/zerr"
)

// streamAdapter wraps a Decoder as a stream.Stream, per spec.md §4.5:
// Read invokes the decoder, Seek and Duplicate are unsupported, Close
// closes the owned compressed source.
type streamAdapter struct {
	src stream.Stream
	dec *Decoder
}

// NewStream takes ownership of src (via the ownership-transfer pattern:
// *src is reset to stream.Null on return) and returns a read-only,
// forward-only stream that decompresses it.
func NewStream(src *stream.Stream, cache *huffcache.Cache) stream.Stream {
	owned := stream.Take(src)
	return &streamAdapter{src: owned, dec: New(owned, cache)}
}

func (a *streamAdapter) Read(p []byte) (int, error) {
	return a.dec.Read(p)
}

func (a *streamAdapter) Seek(pos int64) error {
	return zerr.New(zerr.NotSeekable, prefixInflate, "the stream is not seekable")
}

func (a *streamAdapter) Duplicate() (stream.Stream, error) {
	return nil, zerr.New(zerr.NotDuplicable, prefixInflate, "the stream cannot be duplicated")
}

func (a *streamAdapter) Close() error {
	err := a.src.Close()
	a.src = stream.Null
	return err
}
