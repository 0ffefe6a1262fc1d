package stream

import (
	"io"

	"github.com/elliotnunn/zar/internal/zerr"
)

// sliceStream is a windowed view [off, off+len) over a parent stream,
// with its own position independent of the parent's between calls.
// Grounded on gfile.c's gfile_part_ud_t/gfile_part_on_read/
// gfile_part_on_seek, and on the windowing arithmetic in
// internal/sectionreader/sectionreader.go's ReaderAt.ReadAt clamping.
type sliceStream struct {
	parent   Stream
	off, len int64
	pos      int64
}

// OpenSlice takes ownership of *parent (on success only) and returns a
// stream restricted to [off, off+length) of it. The constructor seeks
// the parent to off first, to validate the range, before taking
// ownership: on failure *parent is left untouched (still owned by the
// caller, not closed here) exactly as gfile_part_on_open leaves the
// source stream alone when its own validating seek fails.
func OpenSlice(parent *Stream, off, length int64) (Stream, error) {
	if off < 0 || length < 0 {
		return nil, zerr.Newf(zerr.OutOfRangeSeek, "", "negative slice window off=%d len=%d", off, length)
	}
	if err := (*parent).Seek(off); err != nil {
		return nil, err
	}
	s := &sliceStream{parent: Take(parent), off: off, len: length}
	return s, nil
}

// Read fills p completely unless it runs into the window boundary,
// following the standard io.Reader contract (io.EOF once the window is
// exhausted) even when the parent itself returns short reads that
// aren't end-of-stream.
func (s *sliceStream) Read(p []byte) (int, error) {
	remaining := s.len - s.pos
	if remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	total := 0
	for total < len(p) {
		n, err := s.parent.Read(p[total:])
		s.pos += int64(n)
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

func (s *sliceStream) Seek(pos int64) error {
	if pos < 0 || pos > s.len {
		return zerr.Newf(zerr.OutOfRangeSeek, "", "seek to %d outside [0, %d]", pos, s.len)
	}
	if err := s.parent.Seek(s.off + pos); err != nil {
		return err
	}
	s.pos = pos
	return nil
}

func (s *sliceStream) Duplicate() (Stream, error) {
	dup, err := s.parent.Duplicate()
	if err != nil {
		return nil, err
	}
	return OpenSlice(&dup, s.off, s.len)
}

func (s *sliceStream) Close() error {
	err := s.parent.Close()
	s.parent = Null
	s.pos = 0
	return err
}
