package stream

import (
	"io"
	"os"

	"github.com/elliotnunn/zar/internal/zerr"
)

// fileStream is a concrete stream backed by the host filesystem.
// Grounded on gfilecrt.c's gfile_file_ud_t (fp, fsize, fname) and its
// open/read/seek/dup/close quartet. Reads are positional (see
// file_unix.go / file_other.go for the pread vs ReadAt split) so the
// stream's own pos field, not the OS file cursor, is authoritative —
// matching the original's insistence on an explicit offset per
// operation rather than trusting FILE*'s implicit cursor across
// duplicated handles.
type fileStream struct {
	f      *os.File
	length int64
	path   string
	pos    int64
}

// OpenFile opens path as a file stream. Sugar used by archive_open_file
// in the root package; also usable standalone.
func OpenFile(path string) (Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, zerr.Wrap(zerr.IO, path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, zerr.Wrap(zerr.IO, path, err)
	}
	return &fileStream{f: f, length: info.Size(), path: path}, nil
}

// Read fills p completely unless it runs into the end of the stream's
// window, following the standard io.Reader contract (io.EOF once the
// window is exhausted): a short read from the underlying pread is
// retried rather than surfaced as a partial result.
func (s *fileStream) Read(p []byte) (int, error) {
	remaining := s.length - s.pos
	if remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	total := 0
	for total < len(p) {
		n, err := preadAt(s.f, p[total:], s.pos)
		s.pos += int64(n)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, zerr.Wrap(zerr.IO, s.path, err)
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

func (s *fileStream) Seek(pos int64) error {
	if pos < 0 || pos > s.length {
		return zerr.Newf(zerr.OutOfRangeSeek, s.path, "seek to %d outside [0, %d]", pos, s.length)
	}
	s.pos = pos
	return nil
}

func (s *fileStream) Duplicate() (Stream, error) {
	return OpenFile(s.path)
}

func (s *fileStream) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	if err != nil {
		return zerr.Wrap(zerr.IO, s.path, err)
	}
	return nil
}
