//go:build unix

package stream

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// preadAt reads at an explicit offset via the pread(2) syscall, rather
// than going through os.File's own cursor or even its ReadAt (which
// itself wraps pread, but by going directly through golang.org/x/sys we
// avoid a layer of indirection and mirror gfilecrt.c's discipline of
// never trusting an implicit file position across a duplicated handle).
func preadAt(f *os.File, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := unix.Pread(int(f.Fd()), p, off)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
