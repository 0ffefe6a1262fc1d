//go:build !unix

package stream

import "os"

// preadAt falls back to os.File.ReadAt on non-unix platforms, which is
// itself positional (pread-backed on the platforms that have it).
func preadAt(f *os.File, p []byte, off int64) (int, error) {
	return f.ReadAt(p, off)
}
