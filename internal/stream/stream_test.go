package stream

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestNullStream(t *testing.T) {
	var buf [4]byte
	n, err := Null.Read(buf[:])
	if n != 0 || err != io.EOF {
		t.Fatalf("Null.Read = %d, %v; want 0, io.EOF", n, err)
	}
	if err := Null.Seek(0); err != nil {
		t.Fatalf("Null.Seek(0) = %v; want nil", err)
	}
	if err := Null.Seek(1); err == nil {
		t.Fatal("Null.Seek(1) should fail")
	}
	dup, err := Null.Duplicate()
	if err != nil || dup != Null {
		t.Fatalf("Null.Duplicate() = %v, %v; want Null, nil", dup, err)
	}
	if err := Null.Close(); err != nil {
		t.Fatalf("Null.Close() = %v; want nil", err)
	}
}

func TestTakeResetsToNull(t *testing.T) {
	var s Stream = Null
	taken := Take(&s)
	if taken != Null {
		t.Fatal("Take should return the original value")
	}
	if s != Null {
		t.Fatal("Take should reset the holder to Null")
	}
}

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileStream(t *testing.T) {
	data := []byte("0123456789")
	path := writeTempFile(t, data)

	s, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	buf := make([]byte, len(data))
	n, err := s.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(data) || string(buf) != string(data) {
		t.Fatalf("got %q, want %q", buf[:n], data)
	}

	// At end: a further read returns 0, io.EOF.
	n, err = s.Read(buf)
	if n != 0 || err != io.EOF {
		t.Fatalf("Read at EOF = %d, %v; want 0, io.EOF", n, err)
	}

	if err := s.Seek(3); err != nil {
		t.Fatal(err)
	}
	n, err = s.Read(buf[:4])
	if err != nil || string(buf[:n]) != "3456" {
		t.Fatalf("got %q, %v; want 3456", buf[:n], err)
	}

	if err := s.Seek(int64(len(data)) + 1); err == nil {
		t.Fatal("seek past length should fail")
	}

	dup, err := s.Duplicate()
	if err != nil {
		t.Fatal(err)
	}
	defer dup.Close()
	n, err = dup.Read(buf)
	if err != nil || string(buf[:n]) != string(data) {
		t.Fatalf("duplicate should read from offset 0, got %q", buf[:n])
	}
}

func TestSliceStream(t *testing.T) {
	data := []byte("0123456789")
	path := writeTempFile(t, data)

	f, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}

	sl, err := OpenSlice(&f, 3, 4) // "3456"
	if err != nil {
		t.Fatal(err)
	}
	defer sl.Close()

	if f != Null {
		t.Fatal("OpenSlice should have taken ownership of the parent")
	}

	buf := make([]byte, 10)
	n, err := sl.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf[:n]) != "3456" {
		t.Fatalf("got %q, want 3456", buf[:n])
	}

	n, err = sl.Read(buf)
	if n != 0 || err != io.EOF {
		t.Fatalf("Read past window end = %d, %v; want 0, io.EOF", n, err)
	}

	if err := sl.Seek(0); err != nil {
		t.Fatal(err)
	}
	n, _ = sl.Read(buf[:2])
	if string(buf[:n]) != "34" {
		t.Fatalf("got %q, want 34", buf[:n])
	}

	if err := sl.Seek(5); err == nil {
		t.Fatal("seek beyond window length should fail")
	}

	dup, err := sl.Duplicate()
	if err != nil {
		t.Fatal(err)
	}
	defer dup.Close()
	buf2 := make([]byte, 4)
	n, _ = dup.Read(buf2)
	if string(buf2[:n]) != "3456" {
		t.Fatalf("duplicate got %q, want 3456 (independent position reset to 0)", buf2[:n])
	}
}

func TestSliceStreamZeroLength(t *testing.T) {
	data := []byte("hello")
	path := writeTempFile(t, data)
	f, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	sl, err := OpenSlice(&f, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer sl.Close()

	var buf [4]byte
	n, err := sl.Read(buf[:])
	if n != 0 || err != io.EOF {
		t.Fatalf("zero-length slice read = %d, %v; want 0, io.EOF", n, err)
	}
	if err := sl.Seek(0); err != nil {
		t.Fatal(err)
	}
	if err := sl.Seek(1); err == nil {
		t.Fatal("seek beyond a zero-length window should fail")
	}
}

func TestSliceStreamConstructionFailureLeavesParentOwned(t *testing.T) {
	data := []byte("hello")
	path := writeTempFile(t, data)
	f, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	_, err = OpenSlice(&f, int64(len(data))+100, 1) // out of range: Seek fails
	if err == nil {
		t.Fatal("expected an out-of-range seek error")
	}
	if f == Null {
		t.Fatal("a failed OpenSlice must not consume the parent")
	}
}
