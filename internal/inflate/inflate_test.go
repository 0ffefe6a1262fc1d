package inflate

import (
	"bytes"
	"compress/flate"
	"io"
	"math/rand/v2"
	"testing"

	"github.com/elliotnunn/zar/internal/huffcache"
	"github.com/elliotnunn/zar/internal/stream"
	"github.com/elliotnunn/zar/internal/zerr"
)

// memStream is a minimal in-memory stream.Stream for exercising the
// decoder directly, without going through the archive/ZIP layers.
type memStream struct {
	data []byte
	pos  int
}

func (m *memStream) Read(p []byte) (int, error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}
func (m *memStream) Seek(pos int64) error { m.pos = int(pos); return nil }
func (m *memStream) Duplicate() (stream.Stream, error) {
	return &memStream{data: m.data}, nil
}
func (m *memStream) Close() error { return nil }

// bitWriter is a tiny test-only encoder used to hand-construct exact
// DEFLATE bit sequences for scenario tests (spec.md §8's literal-input
// scenario 3; the BTYPE=3 and stored-len-0 tests use literal bytes).
type bitWriter struct {
	buf []byte
	acc uint32
	n   uint
}

func (w *bitWriter) writeBits(v uint32, n uint) {
	w.acc |= v << w.n
	w.n += n
	for w.n >= 8 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc >>= 8
		w.n -= 8
	}
}

func (w *bitWriter) alignByte() {
	if w.n > 0 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc, w.n = 0, 0
	}
}

// canonicalCodes replicates buildHuffman's code-assignment loop (not
// its bit-reversed table placement) so the test encoder can emit the
// matching canonical bit pattern for a symbol of a known length.
func canonicalCodes(lengths []byte) []int {
	var count [codeLenLimit]int
	var maxLen uint
	for _, l := range lengths {
		if l > 0 {
			count[l]++
			if uint(l) > maxLen {
				maxLen = uint(l)
			}
		}
	}
	var nextCode [codeLenLimit + 1]int
	code := 0
	for bl := uint(1); bl <= maxLen; bl++ {
		code = (code + count[bl-1]) << 1
		nextCode[bl] = code
	}
	codes := make([]int, len(lengths))
	for sym, bl := range lengths {
		if bl == 0 {
			continue
		}
		codes[sym] = nextCode[bl]
		nextCode[bl]++
	}
	return codes
}

func emitSymbol(w *bitWriter, lengths []byte, codes []int, sym int) {
	bl := uint(lengths[sym])
	rev := reverseBits(uint16(codes[sym]), bl)
	w.writeBits(uint32(rev), bl)
}

// TestFixedHuffmanAAAAA is spec.md §8 scenario 3: a fixed-Huffman
// single-block DEFLATE of "aaaaa", built from two literals followed by
// a length-3 distance-1 match, testing literal-256-symbol emission and
// the length-3 match over distance 1.
func TestFixedHuffmanAAAAA(t *testing.T) {
	litLen := fixedLitLengths()
	distLen := fixedDistLengths()
	litCodes := canonicalCodes(litLen)
	distCodes := canonicalCodes(distLen)

	w := &bitWriter{}
	w.writeBits(1, 1) // BFINAL=1
	w.writeBits(1, 2) // BTYPE=1 (fixed Huffman)

	emitSymbol(w, litLen, litCodes, 'a') // literal 'a'
	emitSymbol(w, litLen, litCodes, 'a') // literal 'a'

	emitSymbol(w, litLen, litCodes, 257) // length base 3, 0 extra bits -> match_len=3
	emitSymbol(w, distLen, distCodes, 0) // distance base 1, 0 extra bits -> match_dist=1

	emitSymbol(w, litLen, litCodes, 256) // end of block
	w.alignByte()

	dec := New(&memStream{data: w.buf}, nil)
	got, err := io.ReadAll(readerFunc(dec.Read))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "aaaaa" {
		t.Fatalf("got %q, want %q", got, "aaaaa")
	}
}

// readerFunc adapts a Read method to io.Reader for io.ReadAll.
type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }

// TestStoredZeroLength is spec.md §8's boundary behavior: "Stored block
// with len = 0 terminates immediately and transitions to next block."
// Here the zero-length stored block is also the final block, so the
// first Read already reports (0, io.EOF), and so does every later one.
func TestStoredZeroLength(t *testing.T) {
	raw := []byte{0x01, 0x00, 0x00, 0xFF, 0xFF} // BFINAL=1, BTYPE=0, len=0, nlen=0xFFFF
	dec := New(&memStream{data: raw}, nil)
	var buf [16]byte
	n, err := dec.Read(buf[:])
	if err != io.EOF {
		t.Fatalf("expected io.EOF once the final empty stored block ends, got %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 bytes from an empty stored block, got %d", n)
	}
	n, err = dec.Read(buf[:])
	if n != 0 || err != io.EOF {
		t.Fatalf("expected (0, io.EOF) at end of stream, got (%d, %v)", n, err)
	}
}

// TestBadBlockType3 is spec.md §8 scenario 5: BTYPE=3 fails with
// inflate-corrupt.
func TestBadBlockType3(t *testing.T) {
	raw := []byte{0b0000_0111} // BFINAL=1, BTYPE=3 (0b11)
	dec := New(&memStream{data: raw}, nil)
	var buf [16]byte
	_, err := dec.Read(buf[:])
	if err == nil {
		t.Fatal("expected an error for BTYPE=3")
	}
	if !zerr.Is(err, zerr.InflateCorrupt) {
		t.Fatalf("expected InflateCorrupt, got %v", err)
	}
}

// TestDynamicHuffmanRoundTrip is spec.md §8 scenario 4: a dynamic-
// Huffman block of >= 300 bytes of repeated-substring plaintext,
// compressed with the standard library (the canonical oracle, as
// internal/flate/reader_test.go in the teacher does) and decoded with
// this package; the decoded output must byte-equal the original.
func TestDynamicHuffmanRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	var want []byte
	for range 50 {
		want = append(want, byte(rng.IntN(4))) // a small alphabet guarantees repeats
	}
	for len(want) < 300 {
		start := rng.IntN(len(want))
		length := rng.IntN(len(want) - start)
		want = append(want, want[start:start+length]...)
	}

	var compressed bytes.Buffer
	fw, err := flate.NewWriter(&compressed, flate.BestCompression)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(want); err != nil {
		t.Fatal(err)
	}
	if err := fw.Close(); err != nil {
		t.Fatal(err)
	}

	dec := New(&memStream{data: compressed.Bytes()}, huffcache.New(8))
	got, err := io.ReadAll(readerFunc(dec.Read))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d bytes", len(got), len(want))
	}
}

// TestSmallBuffersAcrossCalls exercises the residual-state invariants
// (straddled matches, buffered bits surviving a call boundary) by
// decoding one byte at a time. The input compresses to a Huffman-coded
// block, so no non-empty stored run is straddled here.
func TestSmallBuffersAcrossCalls(t *testing.T) {
	want := bytes.Repeat([]byte("hello world, hello again, hello world"), 10)

	var compressed bytes.Buffer
	fw, _ := flate.NewWriter(&compressed, flate.BestCompression)
	fw.Write(want)
	fw.Close()

	dec := New(&memStream{data: compressed.Bytes()}, nil)
	var got []byte
	var one [1]byte
	for {
		n, err := dec.Read(one[:])
		if n > 0 {
			got = append(got, one[0])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if n == 0 {
			break
		}
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("one-byte-at-a-time round trip mismatch: got %d bytes, want %d bytes", len(got), len(want))
	}
}
