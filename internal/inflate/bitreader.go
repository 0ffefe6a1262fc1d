package inflate

import (
	"io"

	"github.com/elliotnunn/zar/internal/stream"
	"github.com/elliotnunn/zar/internal/zerr"
)

// prefixInflate is the error prefix the DEFLATE component uses, per
// spec.md §6's literal error wire format.
const prefixInflate = "(inflate)"

// bitReader is the decoder's bit buffer: an accumulator of at least 32
// bits (64 here, for headroom) fed from a byte buffer that is itself
// refilled from the compressed source stream. Bits are consumed
// LSB-first within each byte; bytes are taken in stream order.
// Grounded on ginflate.c's bits_acc/bits_len/input_p/input_pend fields
// and its fetch/drop/get/drop_to_byte operations (spec.md §4.4).
type bitReader struct {
	src stream.Stream

	acc    uint64
	bitLen uint

	buf        [4096]byte
	bpos, bend int
	srcAtEOF   bool
}

func newBitReader(src stream.Stream) *bitReader {
	return &bitReader{src: src}
}

// nextByte returns the next input byte, refilling the input buffer from
// the source stream as needed. ok is false once the source is exhausted.
// The source stream follows the standard io.Reader contract (io.EOF,
// possibly alongside a final n>0, signals exhaustion); any other error
// is a genuine I/O failure.
func (b *bitReader) nextByte() (c byte, ok bool) {
	if b.bpos >= b.bend {
		if b.srcAtEOF {
			return 0, false
		}
		n, err := b.src.Read(b.buf[:])
		if err != nil && err != io.EOF {
			panic(zerr.Wrap(zerr.IO, prefixInflate, err))
		}
		if err == io.EOF {
			b.srcAtEOF = true
		}
		if n == 0 {
			return 0, false
		}
		b.bpos, b.bend = 0, n
	}
	c = b.buf[b.bpos]
	b.bpos++
	return c, true
}

// fetch ensures at least n bits are present when possible (refilling
// from the input buffer) and returns the low n bits without consuming
// them. If the source ends before n bits are available, the high bits
// of the result are undefined (whatever was left in the accumulator)
// but fetch itself never errors — the error, if any, arises on the
// following drop. n must be <= 32.
func (b *bitReader) fetch(n uint) uint32 {
	for b.bitLen < n && b.bitLen <= 56 {
		c, ok := b.nextByte()
		if !ok {
			break
		}
		b.acc |= uint64(c) << b.bitLen
		b.bitLen += 8
	}
	if n == 0 {
		return 0
	}
	return uint32(b.acc) & (uint32(1)<<n - 1)
}

// drop consumes n bits already fetched. Panics with InflateEOF if
// fewer than n bits are actually present.
func (b *bitReader) drop(n uint) {
	if b.bitLen < n {
		panic(zerr.New(zerr.InflateEOF, prefixInflate, "unexpected end of input"))
	}
	b.acc >>= n
	b.bitLen -= n
}

// get is fetch-then-drop, with a fast path when enough bits are already
// buffered to avoid the double call (spec.md §4.4).
func (b *bitReader) get(n uint) uint32 {
	if b.bitLen >= n {
		v := uint32(b.acc) & (uint32(1)<<n - 1)
		b.acc >>= n
		b.bitLen -= n
		return v
	}
	v := b.fetch(n)
	b.drop(n)
	return v
}

// dropToByte aligns to the next byte boundary by discarding the
// remaining bits-mod-8 from the accumulator. Required before stored
// blocks (spec.md §4.4).
func (b *bitReader) dropToByte() {
	rem := b.bitLen % 8
	b.acc >>= rem
	b.bitLen -= rem
}
