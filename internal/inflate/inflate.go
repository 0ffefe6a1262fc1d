// Package inflate implements a from-scratch DEFLATE (RFC 1951)
// decompressor: a stateful bit-level decoder handling stored,
// fixed-Huffman, and dynamic-Huffman blocks, with a 32 KiB sliding
// window ring buffer for LZ77 back-references. This is the design
// centerpiece spec.md §4.4 describes; it is grounded primarily on
// _examples/original_source/ginflate.c (the exact bit-level algorithm)
// and, for Go-idiomatic shape, on internal/flate/inflate.go's
// panic/recover decode-unwind pattern.
package inflate

import (
	"io"

	"github.com/elliotnunn/zar/internal/huffcache"
	"github.com/elliotnunn/zar/internal/stream"
	"github.com/elliotnunn/zar/internal/zerr"
)

// phase replaces the source's function-pointer-dispatched decoder
// state with an enum switched in a single loop, per spec.md §9's
// explicit redesign note.
type phase int

const (
	phaseBlockHeader phase = iota
	phaseStored
	phaseCompressed
)

// Decoder is the stateful DEFLATE decompressor. Its memory footprint is
// bounded and static: one 32 KiB ring buffer, one bit accumulator, one
// small input buffer, and two Huffman tables sized to their actual
// maximum code length (spec.md §3, §9).
type Decoder struct {
	src   stream.Stream
	br    *bitReader
	cache *huffcache.Cache

	ring    [ringSize]byte
	ringPos uint32

	phase  phase
	bfinal bool
	done   bool
	err    error

	storedRemaining uint32

	lit, dist huffTable

	matchLen  uint32
	matchDist uint32
}

// New constructs a decoder reading a compressed stream from src. cache
// may be nil, disabling Huffman-table reuse across dynamic blocks.
func New(src stream.Stream, cache *huffcache.Cache) *Decoder {
	return &Decoder{src: src, br: newBitReader(src), cache: cache, phase: phaseBlockHeader}
}

// Read implements decode-on-demand into a caller-sized buffer, with
// residual state (a straddled match, a straddled stored run, buffered
// bits, a half-decoded symbol's surrounding block state) preserved
// across calls, per spec.md §4.4's top-level decode loop. When the
// final block's last byte has been emitted, subsequent reads return
// (0, io.EOF), following the standard io.Reader contract so stdlib
// consumers like io.Copy and io.ReadAll terminate correctly. A corrupt
// or truncated stream poisons the decoder: every later call returns the
// same error (spec.md §4.4's error phase).
func (d *Decoder) Read(p []byte) (n int, err error) {
	if d.err != nil {
		return 0, d.err
	}
	if d.done {
		return 0, io.EOF
	}

	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			d.err = e
			err = e
		}
	}()

	for n < len(p) {
		switch d.phase {
		case phaseBlockHeader:
			if !d.enterBlock() {
				d.done = true
				if n == 0 {
					return 0, io.EOF
				}
				return n, nil
			}
		case phaseStored:
			n += d.readStored(p[n:])
		case phaseCompressed:
			n += d.readCompressed(p[n:])
		}
	}
	return n, nil
}

// enterBlock consumes a new block header unless the previous block's
// BFINAL was already set, in which case the decoder stays at
// end-of-stream (spec.md §4.4).
func (d *Decoder) enterBlock() bool {
	if d.bfinal {
		return false
	}

	bfinal := d.br.get(1)
	btype := d.br.get(2)
	d.bfinal = bfinal == 1

	switch btype {
	case 0:
		d.setupStored()
	case 1:
		d.setupFixed()
	case 2:
		d.setupDynamic()
	default:
		panic(zerr.New(zerr.InflateCorrupt, prefixInflate, "reserved block type (BTYPE=3)"))
	}
	return true
}

func (d *Decoder) setupStored() {
	d.br.dropToByte()
	length := d.br.get(16)
	nlen := d.br.get(16)
	if length != (^nlen)&0xFFFF {
		panic(zerr.New(zerr.InflateCorrupt, prefixInflate, "stored block length/~length mismatch"))
	}
	d.storedRemaining = length
	d.phase = phaseStored
}

func (d *Decoder) setupFixed() {
	d.lit = buildHuffmanCached(d.cache, fixedLitLengths(), prefixInflate)
	d.dist = buildHuffmanCached(d.cache, fixedDistLengths(), prefixInflate)
	d.phase = phaseCompressed
}

// setupDynamic reads the dynamic table header (spec.md §4.4): HLIT,
// HDIST, HCLEN, the HCLEN+4 code-length-alphabet lengths in clcOrder,
// then the combined HLIT+257 literal/length and HDIST+1 distance code
// lengths, using symbols 16 (repeat previous 3-6x), 17 (zero-run
// 3-10), and 18 (zero-run 11-138).
func (d *Decoder) setupDynamic() {
	hlit := int(d.br.get(5)) + 257
	hdist := int(d.br.get(5)) + 1
	hclen := int(d.br.get(4)) + 4

	var clcLengths [19]byte
	for i := 0; i < hclen; i++ {
		clcLengths[clcOrder[i]] = byte(d.br.get(3))
	}
	clcTable := buildHuffman(clcLengths[:], prefixInflate)

	total := hlit + hdist
	lengths := make([]byte, total)
	for i := 0; i < total; {
		sym := clcTable.decode(d.br, prefixInflate)
		switch {
		case sym < 16:
			lengths[i] = byte(sym)
			i++
		case sym == 16:
			count := int(d.br.get(2)) + 3
			if i+count > total {
				panic(zerr.New(zerr.InflateCorrupt, prefixInflate, "repeat code overruns code-length table"))
			}
			// Symbol 16 on the first position (no previous length)
			// decodes to a zero repeat, per spec.md §4.4.
			var rep byte
			if i > 0 {
				rep = lengths[i-1]
			}
			for j := 0; j < count; j++ {
				lengths[i] = rep
				i++
			}
		case sym == 17:
			count := int(d.br.get(3)) + 3
			if i+count > total {
				panic(zerr.New(zerr.InflateCorrupt, prefixInflate, "zero-run overruns code-length table"))
			}
			for j := 0; j < count; j++ {
				lengths[i] = 0
				i++
			}
		case sym == 18:
			count := int(d.br.get(7)) + 11
			if i+count > total {
				panic(zerr.New(zerr.InflateCorrupt, prefixInflate, "zero-run overruns code-length table"))
			}
			for j := 0; j < count; j++ {
				lengths[i] = 0
				i++
			}
		default:
			panic(zerr.New(zerr.InflateCorrupt, prefixInflate, "invalid code-length symbol"))
		}
	}

	d.lit = buildHuffmanCached(d.cache, lengths[:hlit], prefixInflate)
	d.dist = buildHuffmanCached(d.cache, lengths[hlit:], prefixInflate)
	d.phase = phaseCompressed
}

// readStored emits bytes one at a time through the 8-bit get path (so
// any residual high bits from block-header decoding are correctly
// discarded), per spec.md §4.4.
func (d *Decoder) readStored(p []byte) int {
	n := 0
	for n < len(p) && d.storedRemaining > 0 {
		b := byte(d.br.get(8))
		d.emit(b)
		p[n] = b
		n++
		d.storedRemaining--
	}
	if d.storedRemaining == 0 {
		d.phase = phaseBlockHeader
	}
	return n
}

// readCompressed runs the compressed-phase loop from spec.md §4.4: a
// carried-over match takes priority, then a literal/length symbol is
// decoded. Symbol 256 (end of block) is tested explicitly before the
// >=257 branch — the fix for the source's off-by-ordering bug noted in
// spec.md §9, where 256 would otherwise fall into the match-decode path.
func (d *Decoder) readCompressed(p []byte) int {
	n := 0
	for n < len(p) {
		if d.matchLen > 0 {
			n += d.copyMatch(p[n:])
			continue
		}

		sym := d.lit.decode(d.br, prefixInflate)
		switch {
		case sym == 256:
			d.phase = phaseBlockHeader
			return n
		case sym < 256:
			b := byte(sym)
			d.emit(b)
			p[n] = b
			n++
		case sym >= 257 && sym <= 285:
			idx := sym - 257
			length := uint32(lengthBase[idx]) + d.br.get(uint(lengthExtra[idx]))

			distSym := d.dist.decode(d.br, prefixInflate)
			if distSym < 0 || distSym > 29 {
				panic(zerr.New(zerr.InflateCorrupt, prefixInflate, "invalid distance symbol"))
			}
			dist := uint32(distBase[distSym]) + d.br.get(uint(distExtra[distSym]))
			if dist == 0 || dist > ringSize {
				panic(zerr.New(zerr.InflateCorrupt, prefixInflate, "distance out of range"))
			}

			d.matchLen = length
			d.matchDist = dist
			n += d.copyMatch(p[n:])
		default:
			panic(zerr.New(zerr.InflateCorrupt, prefixInflate, "invalid literal/length symbol"))
		}
	}
	return n
}

// emit writes one decoded byte to the ring buffer and advances the
// write cursor modulo 32 Ki.
func (d *Decoder) emit(b byte) {
	d.ring[d.ringPos] = b
	d.ringPos = (d.ringPos + 1) & ringMask
}

// copyMatch copies up to len(p) bytes of the current back-reference
// match into p (and into the ring buffer), leaving any remainder in
// d.matchLen to continue on the next call — the "residual match length
// ... for matches that straddle a caller read boundary" from spec.md
// §3. Reads from the ring buffer at (ringPos - matchDist) mod 32Ki
// before writing, so a distance of 1 correctly repeats the previous
// byte and distances up to 32768 correctly wrap the buffer.
func (d *Decoder) copyMatch(p []byte) int {
	n := 0
	for n < len(p) && d.matchLen > 0 {
		srcPos := (d.ringPos - d.matchDist) & ringMask
		b := d.ring[srcPos]
		d.ring[d.ringPos] = b
		d.ringPos = (d.ringPos + 1) & ringMask
		p[n] = b
		n++
		d.matchLen--
	}
	return n
}
