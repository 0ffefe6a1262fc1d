package inflate

import (
	"github.com/elliotnunn/zar/internal/huffcache"
	"github.com/elliotnunn/zar/internal/zerr"
)

// huffTable is the flat Huffman lookup table from spec.md §3: a cell
// packs the decoded symbol and its code length into one small integer,
// (symbol << codeLenBits) | codeLen, and is sized to 1 << maxLen where
// maxLen is the true observed maximum length, not codeLenLimit.
type huffTable struct {
	maxLen uint
	lookup []uint16
}

// buildHuffman performs the canonical-Huffman construction from
// spec.md §4.4: count code lengths, derive the base code per length
// (code = (code + count[i-1]) << 1), assign each symbol its canonical
// code, reverse the bit pattern over bl bits, and populate every slot
// in the stride [c, c+2^bl, c+2*2^bl, ...) below 2^maxLen with the
// packed word. Grounded on ginflate.c's init_huffdic. Over-subscribed
// lengths are rejected as corrupt; under-subscribed (incomplete) sets
// are accepted, and their unfilled slots decode as an invalid code in
// huffTable.decode. Panics with a
// *zerr.Error on malformed input, following this package's
// panic-to-a-single-recover idiom (see Decoder.Read).
func buildHuffman(lengths []byte, prefix string) huffTable {
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
	if maxLen == 0 {
		return huffTable{}
	}

	// Over-subscription check: the classic "left" counter. A valid set
	// of lengths never needs more codes at any length than are available.
	left := 1
	for bl := uint(1); bl <= maxLen; bl++ {
		left <<= 1
		left -= count[bl]
		if left < 0 {
			panic(zerr.New(zerr.InflateCorrupt, prefix, "over-subscribed Huffman code lengths"))
		}
	}

	var nextCode [codeLenLimit + 1]int
	code := 0
	for bl := uint(1); bl <= maxLen; bl++ {
		code = (code + count[bl-1]) << 1
		nextCode[bl] = code
	}

	size := 1 << maxLen
	lookup := make([]uint16, size)
	for sym, bl := range lengths {
		if bl == 0 {
			continue
		}
		c := nextCode[bl]
		nextCode[bl]++
		rev := reverseBits(uint16(c), uint(bl))
		word := uint16(sym)<<codeLenBits | uint16(bl)
		stride := 1 << bl
		for i := int(rev); i < size; i += stride {
			lookup[i] = word
		}
	}
	return huffTable{maxLen: maxLen, lookup: lookup}
}

// reverseBits reverses the low n bits of v, the step that makes
// canonical-code table lookup from a natural LSB-first bit stream a
// single array index (spec.md §4.4).
func reverseBits(v uint16, n uint) uint16 {
	var r uint16
	for i := uint(0); i < n; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}

// buildHuffmanCached is buildHuffman with a lookup-table cache in front
// of it, keyed by the packed signature of lengths. See internal/huffcache.
func buildHuffmanCached(cache *huffcache.Cache, lengths []byte, prefix string) huffTable {
	if cache == nil {
		return buildHuffman(lengths, prefix)
	}
	key := huffcache.Key(lengths)
	if t, ok := cache.Get(key); ok {
		return huffTable{maxLen: t.MaxLen, lookup: t.Lookup}
	}
	t := buildHuffman(lengths, prefix)
	cache.Put(key, huffcache.Table{MaxLen: t.maxLen, Lookup: t.lookup})
	return t
}

// decode reads the next symbol from br using this table, returning the
// decoded symbol and consuming exactly its code length in bits. Panics
// on a malformed code or starved input, per this package's idiom.
func (t huffTable) decode(br *bitReader, prefix string) int {
	if t.maxLen == 0 {
		panic(zerr.New(zerr.InflateCorrupt, prefix, "decode against empty Huffman table"))
	}
	word := t.lookup[br.fetch(t.maxLen)]
	codeLen := uint(word & (1<<codeLenBits - 1))
	if codeLen == 0 {
		panic(zerr.New(zerr.InflateCorrupt, prefix, "invalid Huffman code"))
	}
	br.drop(codeLen)
	return int(word >> codeLenBits)
}
