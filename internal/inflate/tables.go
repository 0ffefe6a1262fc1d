package inflate

// Standard RFC 1951 constants. Grounded on ginflate.c's static tables
// (length_base/length_extra, dist_base/dist_extra, and the fixed literal
// and distance code-length assignments used to build BTYPE=1 tables).

// lengthBase/lengthExtra index by symbol-257 for literal/length symbols
// 257..285 (symbol 285 is a special case: base 258, 0 extra bits).
var lengthBase = [29]uint16{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthExtra = [29]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1,
	1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// distBase/distExtra index by distance symbol 0..29.
var distBase = [30]uint16{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25,
	33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var distExtra = [30]uint8{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// clcOrder is the order in which HCLEN+4 code-length-alphabet lengths
// are transmitted.
var clcOrder = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// fixedLitLengths/fixedDistLengths are the BTYPE=1 fixed code lengths.
func fixedLitLengths() []byte {
	l := make([]byte, 288)
	for i := 0; i <= 143; i++ {
		l[i] = 8
	}
	for i := 144; i <= 255; i++ {
		l[i] = 9
	}
	for i := 256; i <= 279; i++ {
		l[i] = 7
	}
	for i := 280; i <= 287; i++ {
		l[i] = 8
	}
	return l
}

func fixedDistLengths() []byte {
	l := make([]byte, 30)
	for i := range l {
		l[i] = 5
	}
	return l
}

const (
	// codeLenBits is the number of bits reserved in each packed lookup
	// word for the code length, per spec.md §3.
	codeLenBits = 4
	// codeLenLimit is the hard ceiling on a DEFLATE code length.
	codeLenLimit = 16

	// ringSize/ringMask: fixed 32 KiB ring buffer. See SPEC_FULL.md's
	// ring-buffer-size reconciliation note — ginflate.c's 64 KiB array
	// field is unused headroom, not a wider distance limit; DEFLATE's
	// wire-format maximum distance is 32768 regardless.
	ringSize = 1 << 15
	ringMask = ringSize - 1
)
