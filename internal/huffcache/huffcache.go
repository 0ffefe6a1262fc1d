// Package huffcache caches built Huffman lookup tables (the inflate
// package stores both its fixed and its dynamic literal/length and
// distance tables here) keyed by their code-length signature. Archives
// typically hold many small
// entries decoded sequentially (spec.md §9), and it is common for a
// batch of entries produced by the same encoder run to share an
// identical dynamic Huffman table; rebuilding the canonical-code lookup
// array for each one is wasted work this cache avoids.
//
// Grounded on internal/decompressioncache/decompressioncache.go's
// caching concern (there: byte-range checkpoints of decompressed
// output; here: built Huffman tables), generalized to a different key
// and value shape and backed by go-tinylfu instead of bigcache since
// the entries are small fixed-shape structs, not byte buffers. The
// key/hash split follows internal/spinner/concurrent.go's
// tinylfu.New[ckey, []byte](n, n*10, bhasher, ...): the cache is keyed
// by the real, comparable signature, and xxhash is only the admission
// sketch's hash function — a hash collision there costs a cache miss,
// never a wrong answer, unlike keying the cache directly by the hash.
package huffcache

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"
)

// Table is the cached, already-built Huffman lookup table, opaque to
// this package — it stores whatever the inflate package hands it.
type Table struct {
	MaxLen uint
	Lookup []uint16
}

// Cache is a bounded, thread-safe cache of Table values keyed by a
// packed code-length signature.
type Cache struct {
	mu sync.Mutex
	u  *tinylfu.T[string, Table]
}

func hashKey(k string) uint64 { return xxhash.Sum64String(k) }

// New creates a cache admitting up to capacity entries.
func New(capacity int) *Cache {
	return &Cache{u: tinylfu.New[string, Table](capacity, capacity*10, hashKey)}
}

// Key packs a code-length array (the HLIT/HDIST/HCLEN-derived lengths
// table, or the code-length-alphabet lengths themselves) into a cache
// key. Lengths are small integers (0..15) and are packed two-per-byte
// purely to keep the key short; the packed string is itself the cache
// key (compared for exact equality by tinylfu), not merely a hash of
// one, so no hash collision in hashKey can confuse two signatures. The
// only arrays that share a key are an odd-length array and the same
// array with one trailing zero length appended, and those build the
// same table.
func Key(lengths []byte) string {
	packed := make([]byte, (len(lengths)+1)/2)
	for i, l := range lengths {
		if i%2 == 0 {
			packed[i/2] = l & 0x0f
		} else {
			packed[i/2] |= (l & 0x0f) << 4
		}
	}
	return string(packed)
}

// Get returns the cached table for key, if present.
func (c *Cache) Get(key string) (Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.u.Get(key)
}

// Put stores a freshly built table under key.
func (c *Cache) Put(key string, t Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.u.Add(key, t)
}
