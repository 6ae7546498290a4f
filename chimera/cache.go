package chimera

import (
	"sync"

	"github.com/minio/highwayhash"
)

type hashKey = [highwayhash.Size]uint8

var zeroSeed = hashKey{}

// AlignCache memoizes the query/parent diff-scan outcome by a
// highwayhash of the two sequences, so a driver sweeping several
// --min-skew thresholds over the same ZOTU set doesn't re-align every
// pair once per threshold (mirrors fusion/postprocess.go's
// hashKey = [highwayhash.Size]uint8 map-dedup pattern). Safe for
// concurrent use.
type AlignCache struct {
	mu sync.Mutex
	m  map[hashKey]pairDiff
}

type pairDiff struct {
	overflow     bool
	diffCount    int
	pos0L, pos1L int
	pos0R, pos1R int
}

// NewAlignCache returns an empty cache ready for concurrent use.
func NewAlignCache() *AlignCache {
	return &AlignCache{m: map[hashKey]pairDiff{}}
}

func pairKey(query, target string) hashKey {
	buf := make([]byte, 0, len(query)+len(target)+1)
	buf = append(buf, query...)
	buf = append(buf, 0)
	buf = append(buf, target...)
	return highwayhash.Sum(buf, zeroSeed[:])
}

func (c *AlignCache) lookup(query, target string) (pairDiff, bool) {
	if c == nil {
		return pairDiff{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[pairKey(query, target)]
	return v, ok
}

func (c *AlignCache) store(query, target string, v pairDiff) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[pairKey(query, target)] = v
}
