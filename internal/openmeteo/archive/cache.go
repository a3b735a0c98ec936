package archive

import (
	"context"
	"fmt"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/golang/groupcache/lru"
)

// masterChunkIndex is the sentinel chunkIndex meaning "read the domain's
// monolithic master file" rather than one time-chunked file.
const masterChunkIndex int64 = -1

type chunkRequest struct {
	variable   string
	subLevel   int
	chunkIndex int64
}

func (k chunkRequest) cacheKey() string {
	return fmt.Sprintf("%s|%d|%d", k.variable, k.subLevel, k.chunkIndex)
}

// ChunkCache is the process-wide cache from spec §3 ("Chunk handles live
// in a shared cache with LRU eviction by byte size") and §4.2 ("an
// in-flight table collapsing concurrent requests for the same key to a
// single fetch"). The in-flight collapsing stage is
// github.com/ctessum/requestcache's Deduplicate() (vendored by
// spatialmodel-inmap); the LRU storage is github.com/golang/groupcache/lru
// driven by hand with a byte budget, because requestcache.Request's fields
// are package-private — a byte-aware CacheFunc cannot be written from
// outside that package, so the LRU stage that package ships
// (requestcache.Memory) only evicts by entry count. Evicting by byte size
// ourselves, in front of Deduplicate, gives spec §3's actual eviction
// policy while still reusing Deduplicate for the concurrency guarantee.
type ChunkCache struct {
	store   *Store
	dedup   *requestcache.Cache
	metrics *Metrics

	mu       sync.Mutex
	lru      *lru.Cache
	curBytes int64
	maxBytes int64
}

// NewChunkCache builds a ChunkCache in front of store, evicting the
// least-recently-used raw chunk bytes once their total exceeds maxBytes
// (the most recent entry is always kept, even when it alone exceeds
// maxBytes), fetched by numWorkers concurrent goroutines.
func NewChunkCache(store *Store, maxBytes int64, numWorkers int, metrics *Metrics) *ChunkCache {
	cc := &ChunkCache{store: store, metrics: metrics, maxBytes: maxBytes}
	cc.lru = lru.New(0) // unbounded entry count; eviction below is byte-driven.
	cc.lru.OnEvicted = func(_ lru.Key, value interface{}) {
		if b, ok := value.([]byte); ok {
			cc.curBytes -= int64(len(b))
		}
		cc.metrics.CacheEvictions.Inc()
		cc.metrics.CacheBytes.Set(float64(cc.curBytes))
	}

	processor := func(ctx context.Context, payload interface{}) (interface{}, error) {
		req := payload.(chunkRequest)
		if req.chunkIndex == masterChunkIndex {
			return store.fetchMasterBytes(ctx, req.variable, req.subLevel)
		}
		return store.fetchChunkBytes(ctx, req.variable, req.subLevel, req.chunkIndex)
	}
	cc.dedup = requestcache.NewCache(processor, numWorkers, requestcache.Deduplicate())
	return cc
}

// Get returns one chunk's (or, for chunkIndex == masterChunkIndex, the
// master file's) raw bytes. A nil, nil return means the object is absent.
func (cc *ChunkCache) Get(ctx context.Context, variable string, subLevel int, chunkIndex int64) ([]byte, error) {
	req := chunkRequest{variable: variable, subLevel: subLevel, chunkIndex: chunkIndex}
	key := req.cacheKey()

	cc.mu.Lock()
	if v, ok := cc.lru.Get(key); ok {
		cc.mu.Unlock()
		cc.metrics.CacheHits.Inc()
		data, _ := v.([]byte)
		return data, nil
	}
	cc.mu.Unlock()
	cc.metrics.CacheMisses.Inc()

	result, err := cc.dedup.NewRequest(ctx, req, key).Result()
	if err != nil {
		return nil, err
	}
	data, _ := result.([]byte)

	cc.mu.Lock()
	if _, already := cc.lru.Get(key); !already {
		cc.lru.Add(key, data)
		cc.curBytes += int64(len(data))
		cc.metrics.CacheBytes.Set(float64(cc.curBytes))
		for cc.curBytes > cc.maxBytes && cc.lru.Len() > 1 {
			cc.lru.RemoveOldest()
		}
	}
	cc.mu.Unlock()
	return data, nil
}
