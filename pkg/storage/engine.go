package storage

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"deltaset/pkg/crdt"
)

// scaleThreshold — keys per shard before the shard array doubles.
// Variable so rebalance tests can lower it.
var scaleThreshold int64 = 100_000

type Entry struct {
	Mu          sync.RWMutex
	Object      crdt.State
	LastUpdated Version
}

type Shard struct {
	mu   sync.RWMutex
	data map[string]*Entry
}

type Engine struct {
	shards     atomic.Pointer[[]*Shard]
	numShards  atomic.Uint32
	growthLock sync.Mutex
	// statistics
	countKeys atomic.Int64
}

func NewEngine(initialShards int) *Engine {
	if initialShards <= 0 {
		initialShards = 64
	}
	e := &Engine{}
	e.shards.Store(newShardArray(initialShards))
	e.numShards.Store(uint32(initialShards))
	return e
}

// newShardArray allocates every shard up front. Shards are immutable
// slots once an array is published through the atomic pointer, so
// readers never race with a slot write.
func newShardArray(n int) *[]*Shard {
	shards := make([]*Shard, n)
	for i := range shards {
		shards[i] = &Shard{data: make(map[string]*Entry, 128)}
	}
	return &shards
}

func (e *Engine) Get(key string) (*Entry, bool) {
	shard := e.shardFor(key)
	shard.mu.RLock()
	entry, ok := shard.data[key]
	shard.mu.RUnlock()
	return entry, ok
}

func (e *Engine) Put(key string, obj crdt.State, v Version) {
	shard := e.shardFor(key)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, ok := shard.data[key]; !ok {
		e.countKeys.Add(1)
	}

	shard.data[key] = &Entry{
		Object:      obj,
		LastUpdated: v,
	}

	e.maybeScale()
}

// PutIfAbsent keeps an existing entry, so two racing binders agree on
// one instance.
func (e *Engine) PutIfAbsent(key string, obj crdt.State, v Version) *Entry {
	shard := e.shardFor(key)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	if entry, ok := shard.data[key]; ok {
		return entry
	}

	entry := &Entry{
		Object:      obj,
		LastUpdated: v,
	}
	shard.data[key] = entry
	e.countKeys.Add(1)

	e.maybeScale()
	return entry
}

func (e *Engine) Delete(key string) {
	shard := e.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, ok := shard.data[key]; ok {
		delete(shard.data, key)
		e.countKeys.Add(-1)
	}
}

// Range calls fn for every entry until fn returns false. Entries added
// or removed concurrently may or may not be visited.
func (e *Engine) Range(fn func(key string, entry *Entry) bool) {
	arr := *e.shards.Load()
	for _, shard := range arr {
		shard.mu.RLock()
		for k, entry := range shard.data {
			if !fn(k, entry) {
				shard.mu.RUnlock()
				return
			}
		}
		shard.mu.RUnlock()
	}
}

func (e *Engine) Len() int {
	return int(e.countKeys.Load())
}

func (e *Engine) shardFor(key string) *Shard {
	arr := *e.shards.Load()
	return arr[hashKey(key)&uint32(len(arr)-1)]
}

func (e *Engine) maybeScale() {
	total := e.countKeys.Load()
	nShards := int64(e.numShards.Load())

	if total/nShards > scaleThreshold {
		go e.growShards()
	}
}

func (e *Engine) growShards() {
	e.growthLock.Lock()
	defer e.growthLock.Unlock()

	current := e.numShards.Load()
	if total := e.countKeys.Load(); total/int64(current) < scaleThreshold {
		return // someone already grew the array
	}

	newCount := current * 2
	oldArr := *e.shards.Load()
	newArr := newShardArray(int(newCount))

	// move old entries to their new positions (rebalance by hash)
	for _, old := range oldArr {
		old.mu.RLock()
		for k, v := range old.data {
			idx := hashKey(k) & (newCount - 1)
			(*newArr)[idx].data[k] = v
		}
		old.mu.RUnlock()
	}

	e.shards.Store(newArr)
	e.numShards.Store(newCount)
	slog.Info(fmt.Sprintf("[store] scaled to %d shards", newCount))
}
