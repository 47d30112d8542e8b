package storage

import "hash/fnv"

// fnv-1a keeps shard selection cheap and stable
func hashKey(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32()
}
