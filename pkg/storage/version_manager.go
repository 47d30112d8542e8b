package storage

import (
	"sync"
	"sync/atomic"
)

type Version struct {
	ReplicaID string
	Sequence  int64
}

// observedKey identifies one replica's delta stream for one store key.
// A replica numbers its updates globally across all of its keys, so a
// sequence observed for one key says nothing about another key's
// stream: staleness has to be judged per (replica, key).
type observedKey struct {
	replicaID string
	key       string
}

// VersionManager numbers local updates and tracks, per store key, the
// highest sequence applied from every remote replica. The remote side
// gates delta application so a replayed delta is recognized as stale;
// deltas for different keys arriving out of sequence order are not.
type VersionManager struct {
	mutex    sync.RWMutex
	nodeID   string
	seq      atomic.Int64
	version  map[string]Version
	observed map[observedKey]int64
}

func NewVersionManager(nodeID string) *VersionManager {
	return &VersionManager{
		nodeID:   nodeID,
		version:  make(map[string]Version),
		observed: make(map[observedKey]int64),
	}
}

func (vm *VersionManager) NodeID() string {
	return vm.nodeID
}

func (vm *VersionManager) GetVersion(replicaID string) Version {
	vm.mutex.RLock()
	defer vm.mutex.RUnlock()
	return vm.version[replicaID]
}

// Advance bumps the local sequence and returns the new local version.
func (vm *VersionManager) Advance() Version {
	vm.mutex.Lock()
	defer vm.mutex.Unlock()

	seq := vm.seq.Add(1)
	v := Version{
		ReplicaID: vm.nodeID,
		Sequence:  seq,
	}
	vm.version[vm.nodeID] = v
	return v
}

// Stale reports whether a version for key has already been observed
// from its replica, without recording it.
func (vm *VersionManager) Stale(key string, v Version) bool {
	vm.mutex.RLock()
	defer vm.mutex.RUnlock()
	return vm.observed[observedKey{v.ReplicaID, key}] >= v.Sequence
}

// Observe records that a remote version was applied for key. Returns
// true when it advances that replica's stream for the key, false for
// a stale or repeated version. Applying a stale delta anyway would be
// harmless, the join is idempotent, the gate just saves the work.
func (vm *VersionManager) Observe(key string, v Version) bool {
	vm.mutex.Lock()
	defer vm.mutex.Unlock()

	k := observedKey{v.ReplicaID, key}
	if vm.observed[k] >= v.Sequence {
		return false
	}
	vm.observed[k] = v.Sequence
	return true
}
