package storage

import (
	"encoding/json"
	"fmt"

	"deltaset/pkg/crdt"
	"deltaset/pkg/structs"
)

// Store fronts the engine with the replication-facing surface: typed
// lookups by key, local updates that advance the replica version, and
// the pending-delta lifecycle the gossip layer drives.
type Store struct {
	engine *Engine
	vm     *VersionManager
}

// Update carries one key's pending delta out to the replication layer.
type Update struct {
	Key     string
	Delta   crdt.Delta
	Version Version
}

func NewStore(nodeID string, engine *Engine) *Store {
	return &Store{
		engine: engine,
		vm:     NewVersionManager(nodeID),
	}
}

func (s *Store) Get(key string) (*Entry, bool) {
	return s.engine.Get(key)
}

func (s *Store) Put(key string, obj crdt.State) {
	s.engine.Put(key, obj, s.vm.Advance())
}

func (s *Store) Delete(key string) {
	s.engine.Delete(key)
}

// Keys returns all bound identifiers in ascending order.
func (s *Store) Keys() []string {
	keys := structs.NewSet[string]()
	s.engine.Range(func(k string, _ *Entry) bool {
		keys.Add(k)
		return true
	})
	return structs.Sorted(keys)
}

// PendingDeltas snapshots every entry whose value has accumulated a
// delta since the last propagation round.
func (s *Store) PendingDeltas() []Update {
	var updates []Update
	s.engine.Range(func(k string, entry *Entry) bool {
		entry.Mu.RLock()
		delta, ok := entry.Object.PendingDelta()
		v := entry.LastUpdated
		entry.Mu.RUnlock()
		if ok {
			updates = append(updates, Update{Key: k, Delta: delta, Version: v})
		}
		return true
	})
	return updates
}

// MarkPropagated clears the pending deltas of the given keys after the
// replication layer has shipped them, so later updates open fresh
// delta windows.
func (s *Store) MarkPropagated(keys ...string) {
	for _, k := range keys {
		entry, ok := s.engine.Get(k)
		if !ok {
			continue
		}
		entry.Mu.Lock()
		entry.Object = entry.Object.ClearDelta()
		entry.Mu.Unlock()
	}
}

// MergeRemote joins a serialized state or delta received from another
// replica into the named entry. Staleness is judged per (replica, key):
// a replica numbers updates globally across its keys, so deltas for
// different keys may legitimately arrive with their sequences out of
// order and every key's stream is gated on its own. The entry keeps its
// own locally-numbered version; the remote coordinates only feed the
// staleness gate.
func (s *Store) MergeRemote(key string, snapshot []byte, v Version) error {
	if s.vm.Stale(key, v) {
		return nil
	}

	entry, ok := s.engine.Get(key)
	if !ok {
		var raw struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(snapshot, &raw); err != nil {
			return err
		}
		obj, err := crdt.NewFabric().New(raw.Type)
		if err != nil {
			return err
		}
		entry = s.engine.PutIfAbsent(key, obj, s.vm.Advance())
	}

	entry.Mu.Lock()
	defer entry.Mu.Unlock()

	merged, err := entry.Object.MergeSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("merge remote %q: %w", key, err)
	}
	entry.Object = merged
	entry.LastUpdated = s.vm.Advance()
	s.vm.Observe(key, v)
	return nil
}

// Lookup resolves a typed key to its current value.
func Lookup[A comparable](s *Store, key crdt.Key[A]) (*crdt.GSet[A], bool) {
	entry, ok := s.engine.Get(key.ID())
	if !ok {
		return nil, false
	}

	entry.Mu.RLock()
	defer entry.Mu.RUnlock()

	set, ok := entry.Object.(*crdt.GSet[A])
	return set, ok
}

// Bind returns the value named by key, creating an empty set on first
// use. Fails when the key is already bound to a different element type.
func Bind[A comparable](s *Store, key crdt.Key[A]) (*crdt.GSet[A], error) {
	entry, ok := s.engine.Get(key.ID())
	if !ok {
		entry = s.engine.PutIfAbsent(key.ID(), crdt.NewGSet[A](), s.vm.Advance())
	}

	entry.Mu.RLock()
	defer entry.Mu.RUnlock()

	set, ok := entry.Object.(*crdt.GSet[A])
	if !ok {
		return nil, fmt.Errorf("bind %q: %w", key.ID(), crdt.ErrStateTypeMismatch)
	}
	return set, nil
}

// Apply replaces the value named by key with fn(current) under the
// entry lock and advances the local version. fn must not mutate its
// argument, it derives the next value.
func Apply[A comparable](s *Store, key crdt.Key[A], fn func(*crdt.GSet[A]) *crdt.GSet[A]) (*crdt.GSet[A], error) {
	if _, err := Bind(s, key); err != nil {
		return nil, err
	}

	entry, ok := s.engine.Get(key.ID())
	if !ok {
		return nil, fmt.Errorf("apply %q: entry dropped concurrently", key.ID())
	}
	entry.Mu.Lock()
	defer entry.Mu.Unlock()

	set, ok := entry.Object.(*crdt.GSet[A])
	if !ok {
		return nil, fmt.Errorf("apply %q: %w", key.ID(), crdt.ErrStateTypeMismatch)
	}

	next := fn(set)
	entry.Object = next
	entry.LastUpdated = s.vm.Advance()
	return next, nil
}
