package crdt

import (
	"encoding/json"
	"fmt"
	"iter"

	"deltaset/pkg/structs"
)

const GSetName = "GSet"

// GSet — a grow-only set: elements can be added but never removed.
// Replicas converge because the merge is a join on set union, which is
// commutative, associative and idempotent.
//
// A GSet is immutable. Add and Merge return fresh instances and never
// touch the receiver, so values can be shared across goroutines with
// no locking. Alongside the full element set every instance carries an
// optional delta: the elements added since the last ResetDelta. A
// replica ships the delta instead of the full state and the receiver
// merges it with the ordinary join, since a delta is itself a GSet.
type GSet[A comparable] struct {
	elements structs.Set[A]
	delta    *GSet[A]

	// ancestor points at the instance that opened the current run of
	// local Adds. Set once at construction, never mutated. Invariant:
	// ancestor.elements ⊆ elements. Not part of the logical value:
	// it only lets Merge recognize a linear extension in O(1) and
	// skip the union.
	ancestor *GSet[A]
}

// NewGSet returns an empty grow-only set, the identity element of Merge.
func NewGSet[A comparable]() *GSet[A] {
	return &GSet[A]{elements: structs.NewSet[A]()}
}

// NewGSetFromSnapshot restores a set from a JSON snapshot produced by
// MarshalJSON.
func NewGSetFromSnapshot[A comparable](snapshot []byte) (*GSet[A], error) {
	var data struct {
		Type     string `json:"type"`
		Elements []A    `json:"elements"`
		Delta    []A    `json:"delta"`
	}

	if err := json.Unmarshal(snapshot, &data); err != nil {
		return nil, err
	}
	if data.Type != "" && data.Type != GSetName {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrStateTypeMismatch, GSetName, data.Type)
	}

	s := &GSet[A]{elements: structs.NewSet(data.Elements...)}
	if data.Delta != nil {
		s.delta = &GSet[A]{elements: structs.NewSet(data.Delta...)}
	}
	return s, nil
}

// Contains reports whether the element is a member of the set.
func (s *GSet[A]) Contains(value A) bool {
	return s.elements.Contains(value)
}

// IsEmpty reports whether the set has no members.
func (s *GSet[A]) IsEmpty() bool {
	return s.elements.Size() == 0
}

// Size returns the number of members.
func (s *GSet[A]) Size() int {
	return s.elements.Size()
}

// Elements returns the members as a fresh slice in unspecified order.
func (s *GSet[A]) Elements() []A {
	return s.elements.Slice()
}

// All iterates over the members. The view is read-only and reflects
// the instance it was taken from; later Adds produce new instances.
func (s *GSet[A]) All() iter.Seq[A] {
	return s.elements.All()
}

// Equal compares logical values only: two sets are equal iff their
// elements are equal. Pending deltas and lineage are cache metadata
// and do not participate.
func (s *GSet[A]) Equal(other *GSet[A]) bool {
	if other == nil {
		return false
	}
	return s.elements.Equal(other.elements)
}

// Add returns a new set whose elements are the receiver's plus value.
// The pending delta accumulates across Adds until ResetDelta; adding
// an already-present element still lands in the delta, the receiving
// replica's union absorbs it.
func (s *GSet[A]) Add(value A) *GSet[A] {
	elements := s.elements.Clone()
	elements.Add(value)

	deltaElements := structs.NewSet[A]()
	if s.delta != nil {
		deltaElements = s.delta.elements.Clone()
	}
	deltaElements.Add(value)

	return &GSet[A]{
		elements: elements,
		delta:    &GSet[A]{elements: deltaElements},
		ancestor: s.root(),
	}
}

// Merge joins the receiver with another replica's state and returns
// the result. When one operand is a linear extension of the other
// (same replica, a run of local Adds apart) the newer operand is
// returned as-is instead of building a union; the lineage pointer
// makes that check a single comparison. The returned value never
// carries a lineage pointer, a merged state is not part of any run.
func (s *GSet[A]) Merge(other *GSet[A]) *GSet[A] {
	if other == nil {
		return s.clearAncestor()
	}
	if s == other || (s == other.ancestor && s.Size() <= other.Size()) {
		return other.clearAncestor()
	}
	if other == s.ancestor && other.Size() <= s.Size() {
		return s.clearAncestor()
	}
	return &GSet[A]{elements: s.elements.Union(other.elements)}
}

// MergeDelta folds an incoming delta into the receiver. A delta is a
// full GSet, so this is the same join as Merge.
func (s *GSet[A]) MergeDelta(delta *GSet[A]) *GSet[A] {
	return s.Merge(delta)
}

// Delta returns the pending delta, if any.
func (s *GSet[A]) Delta() (*GSet[A], bool) {
	return s.delta, s.delta != nil
}

// ResetDelta drops the pending delta after it has been propagated, so
// the next Add opens a fresh delta window. Returns the receiver when
// nothing is pending. Lineage is preserved: a merge right after a
// reset still takes the fast path.
func (s *GSet[A]) ResetDelta() *GSet[A] {
	if s.delta == nil {
		return s
	}
	return &GSet[A]{elements: s.elements, ancestor: s.root()}
}

func (s *GSet[A]) Type() string {
	return GSetName
}

// MarshalJSON serializes elements and any pending delta as plain
// arrays. Lineage is transient and never leaves the process.
func (s *GSet[A]) MarshalJSON() ([]byte, error) {
	data := struct {
		Type     string `json:"type"`
		Elements []A    `json:"elements"`
		Delta    []A    `json:"delta,omitempty"`
	}{
		Type:     GSetName,
		Elements: s.elements.Slice(),
	}
	if s.delta != nil {
		data.Delta = s.delta.elements.Slice()
	}
	return json.Marshal(data)
}

// MergeSnapshot joins a serialized remote state or delta, restored
// through the JSON codec surface, into the receiver. The receiver's
// pending delta survives the join: elements still waiting to be
// shipped must not vanish just because remote gossip arrived first.
func (s *GSet[A]) MergeSnapshot(snapshot []byte) (State, error) {
	other, err := NewGSetFromSnapshot[A](snapshot)
	if err != nil {
		return s, err
	}
	merged := s.Merge(other)
	if s.delta != nil && merged.delta == nil {
		merged = &GSet[A]{elements: merged.elements, delta: s.delta}
	}
	return merged, nil
}

// PendingDelta exposes the pending delta behind the type-erased store
// interface.
func (s *GSet[A]) PendingDelta() (Delta, bool) {
	if s.delta == nil {
		return nil, false
	}
	return s.delta, true
}

// ClearDelta is ResetDelta behind the type-erased store interface.
func (s *GSet[A]) ClearDelta() State {
	return s.ResetDelta()
}

// root returns the instance that opened the current run of local Adds,
// the receiver itself when no run is open.
func (s *GSet[A]) root() *GSet[A] {
	if s.ancestor != nil {
		return s.ancestor
	}
	return s
}

// clearAncestor strips the lineage pointer without copying element
// storage. No-op when there is nothing to strip.
func (s *GSet[A]) clearAncestor() *GSet[A] {
	if s.ancestor == nil {
		return s
	}
	return &GSet[A]{elements: s.elements, delta: s.delta}
}
