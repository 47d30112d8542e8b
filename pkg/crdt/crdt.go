package crdt

// State is the type-erased face of a replicated value held by the
// store. Implementations are immutable: merging never mutates an
// operand, it returns a fresh value.
type State interface {
	// Serialize current state to bytes
	MarshalJSON() ([]byte, error)

	// Join a serialized remote state or delta into the value and
	// return the result, receiver unchanged
	MergeSnapshot(snapshot []byte) (State, error)

	// Accumulated local delta since the last clear, if any
	PendingDelta() (Delta, bool)

	// Drop the pending delta once it has been propagated
	ClearDelta() State

	// Get type of the replicated value
	Type() string
}

// Delta is an incremental state shipped between replicas instead of
// the full value. For delta-state types a delta is merged with the
// same join as a full state.
type Delta interface {
	// Serialize delta to bytes
	MarshalJSON() ([]byte, error)

	Type() string
}

type StateConstructor func() State
