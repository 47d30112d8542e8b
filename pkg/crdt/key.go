package crdt

// Key names one replicated value in the hosting store and pins its
// element type at compile time. It is a pure lookup token, identity
// and typing only.
type Key[A comparable] struct {
	id string
}

// NewKey builds a key from a stable identifier. The identifier must
// be non-empty, nothing else is validated.
func NewKey[A comparable](id string) (Key[A], error) {
	if id == "" {
		return Key[A]{}, ErrEmptyKeyID
	}
	return Key[A]{id: id}, nil
}

func (k Key[A]) ID() string {
	return k.id
}

func (k Key[A]) String() string {
	return k.id
}
