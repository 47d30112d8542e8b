package crdt

import "fmt"

var ErrStateNotFound = fmt.Errorf("state type not found")

// The store erases element types at its boundary: named instances are
// kept with string elements, the codec renders values to strings
// before they reach the registry.
var constructors = map[string]StateConstructor{
	GSetName: func() State {
		return NewGSet[string]()
	},
}

type StateFabric interface {
	New(name string) (State, error)
}

type fabric struct {
}

func NewFabric() StateFabric {
	return &fabric{}
}

func (f *fabric) New(name string) (State, error) {
	constructor, ok := constructors[name]
	if !ok {
		return nil, ErrStateNotFound
	}
	return constructor(), nil
}
