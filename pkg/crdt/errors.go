package crdt

import "fmt"

var ErrEmptyKeyID = fmt.Errorf("empty key identifier")
var ErrStateTypeMismatch = fmt.Errorf("state type mismatch")
