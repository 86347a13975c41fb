package registry

import "fmt"

// ErrUnknownReference reports an identifier that was never registered. It signals
// a defect in the caller, never a configuration problem.
type ErrUnknownReference struct {
	error
}

func NewErrUnknownReference(id string, context string) *ErrUnknownReference {
	return &ErrUnknownReference{fmt.Errorf("unknown reference %q (%s)", id, context)}
}
