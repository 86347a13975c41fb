package profile

import "fmt"

type ErrInvalidConfiguration struct {
	error
}

func NewErrInvalidConfiguration(format string, args ...any) *ErrInvalidConfiguration {
	return &ErrInvalidConfiguration{fmt.Errorf("invalid configuration: "+format, args...)}
}
