package sampler

import "fmt"

type ErrInvalidDistribution struct {
	error
}

func NewErrInvalidDistribution(format string, args ...any) *ErrInvalidDistribution {
	return &ErrInvalidDistribution{fmt.Errorf("invalid distribution: "+format, args...)}
}
