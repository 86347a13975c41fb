package allocator

import "fmt"

type ErrInfeasibleAllocation struct {
	error
}

func NewErrInfeasibleAllocation(format string, args ...any) *ErrInfeasibleAllocation {
	return &ErrInfeasibleAllocation{fmt.Errorf("infeasible allocation: "+format, args...)}
}
