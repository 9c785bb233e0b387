package replicas

import (
	"sync/atomic"
)

// Lifecycle of a Pool. A pool only moves from open to closed.
type state uint32

const (
	openState state = iota
	closedState
)

func (s *state) close() bool {
	return atomic.CompareAndSwapUint32((*uint32)(s), uint32(openState), uint32(closedState))
}

func (s *state) closed() bool {
	return state(atomic.LoadUint32((*uint32)(s))) == closedState
}
