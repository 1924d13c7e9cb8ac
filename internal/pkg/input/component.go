package input

import (
	"math"
	"sync/atomic"
)

// Component is one typed input element of a controller: an axis, a
// button or a synthesized POV. The set of components a controller
// exposes is fixed at discovery time, only values change while polling.
type Component interface {
	// ID places the component in the shared identifier taxonomy.
	ID() Identifier
	// Name is a human readable label.
	Name() string
	// Relative reports whether values are deltas rather than positions.
	Relative() bool
	// Analog reports whether the component covers a continuous range as
	// opposed to a momentary on/off state.
	Analog() bool
	// DeadZone is the normalized radius around zero inside which values
	// should be treated as noise.
	DeadZone() float32
	// Value returns the value captured by the last poll.
	Value() float32
}

// value32 is a float32 cell safe for concurrent readers while the
// gateway worker writes polled values into it.
type value32 struct {
	bits uint32
}

func (v *value32) get() float32 {
	return math.Float32frombits(atomic.LoadUint32(&v.bits))
}

func (v *value32) set(f float32) {
	atomic.StoreUint32(&v.bits, math.Float32bits(f))
}
