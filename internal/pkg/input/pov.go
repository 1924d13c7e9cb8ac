package input

import "github.com/holoplot/go-evdev"

// Directional values reported by POV components. Cardinal and diagonal
// positions split the unit interval, center is zero.
const (
	POVCenter    float32 = 0.0
	POVUpLeft    float32 = 0.125
	POVUp        float32 = 0.25
	POVUpRight   float32 = 0.375
	POVRight     float32 = 0.5
	POVDownRight float32 = 0.625
	POVDown      float32 = 0.75
	POVDownLeft  float32 = 0.875
	POVLeft      float32 = 1.0
)

// povValue folds the sign of a hat's X and Y axes into one directional
// value. Hat axes report -1, 0 or 1; Y grows downwards.
func povValue(x, y int) float32 {
	switch {
	case x < 0 && y < 0:
		return POVUpLeft
	case x == 0 && y < 0:
		return POVUp
	case x > 0 && y < 0:
		return POVUpRight
	case x > 0 && y == 0:
		return POVRight
	case x > 0 && y > 0:
		return POVDownRight
	case x == 0 && y > 0:
		return POVDown
	case x < 0 && y > 0:
		return POVDownLeft
	case x < 0 && y == 0:
		return POVLeft
	default:
		return POVCenter
	}
}

// hatSlot maps a hat axis code onto its slot index and half. The kernel
// reserves four consecutive code pairs for hats.
func hatSlot(code evdev.EvCode) (slot int, isY bool, ok bool) {
	if code < evdev.ABS_HAT0X || code > evdev.ABS_HAT3Y {
		return 0, false, false
	}
	n := int(code - evdev.ABS_HAT0X)
	return n / 2, n%2 == 1, true
}

// povSlots collects the hat halves both backends observe while scanning
// raw components. A slot turns into a POV component only once both its
// X and Y half have been seen; lone halves contribute nothing.
type povSlots[T any] struct {
	x [4]*T
	y [4]*T
}

// observe files c under its hat slot. It reports false when code is not
// a hat axis at all.
func (s *povSlots[T]) observe(code evdev.EvCode, c *T) bool {
	slot, isY, ok := hatSlot(code)
	if !ok {
		return false
	}
	if isY {
		s.y[slot] = c
	} else {
		s.x[slot] = c
	}
	return true
}

type povPair[T any] struct {
	x, y *T
}

// pairs returns the realized slots in slot order.
func (s *povSlots[T]) pairs() []povPair[T] {
	var out []povPair[T]
	for i := 0; i < 4; i++ {
		if s.x[i] != nil && s.y[i] != nil {
			out = append(out, povPair[T]{x: s.x[i], y: s.y[i]})
		}
	}
	return out
}
