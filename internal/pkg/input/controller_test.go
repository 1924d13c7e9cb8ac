package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControllerIDEquality(t *testing.T) {
	a := ControllerID{Type: "gamepad", BusType: "usb", Vendor: "054c", Device: "09cc", Version: "8111"}
	b := ControllerID{Type: "gamepad", BusType: "usb", Vendor: "054c", Device: "09cc", Version: "8111"}
	c := ControllerID{Type: "gamepad", BusType: "usb", Vendor: "054c", Device: "09cc", Version: "8100"}

	assert.True(t, a == a)
	assert.True(t, a == b)
	assert.True(t, b == a)
	assert.False(t, a == c)

	// equal values must land in the same map bucket
	seen := map[ControllerID]int{}
	seen[a]++
	seen[b]++
	seen[c]++
	assert.Equal(t, 2, seen[a])
	assert.Equal(t, 1, seen[c])
}

func TestControllerComponentsIsACopy(t *testing.T) {
	axis := &joystickAxis{id: AxisX}
	ctrl := &Controller{name: "Pad", typ: Stick, comps: []Component{axis}}

	comps := ctrl.Components()
	comps[0] = nil

	again := ctrl.Components()
	assert.Equal(t, AxisX, again[0].ID())
}

func TestCombinedControllerShape(t *testing.T) {
	ev := &Controller{name: "Pad", typ: Gamepad, comps: []Component{
		&joystickAxis{id: AxisX},
		&joystickButton{id: NumberedButton(0)},
	}}
	js := &Controller{name: "Pad", typ: Stick, comps: []Component{
		&joystickAxis{id: AxisX},
		&joystickButton{id: NumberedButton(0)},
	}}

	combined := newCombinedController(ev, js)
	assert.Equal(t, "Pad", combined.Name())
	assert.Equal(t, Combined, combined.Type())
	assert.Len(t, combined.Components(), 4)
	assert.Len(t, combined.Children(), 2)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "Gamepad", Gamepad.String())
	assert.Equal(t, "Combined", Combined.String())
	assert.Equal(t, "Unknown", Unknown.String())
}
