package input

import (
	"testing"

	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func keyRaw(code evdev.EvCode) rawComponent {
	id := ButtonIdentifier(code)
	if id == Unidentified {
		id = KeyIdentifier(code)
	}
	return rawComponent{desc: descriptor{typ: evdev.EV_KEY, code: code}, id: id}
}

func absRaw(code evdev.EvCode, abs evdev.AbsInfo) rawComponent {
	return rawComponent{desc: descriptor{typ: evdev.EV_ABS, code: code}, id: AbsAxisIdentifier(code), abs: abs}
}

func relRaw(code evdev.EvCode) rawComponent {
	return rawComponent{desc: descriptor{typ: evdev.EV_REL, code: code}, id: RelAxisIdentifier(code)}
}

func TestClassifyEventDevice(t *testing.T) {
	stickAbs := evdev.AbsInfo{Minimum: -32768, Maximum: 32767}

	for _, tc := range []struct {
		name     string
		raws     []rawComponent
		expected Type
	}{
		{
			name:     "gamepad buttons win",
			raws:     []rawComponent{keyRaw(evdev.BTN_SOUTH), keyRaw(evdev.BTN_EAST), absRaw(evdev.ABS_X, stickAbs)},
			expected: Gamepad,
		},
		{
			name:     "gamepad buttons outrank stick buttons",
			raws:     []rawComponent{keyRaw(evdev.BTN_TRIGGER), keyRaw(evdev.BTN_SOUTH)},
			expected: Gamepad,
		},
		{
			name:     "stick buttons",
			raws:     []rawComponent{keyRaw(evdev.BTN_TRIGGER), absRaw(evdev.ABS_X, stickAbs)},
			expected: Stick,
		},
		{
			name:     "mouse needs both rel axes and a button",
			raws:     []rawComponent{keyRaw(evdev.BTN_LEFT), relRaw(evdev.REL_X), relRaw(evdev.REL_Y)},
			expected: Mouse,
		},
		{
			name:     "mouse button without rel axes is not a mouse",
			raws:     []rawComponent{keyRaw(evdev.BTN_LEFT)},
			expected: Unknown,
		},
		{
			name:     "keyboard",
			raws:     []rawComponent{keyRaw(evdev.KEY_A), keyRaw(evdev.KEY_LEFTSHIFT)},
			expected: Keyboard,
		},
		{
			name:     "nothing recognizable",
			raws:     []rawComponent{absRaw(evdev.ABS_MISC, stickAbs)},
			expected: Unknown,
		},
		{
			name:     "empty",
			raws:     nil,
			expected: Unknown,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, classifyEventDevice(tc.raws))
		})
	}
}

func TestBuildComponentsSynthesizesPOV(t *testing.T) {
	b := &eventBackend{log: zap.NewNop()}
	dev := &EventDevice{name: "Pad", routes: make(map[descriptor]eventRoute)}

	hatAbs := evdev.AbsInfo{Minimum: -1, Maximum: 1}
	raws := []rawComponent{
		keyRaw(evdev.BTN_SOUTH),
		absRaw(evdev.ABS_X, evdev.AbsInfo{Minimum: -32768, Maximum: 32767, Flat: 128}),
		absRaw(evdev.ABS_HAT0X, hatAbs),
		absRaw(evdev.ABS_HAT0Y, hatAbs),
	}

	comps := b.buildComponents(dev, raws)

	assert.Len(t, comps, 3)
	assert.Equal(t, ButtonA, comps[0].ID())
	assert.Equal(t, AxisX, comps[1].ID())
	assert.Equal(t, AxisPOV, comps[2].ID())

	// both hat halves route into the same POV component
	xRoute := dev.routes[descriptor{typ: evdev.EV_ABS, code: evdev.ABS_HAT0X}]
	yRoute := dev.routes[descriptor{typ: evdev.EV_ABS, code: evdev.ABS_HAT0Y}]
	assert.NotNil(t, xRoute)
	assert.Same(t, xRoute, yRoute)
}

func TestBuildComponentsDropsLoneHatHalf(t *testing.T) {
	b := &eventBackend{log: zap.NewNop()}
	dev := &EventDevice{name: "Pad", routes: make(map[descriptor]eventRoute)}

	raws := []rawComponent{
		absRaw(evdev.ABS_HAT0X, evdev.AbsInfo{Minimum: -1, Maximum: 1}),
	}

	comps := b.buildComponents(dev, raws)

	assert.Empty(t, comps)
	assert.Empty(t, dev.routes)
}

func TestBuildComponentsDropsUnidentified(t *testing.T) {
	b := &eventBackend{log: zap.NewNop()}
	dev := &EventDevice{name: "Pad", routes: make(map[descriptor]eventRoute)}

	raws := []rawComponent{
		absRaw(evdev.ABS_MISC, evdev.AbsInfo{}),
		relRaw(evdev.REL_MISC),
		keyRaw(evdev.BTN_TRIGGER),
	}

	comps := b.buildComponents(dev, raws)

	assert.Len(t, comps, 1)
	assert.Equal(t, ButtonTrigger, comps[0].ID())
}

func TestBuildComponentsDeadZoneOverride(t *testing.T) {
	b := &eventBackend{log: zap.NewNop(), profiles: Profiles{"Pad": 0.15}}
	dev := &EventDevice{name: "Pad", routes: make(map[descriptor]eventRoute)}

	raws := []rawComponent{
		absRaw(evdev.ABS_X, evdev.AbsInfo{Minimum: -32768, Maximum: 32767, Flat: 128}),
	}

	comps := b.buildComponents(dev, raws)
	assert.Len(t, comps, 1)
	assert.InDelta(t, 0.15, comps[0].DeadZone(), 1e-6)
}

func TestEventComponentDeadZoneFromCalibration(t *testing.T) {
	raw := absRaw(evdev.ABS_X, evdev.AbsInfo{Minimum: -32768, Maximum: 32767, Flat: 128})
	c := newEventComponent(&raw, -1)
	// 2 * flat / span
	assert.InDelta(t, 2*128.0/65535.0, c.DeadZone(), 1e-6)
	assert.True(t, c.Analog())
	assert.False(t, c.Relative())
}

func TestEventComponentConvert(t *testing.T) {
	key := keyRaw(evdev.BTN_SOUTH)
	kc := newEventComponent(&key, -1)
	kc.route(kc.desc, 1)
	assert.Equal(t, float32(1), kc.Value())
	kc.route(kc.desc, 0)
	assert.Equal(t, float32(0), kc.Value())
	assert.False(t, kc.Analog())

	abs := absRaw(evdev.ABS_X, evdev.AbsInfo{Minimum: 0, Maximum: 255})
	ac := newEventComponent(&abs, -1)
	ac.route(ac.desc, 0)
	assert.InDelta(t, -1.0, ac.Value(), 1e-6)
	ac.route(ac.desc, 255)
	assert.InDelta(t, 1.0, ac.Value(), 1e-6)

	rel := relRaw(evdev.REL_X)
	rc := newEventComponent(&rel, -1)
	rc.route(rc.desc, -3)
	assert.Equal(t, float32(-3), rc.Value())
	assert.True(t, rc.Relative())
}

func TestEventPOVRouting(t *testing.T) {
	hatAbs := evdev.AbsInfo{Minimum: -1, Maximum: 1}
	x := absRaw(evdev.ABS_HAT0X, hatAbs)
	y := absRaw(evdev.ABS_HAT0Y, hatAbs)
	pov := newEventPOV(&x, &y)

	assert.Equal(t, POVCenter, pov.Value())

	pov.route(x.desc, 1)
	assert.Equal(t, POVRight, pov.Value())
	pov.route(y.desc, 1)
	assert.Equal(t, POVDownRight, pov.Value())
	pov.route(x.desc, 0)
	pov.route(y.desc, 0)
	assert.Equal(t, POVCenter, pov.Value())
}

func TestHasComponent(t *testing.T) {
	comps := []Component{
		&joystickAxis{id: AxisX},
		&joystickButton{id: ButtonLeft},
	}
	assert.True(t, hasComponent(comps, AxisX))
	assert.True(t, hasComponent(comps, ButtonLeft))
	assert.False(t, hasComponent(comps, AxisY))
}

func TestListDeviceNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"event2", "event0", "event10", "js0", "mouse0"} {
		touchFile(t, dir, name)
	}

	names := listDeviceNames(zap.NewNop(), dir, "event")
	assert.Equal(t, []string{"event0", "event10", "event2"}, names)

	names = listDeviceNames(zap.NewNop(), dir, "js")
	assert.Equal(t, []string{"js0"}, names)

	assert.Empty(t, listDeviceNames(zap.NewNop(), dir+"/missing", "event"))
}
