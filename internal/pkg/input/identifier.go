package input

import (
	"sort"
	"strconv"
	"strings"

	"github.com/holoplot/go-evdev"
)

// Class splits the identifier namespace into the component families a
// controller can expose.
type Class uint8

const (
	ClassUnknown Class = iota
	ClassAxis
	ClassButton
	ClassKey
)

func (c Class) String() string {
	switch c {
	case ClassAxis:
		return "axis"
	case ClassButton:
		return "button"
	case ClassKey:
		return "key"
	default:
		return "unknown"
	}
}

// Identifier names one input element from the closed taxonomy shared by
// both backends. Values are comparable with ==, the merger and the
// device routing tables rely on that.
type Identifier struct {
	class Class
	name  string
}

// Unidentified is the zero Identifier, returned for codes outside the
// taxonomy. Components carrying it are dropped by the builders.
var Unidentified = Identifier{}

func (id Identifier) Class() Class { return id.class }
func (id Identifier) Name() string { return id.name }

func (id Identifier) String() string {
	if id == Unidentified {
		return "unidentified"
	}
	return id.class.String() + ":" + id.name
}

// Axis identifiers.
var (
	AxisX        = Identifier{ClassAxis, "x"}
	AxisY        = Identifier{ClassAxis, "y"}
	AxisZ        = Identifier{ClassAxis, "z"}
	AxisRX       = Identifier{ClassAxis, "rx"}
	AxisRY       = Identifier{ClassAxis, "ry"}
	AxisRZ       = Identifier{ClassAxis, "rz"}
	AxisSlider   = Identifier{ClassAxis, "slider"}
	AxisPressure = Identifier{ClassAxis, "pressure"}
	AxisPOV      = Identifier{ClassAxis, "pov"}
)

// Named button identifiers, following the traditional joystick, gamepad
// and mouse button blocks of the kernel code table.
var (
	ButtonTrigger = Identifier{ClassButton, "trigger"}
	ButtonThumb   = Identifier{ClassButton, "thumb"}
	ButtonThumb2  = Identifier{ClassButton, "thumb2"}
	ButtonTop     = Identifier{ClassButton, "top"}
	ButtonTop2    = Identifier{ClassButton, "top2"}
	ButtonPinkie  = Identifier{ClassButton, "pinkie"}
	ButtonBase    = Identifier{ClassButton, "base"}
	ButtonBase2   = Identifier{ClassButton, "base2"}
	ButtonBase3   = Identifier{ClassButton, "base3"}
	ButtonBase4   = Identifier{ClassButton, "base4"}
	ButtonBase5   = Identifier{ClassButton, "base5"}
	ButtonBase6   = Identifier{ClassButton, "base6"}
	ButtonDead    = Identifier{ClassButton, "dead"}

	ButtonA      = Identifier{ClassButton, "a"}
	ButtonB      = Identifier{ClassButton, "b"}
	ButtonC      = Identifier{ClassButton, "c"}
	ButtonX      = Identifier{ClassButton, "x"}
	ButtonY      = Identifier{ClassButton, "y"}
	ButtonZ      = Identifier{ClassButton, "z"}
	ButtonTL     = Identifier{ClassButton, "tl"}
	ButtonTR     = Identifier{ClassButton, "tr"}
	ButtonTL2    = Identifier{ClassButton, "tl2"}
	ButtonTR2    = Identifier{ClassButton, "tr2"}
	ButtonSelect = Identifier{ClassButton, "select"}
	ButtonStart  = Identifier{ClassButton, "start"}
	ButtonMode   = Identifier{ClassButton, "mode"}
	ButtonThumbL = Identifier{ClassButton, "thumbl"}
	ButtonThumbR = Identifier{ClassButton, "thumbr"}

	ButtonLeft    = Identifier{ClassButton, "left"}
	ButtonRight   = Identifier{ClassButton, "right"}
	ButtonMiddle  = Identifier{ClassButton, "middle"}
	ButtonSide    = Identifier{ClassButton, "side"}
	ButtonExtra   = Identifier{ClassButton, "extra"}
	ButtonForward = Identifier{ClassButton, "forward"}
	ButtonBack    = Identifier{ClassButton, "back"}
	ButtonTask    = Identifier{ClassButton, "task"}
)

// NumberedButton returns the identifier for plain numbered buttons
// 0 through 31.
func NumberedButton(n int) Identifier {
	if n < 0 || n > 31 {
		return Unidentified
	}
	return Identifier{ClassButton, strconv.Itoa(n)}
}

var absAxisIdentifiers = map[evdev.EvCode]Identifier{
	evdev.ABS_X:        AxisX,
	evdev.ABS_Y:        AxisY,
	evdev.ABS_Z:        AxisZ,
	evdev.ABS_RX:       AxisRX,
	evdev.ABS_RY:       AxisRY,
	evdev.ABS_RZ:       AxisRZ,
	evdev.ABS_THROTTLE: AxisSlider,
	evdev.ABS_RUDDER:   AxisRZ,
	evdev.ABS_WHEEL:    AxisX,
	evdev.ABS_GAS:      AxisSlider,
	evdev.ABS_BRAKE:    AxisSlider,
	evdev.ABS_HAT0X:    AxisPOV,
	evdev.ABS_HAT0Y:    AxisPOV,
	evdev.ABS_HAT1X:    AxisPOV,
	evdev.ABS_HAT1Y:    AxisPOV,
	evdev.ABS_HAT2X:    AxisPOV,
	evdev.ABS_HAT2Y:    AxisPOV,
	evdev.ABS_HAT3X:    AxisPOV,
	evdev.ABS_HAT3Y:    AxisPOV,
	evdev.ABS_PRESSURE: AxisPressure,
}

// AbsAxisIdentifier classifies an absolute axis code. Codes outside the
// taxonomy yield Unidentified.
func AbsAxisIdentifier(code evdev.EvCode) Identifier {
	return absAxisIdentifiers[code]
}

var relAxisIdentifiers = map[evdev.EvCode]Identifier{
	evdev.REL_X:      AxisX,
	evdev.REL_Y:      AxisY,
	evdev.REL_WHEEL:  AxisZ,
	evdev.REL_HWHEEL: AxisRZ,
}

// RelAxisIdentifier classifies a relative axis code.
func RelAxisIdentifier(code evdev.EvCode) Identifier {
	return relAxisIdentifiers[code]
}

var buttonIdentifiers = map[evdev.EvCode]Identifier{
	evdev.BTN_0: NumberedButton(0),
	evdev.BTN_1: NumberedButton(1),
	evdev.BTN_2: NumberedButton(2),
	evdev.BTN_3: NumberedButton(3),
	evdev.BTN_4: NumberedButton(4),
	evdev.BTN_5: NumberedButton(5),
	evdev.BTN_6: NumberedButton(6),
	evdev.BTN_7: NumberedButton(7),
	evdev.BTN_8: NumberedButton(8),
	evdev.BTN_9: NumberedButton(9),

	evdev.BTN_TRIGGER: ButtonTrigger,
	evdev.BTN_THUMB:   ButtonThumb,
	evdev.BTN_THUMB2:  ButtonThumb2,
	evdev.BTN_TOP:     ButtonTop,
	evdev.BTN_TOP2:    ButtonTop2,
	evdev.BTN_PINKIE:  ButtonPinkie,
	evdev.BTN_BASE:    ButtonBase,
	evdev.BTN_BASE2:   ButtonBase2,
	evdev.BTN_BASE3:   ButtonBase3,
	evdev.BTN_BASE4:   ButtonBase4,
	evdev.BTN_BASE5:   ButtonBase5,
	evdev.BTN_BASE6:   ButtonBase6,
	evdev.BTN_DEAD:    ButtonDead,

	evdev.BTN_SOUTH:  ButtonA,
	evdev.BTN_EAST:   ButtonB,
	evdev.BTN_C:      ButtonC,
	evdev.BTN_NORTH:  ButtonX,
	evdev.BTN_WEST:   ButtonY,
	evdev.BTN_Z:      ButtonZ,
	evdev.BTN_TL:     ButtonTL,
	evdev.BTN_TR:     ButtonTR,
	evdev.BTN_TL2:    ButtonTL2,
	evdev.BTN_TR2:    ButtonTR2,
	evdev.BTN_SELECT: ButtonSelect,
	evdev.BTN_START:  ButtonStart,
	evdev.BTN_MODE:   ButtonMode,
	evdev.BTN_THUMBL: ButtonThumbL,
	evdev.BTN_THUMBR: ButtonThumbR,

	evdev.BTN_LEFT:    ButtonLeft,
	evdev.BTN_RIGHT:   ButtonRight,
	evdev.BTN_MIDDLE:  ButtonMiddle,
	evdev.BTN_SIDE:    ButtonSide,
	evdev.BTN_EXTRA:   ButtonExtra,
	evdev.BTN_FORWARD: ButtonForward,
	evdev.BTN_BACK:    ButtonBack,
	evdev.BTN_TASK:    ButtonTask,
}

func init() {
	// BTN_TRIGGER_HAPPY block continues the numbered buttons, 0x2c0 up
	// to the 32 button limit of the taxonomy.
	for i := 0; i < 22; i++ {
		buttonIdentifiers[evdev.BTN_TRIGGER_HAPPY1+evdev.EvCode(i)] = NumberedButton(10 + i)
	}
}

// ButtonIdentifier classifies a button code shared by both backends so
// that merge comparison is well defined.
func ButtonIdentifier(code evdev.EvCode) Identifier {
	return buttonIdentifiers[code]
}

// keyNames maps key codes back to their symbolic names. go-evdev only
// ships the string-to-code direction; when several names share a code
// (aliases) the lexicographically first one wins so the result is
// stable across runs.
var keyNames = func() map[evdev.EvCode]string {
	names := make(map[evdev.EvCode]string, len(evdev.KEYFromString))
	for name, code := range evdev.KEYFromString {
		if prev, ok := names[code]; ok && prev <= name {
			continue
		}
		names[code] = name
	}
	return names
}()

// KeyIdentifier classifies a keyboard key code through the kernel code
// table. Button codes are excluded, they classify via ButtonIdentifier.
func KeyIdentifier(code evdev.EvCode) Identifier {
	name, ok := keyNames[code]
	if !ok || !strings.HasPrefix(name, "KEY_") {
		return Unidentified
	}
	return Identifier{ClassKey, strings.ToLower(strings.TrimPrefix(name, "KEY_"))}
}

// sortedCodes returns a copy of codes in ascending order. Capability
// listings must produce deterministic component ordering, the merge
// result depends on it.
func sortedCodes(codes []evdev.EvCode) []evdev.EvCode {
	out := make([]evdev.EvCode, len(codes))
	copy(out, codes)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
