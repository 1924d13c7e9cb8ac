package input

// Constants from linux/input.h and linux/joystick.h that are not part
// of the event-code tables shipped with go-evdev.

const (
	// IDs.

	BUS_PCI       = 0x01
	BUS_ISAPNP    = 0x02
	BUS_USB       = 0x03
	BUS_HIL       = 0x04
	BUS_BLUETOOTH = 0x05
	BUS_VIRTUAL   = 0x06

	BUS_ISA      = 0x10
	BUS_I8042    = 0x11
	BUS_XTKBD    = 0x12
	BUS_RS232    = 0x13
	BUS_GAMEPORT = 0x14
	BUS_PARPORT  = 0x15
	BUS_AMIGA    = 0x16
	BUS_ADB      = 0x17
	BUS_I2C      = 0x18
	BUS_HOST     = 0x19
	BUS_GSC      = 0x1A
	BUS_ATARI    = 0x1B
	BUS_SPI      = 0x1C
	BUS_RMI      = 0x1D
	BUS_CEC      = 0x1E

	// Force feedback effect types

	FF_RUMBLE   = 0x50
	FF_PERIODIC = 0x51
	FF_CONSTANT = 0x52
	FF_SPRING   = 0x53
	FF_FRICTION = 0x54
	FF_DAMPER   = 0x55
	FF_INERTIA  = 0x56
	FF_RAMP     = 0x57

	FF_EFFECT_MIN = FF_RUMBLE
	FF_EFFECT_MAX = FF_RAMP

	// Set ff device properties

	FF_GAIN       = 0x60
	FF_AUTOCENTER = 0x61

	FF_MAX = 0x7f
	FF_CNT = FF_MAX + 1
)

// evdev ioctls used for force feedback. _IOW('E', ...) with the size of
// struct ff_effect (48 bytes on 64-bit) baked in.
const (
	EVIOCSFF  = 0x40304580
	EVIOCRMFF = 0x40044581
)

// joydev ioctls, _IOR('j', ...).
const (
	JSIOCGVERSION = 0x80046a01
	JSIOCGAXES    = 0x80016a11
	JSIOCGBUTTONS = 0x80016a12
	JSIOCGNAME    = 0x80806a13 // 128 byte name buffer
	JSIOCGAXMAP   = 0x80406a32 // ABS_CNT bytes
	JSIOCGBTNMAP  = 0x84006a34 // (KEY_MAX - BTN_MISC + 1) uint16 entries
)

// joydev event records, see struct js_event.
const (
	jsEventSize = 8

	JS_EVENT_BUTTON = 0x01
	JS_EVENT_AXIS   = 0x02
	JS_EVENT_INIT   = 0x80
)

// busName translates an input ID bus type into the conventional short
// name used in controller fingerprints.
func busName(bus uint16) string {
	switch bus {
	case BUS_PCI:
		return "pci"
	case BUS_ISAPNP:
		return "isapnp"
	case BUS_USB:
		return "usb"
	case BUS_HIL:
		return "hil"
	case BUS_BLUETOOTH:
		return "bluetooth"
	case BUS_VIRTUAL:
		return "virtual"
	case BUS_ISA:
		return "isa"
	case BUS_I8042:
		return "i8042"
	case BUS_XTKBD:
		return "xtkbd"
	case BUS_RS232:
		return "rs232"
	case BUS_GAMEPORT:
		return "gameport"
	case BUS_PARPORT:
		return "parport"
	case BUS_AMIGA:
		return "amiga"
	case BUS_ADB:
		return "adb"
	case BUS_I2C:
		return "i2c"
	case BUS_HOST:
		return "host"
	case BUS_GSC:
		return "gsc"
	case BUS_ATARI:
		return "atari"
	case BUS_SPI:
		return "spi"
	case BUS_RMI:
		return "rmi"
	case BUS_CEC:
		return "cec"
	default:
		return "unknown"
	}
}
