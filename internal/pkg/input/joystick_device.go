package input

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"

	"github.com/joyenv/joyenv/internal/pkg/gateway"
)

// JoystickDevice is one open legacy joystick device. The joydev
// interface describes itself through two flat maps: axis index to
// absolute axis code and button index to key code.
//
// The node is held as a raw descriptor on purpose: wrapping it in an
// os.File would register the pollable character device with the
// runtime netpoller, turning the O_NONBLOCK reads below into parked
// goroutines instead of EAGAIN.
type JoystickDevice struct {
	gw   *gateway.Gateway
	path string
	fd   int

	name    string
	version uint32

	axisMap   []byte
	buttonMap []uint16

	axes    map[uint8]*joystickAxis
	buttons map[uint8]*joystickButton

	closeOnce sync.Once
	closeErr  error
}

func openJoystickDevice(gw *gateway.Gateway, path string) (*JoystickDevice, error) {
	d := &JoystickDevice{
		gw:      gw,
		path:    path,
		fd:      -1,
		axes:    make(map[uint8]*joystickAxis),
		buttons: make(map[uint8]*joystickButton),
	}
	err := gw.Do(func() error {
		rawFd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
		if err != nil {
			return err
		}
		d.fd = rawFd
		fd := uintptr(rawFd)

		if err := ioctlPtr(fd, JSIOCGVERSION, unsafe.Pointer(&d.version)); err != nil {
			return fmt.Errorf("JSIOCGVERSION: %w", err)
		}

		var nameBuf [128]byte
		if err := ioctlPtr(fd, JSIOCGNAME, unsafe.Pointer(&nameBuf)); err != nil {
			return fmt.Errorf("JSIOCGNAME: %w", err)
		}
		if pos := bytes.IndexByte(nameBuf[:], 0); pos >= 0 {
			d.name = string(nameBuf[:pos])
		} else {
			d.name = string(nameBuf[:])
		}

		var numAxes, numButtons uint8
		if err := ioctlPtr(fd, JSIOCGAXES, unsafe.Pointer(&numAxes)); err != nil {
			return fmt.Errorf("JSIOCGAXES: %w", err)
		}
		if err := ioctlPtr(fd, JSIOCGBUTTONS, unsafe.Pointer(&numButtons)); err != nil {
			return fmt.Errorf("JSIOCGBUTTONS: %w", err)
		}

		var axMap [evdev.ABS_CNT]byte
		if err := ioctlPtr(fd, JSIOCGAXMAP, unsafe.Pointer(&axMap)); err != nil {
			return fmt.Errorf("JSIOCGAXMAP: %w", err)
		}
		d.axisMap = append([]byte(nil), axMap[:numAxes]...)

		var btnMap [0x200]uint16
		if err := ioctlPtr(fd, JSIOCGBTNMAP, unsafe.Pointer(&btnMap)); err != nil {
			return fmt.Errorf("JSIOCGBTNMAP: %w", err)
		}
		d.buttonMap = append([]uint16(nil), btnMap[:numButtons]...)
		return nil
	})
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return d, nil
}

func (d *JoystickDevice) Name() string { return d.name }
func (d *JoystickDevice) Path() string { return d.path }

func (d *JoystickDevice) registerAxis(index uint8, a *joystickAxis) {
	d.axes[index] = a
}

func (d *JoystickDevice) registerButton(index uint8, b *joystickButton) {
	d.buttons[index] = b
}

// poll drains pending joydev records without blocking and pushes the
// values into the registered components. Synthetic init records carry
// the current state and are routed like live ones. Records are decoded
// in host order, struct js_event fields are native-endian:
// time u32, value s16, type u8, number u8.
func (d *JoystickDevice) poll() error {
	return d.gw.Do(func() error {
		buf := make([]byte, jsEventSize)
		for {
			n, err := unix.Read(d.fd, buf)
			if err != nil {
				if errors.Is(err, unix.EAGAIN) {
					return nil
				}
				return fmt.Errorf("reading %s: %w", d.path, err)
			}
			if n < jsEventSize {
				return nil
			}
			value := *(*int16)(unsafe.Pointer(&buf[4]))
			number := buf[7]
			switch buf[6] &^ JS_EVENT_INIT {
			case JS_EVENT_AXIS:
				if a, ok := d.axes[number]; ok {
					a.update(value)
				}
			case JS_EVENT_BUTTON:
				if b, ok := d.buttons[number]; ok {
					b.update(value)
				}
			}
		}
	})
}

// Close releases the descriptor, first call wins.
func (d *JoystickDevice) Close() error {
	d.closeOnce.Do(func() {
		if d.fd < 0 {
			return
		}
		d.closeErr = d.gw.Do(func() error {
			err := unix.Close(d.fd)
			d.fd = -1
			return err
		})
	})
	return d.closeErr
}

func ioctlPtr(fd uintptr, req uint, ptr unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(req), uintptr(ptr))
	if errno != 0 {
		return errno
	}
	return nil
}

// joystickAxis is a plain analog axis of a joydev device. joydev
// already applies the driver's flat zone, values arrive centered.
type joystickAxis struct {
	id  Identifier
	raw int32
	val value32
}

func (a *joystickAxis) update(v int16) {
	atomic.StoreInt32(&a.raw, int32(v))
	a.val.set(float32(v) / 32767.0)
}

func (a *joystickAxis) rawValue() int {
	return int(atomic.LoadInt32(&a.raw))
}

func (a *joystickAxis) ID() Identifier    { return a.id }
func (a *joystickAxis) Name() string      { return a.id.Name() }
func (a *joystickAxis) Relative() bool    { return false }
func (a *joystickAxis) Analog() bool      { return true }
func (a *joystickAxis) DeadZone() float32 { return 0 }
func (a *joystickAxis) Value() float32    { return a.val.get() }

type joystickButton struct {
	id  Identifier
	val value32
}

func (b *joystickButton) update(v int16) {
	if v != 0 {
		b.val.set(1)
	} else {
		b.val.set(0)
	}
}

func (b *joystickButton) ID() Identifier    { return b.id }
func (b *joystickButton) Name() string      { return b.id.Name() }
func (b *joystickButton) Relative() bool    { return false }
func (b *joystickButton) Analog() bool      { return false }
func (b *joystickButton) DeadZone() float32 { return 0 }
func (b *joystickButton) Value() float32    { return b.val.get() }

// joystickPOV combines the two halves of a hat pair into one
// directional component. The halves keep receiving routed events, the
// POV derives its value from their raw signs.
type joystickPOV struct {
	x, y *joystickAxis
}

func (p *joystickPOV) ID() Identifier    { return AxisPOV }
func (p *joystickPOV) Name() string      { return AxisPOV.Name() }
func (p *joystickPOV) Relative() bool    { return false }
func (p *joystickPOV) Analog() bool      { return false }
func (p *joystickPOV) DeadZone() float32 { return 0 }

func (p *joystickPOV) Value() float32 {
	return povValue(p.x.rawValue(), p.y.rawValue())
}
