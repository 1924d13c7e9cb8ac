package input

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"unsafe"

	"github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"

	"github.com/joyenv/joyenv/internal/pkg/gateway"
)

// ffEffect mirrors struct ff_effect far enough for the rumble case.
// The trailing block pads the effect union out to its full 48 bytes.
type ffEffect struct {
	Type            uint16
	ID              int16
	Direction       uint16
	TriggerButton   uint16
	TriggerInterval uint16
	ReplayLength    uint16
	ReplayDelay     uint16
	_               uint16
	StrongMagnitude uint16
	WeakMagnitude   uint16
	_               [28]byte
}

// inputEvent mirrors struct input_event for writes to the device.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Rumbler drives the rumble motors of one event device. It is write
// only: intensity goes in, nothing comes back. All writes run on the
// gateway worker.
type Rumbler struct {
	gw   *gateway.Gateway
	name string
	file *os.File

	mu       sync.Mutex
	effectID int16
}

// newRumbler opens a separate write handle on the device for effect
// uploads and registers it with the device for closing.
func newRumbler(dev *EventDevice) (*Rumbler, error) {
	f, err := gateway.Call(dev.gw, func() (*os.File, error) {
		return os.OpenFile(dev.path, os.O_RDWR|syscall.O_NONBLOCK, 0)
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s for force feedback: %w", dev.path, err)
	}
	dev.ffFile = f
	return &Rumbler{gw: dev.gw, name: dev.name, file: f, effectID: -1}, nil
}

func (r *Rumbler) Name() string { return r.name }

// Rumble sets the motor intensity, clamped to [0, 1]. Zero stops the
// motors.
func (r *Rumbler) Rumble(intensity float32) error {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gw.Do(func() error {
		if intensity == 0 {
			return r.play(0)
		}
		magnitude := uint16(intensity * 0xffff)
		effect := ffEffect{
			Type:            FF_RUMBLE,
			ID:              r.effectID,
			StrongMagnitude: magnitude,
			WeakMagnitude:   magnitude,
			// replay length zero plays until explicitly stopped
		}
		if err := ioctlPtr(r.file.Fd(), EVIOCSFF, unsafe.Pointer(&effect)); err != nil {
			return fmt.Errorf("uploading rumble effect: %w", err)
		}
		// the kernel assigns the effect id on first upload
		r.effectID = effect.ID
		return r.play(1)
	})
}

// detach stops the motors and erases the uploaded effect so the kernel
// slot is freed. Called during environment shutdown.
func (r *Rumbler) detach() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gw.Do(func() error {
		if r.effectID < 0 {
			return nil
		}
		if err := r.play(0); err != nil {
			return err
		}
		id := r.effectID
		r.effectID = -1
		// EVIOCRMFF takes the effect id as the argument itself
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, r.file.Fd(), EVIOCRMFF, uintptr(id))
		if errno != 0 {
			return fmt.Errorf("removing rumble effect: %w", errno)
		}
		return nil
	})
}

func (r *Rumbler) play(value int32) error {
	if r.effectID < 0 {
		return nil
	}
	ev := inputEvent{
		Type:  uint16(evdev.EV_FF),
		Code:  uint16(r.effectID),
		Value: value,
	}
	buf := (*(*[unsafe.Sizeof(ev)]byte)(unsafe.Pointer(&ev)))[:]
	if _, err := r.file.Write(buf); err != nil {
		return fmt.Errorf("writing rumble event: %w", err)
	}
	return nil
}
