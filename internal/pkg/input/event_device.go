package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/holoplot/go-evdev"

	"github.com/joyenv/joyenv/internal/pkg/gateway"
)

// descriptor is the backend-native address of one hardware signal: the
// kernel event type plus its code.
type descriptor struct {
	typ  evdev.EvType
	code evdev.EvCode
}

// rawComponent pairs a descriptor with its classification and, for
// absolute axes, the calibration block reported by the device. It never
// leaves the backend.
type rawComponent struct {
	desc descriptor
	id   Identifier
	abs  evdev.AbsInfo
}

// eventRoute is implemented by components that consume raw events.
type eventRoute interface {
	route(desc descriptor, value int32)
}

// EventDevice is one open generic input device. It owns the native
// handle and the routing table from descriptors to components; every
// native call on it goes through the gateway.
type EventDevice struct {
	gw   *gateway.Gateway
	path string
	dev  *evdev.InputDevice

	name string
	id   evdev.InputID

	// ffFile is a separate write handle for force feedback uploads,
	// only present when the device advertises FF_RUMBLE.
	ffFile *os.File

	routes map[descriptor]eventRoute

	closeOnce sync.Once
	closeErr  error
}

func openEventDevice(gw *gateway.Gateway, path string) (*EventDevice, error) {
	dev, err := gateway.Call(gw, func() (*evdev.InputDevice, error) {
		return evdev.Open(path)
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	d := &EventDevice{
		gw:     gw,
		path:   path,
		dev:    dev,
		routes: make(map[descriptor]eventRoute),
	}
	err = gw.Do(func() error {
		name, err := dev.Name()
		if err != nil {
			return err
		}
		d.name = strings.Trim(name, "\x00")
		id, err := dev.InputID()
		if err != nil {
			return err
		}
		d.id = id
		return dev.NonBlock()
	})
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("querying %s: %w", path, err)
	}
	return d, nil
}

func (d *EventDevice) Name() string { return d.name }
func (d *EventDevice) Path() string { return d.path }

// rawComponents lists everything the device's capability bitmaps
// declare, in deterministic order: buttons and keys first, then
// absolute axes, then relative axes.
func (d *EventDevice) rawComponents() ([]rawComponent, error) {
	var raws []rawComponent
	err := d.gw.Do(func() error {
		types := make(map[evdev.EvType]bool)
		for _, t := range d.dev.CapableTypes() {
			types[t] = true
		}

		if types[evdev.EV_KEY] {
			for _, code := range sortedCodes(d.dev.CapableEvents(evdev.EV_KEY)) {
				id := ButtonIdentifier(code)
				if id == Unidentified {
					id = KeyIdentifier(code)
				}
				raws = append(raws, rawComponent{
					desc: descriptor{typ: evdev.EV_KEY, code: code},
					id:   id,
				})
			}
		}
		if types[evdev.EV_ABS] {
			infos, err := d.dev.AbsInfos()
			if err != nil {
				return err
			}
			for _, code := range sortedCodes(d.dev.CapableEvents(evdev.EV_ABS)) {
				raws = append(raws, rawComponent{
					desc: descriptor{typ: evdev.EV_ABS, code: code},
					id:   AbsAxisIdentifier(code),
					abs:  infos[code],
				})
			}
		}
		if types[evdev.EV_REL] {
			for _, code := range sortedCodes(d.dev.CapableEvents(evdev.EV_REL)) {
				raws = append(raws, rawComponent{
					desc: descriptor{typ: evdev.EV_REL, code: code},
					id:   RelAxisIdentifier(code),
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading capabilities of %s: %w", d.path, err)
	}
	return raws, nil
}

// supportsRumble checks the force feedback bitmap for the rumble
// effect.
func (d *EventDevice) supportsRumble() bool {
	var ok bool
	_ = d.gw.Do(func() error {
		for _, t := range d.dev.CapableTypes() {
			if t != evdev.EV_FF {
				continue
			}
			for _, code := range d.dev.CapableEvents(evdev.EV_FF) {
				if code == evdev.EvCode(FF_RUMBLE) {
					ok = true
				}
			}
		}
		return nil
	})
	return ok
}

// register maps a native descriptor to the component consuming its
// events. Each descriptor belongs to exactly one component.
func (d *EventDevice) register(desc descriptor, r eventRoute) {
	d.routes[desc] = r
}

// poll drains all pending events without blocking and routes them to
// the registered components.
func (d *EventDevice) poll() error {
	return d.gw.Do(func() error {
		for {
			ev, err := d.dev.ReadOne()
			if err != nil {
				if errors.Is(err, syscall.EAGAIN) || errors.Is(err, io.EOF) {
					return nil
				}
				return fmt.Errorf("reading %s: %w", d.path, err)
			}
			desc := descriptor{typ: ev.Type, code: ev.Code}
			if r, ok := d.routes[desc]; ok {
				r.route(desc, ev.Value)
			}
		}
	})
}

// controllerID builds the hardware fingerprint from the kernel input
// ID.
func (d *EventDevice) controllerID(t Type) ControllerID {
	return ControllerID{
		Type:    strings.ToLower(t.String()),
		BusType: busName(d.id.BusType),
		Vendor:  fmt.Sprintf("%04x", d.id.Vendor),
		Device:  fmt.Sprintf("%04x", d.id.Product),
		Version: fmt.Sprintf("%04x", d.id.Version),
	}
}

// Close releases the native handles. Safe to call more than once, only
// the first call does the work.
func (d *EventDevice) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.gw.Do(func() error {
			err := d.dev.Close()
			if d.ffFile != nil {
				if ffErr := d.ffFile.Close(); err == nil {
					err = ffErr
				}
			}
			return err
		})
	})
	return d.closeErr
}

// eventComponent is a plain axis, button or key backed by one
// descriptor of an event device.
type eventComponent struct {
	id       Identifier
	desc     descriptor
	abs      evdev.AbsInfo
	deadZone float32
	val      value32
}

func newEventComponent(raw *rawComponent, deadZone float32) *eventComponent {
	c := &eventComponent{
		id:   raw.id,
		desc: raw.desc,
		abs:  raw.abs,
	}
	if raw.desc.typ == evdev.EV_ABS {
		if deadZone >= 0 {
			c.deadZone = deadZone
		} else if span := raw.abs.Maximum - raw.abs.Minimum; span > 0 {
			c.deadZone = 2 * float32(raw.abs.Flat) / float32(span)
		}
	}
	return c
}

func (c *eventComponent) ID() Identifier { return c.id }
func (c *eventComponent) Name() string   { return c.id.Name() }

func (c *eventComponent) Relative() bool {
	return c.desc.typ == evdev.EV_REL
}

func (c *eventComponent) Analog() bool {
	return c.desc.typ != evdev.EV_KEY
}

func (c *eventComponent) DeadZone() float32 { return c.deadZone }
func (c *eventComponent) Value() float32    { return c.val.get() }

func (c *eventComponent) route(_ descriptor, value int32) {
	c.val.set(c.convert(value))
}

func (c *eventComponent) convert(v int32) float32 {
	switch c.desc.typ {
	case evdev.EV_KEY:
		if v != 0 {
			return 1
		}
		return 0
	case evdev.EV_ABS:
		return normalizeAbs(c.abs, v)
	default:
		return float32(v)
	}
}

// normalizeAbs maps a raw absolute value onto [-1, 1] using the
// device's calibration range.
func normalizeAbs(abs evdev.AbsInfo, v int32) float32 {
	span := abs.Maximum - abs.Minimum
	if span <= 0 {
		return float32(v)
	}
	return 2*float32(v-abs.Minimum)/float32(span) - 1
}

// eventPOV is a hat switch synthesized from one X and one Y raw axis.
// Both descriptors route into it.
type eventPOV struct {
	xDesc, yDesc descriptor

	mu   sync.Mutex
	x, y int32
	val  value32
}

func newEventPOV(x, y *rawComponent) *eventPOV {
	return &eventPOV{xDesc: x.desc, yDesc: y.desc}
}

func (p *eventPOV) ID() Identifier     { return AxisPOV }
func (p *eventPOV) Name() string       { return AxisPOV.Name() }
func (p *eventPOV) Relative() bool     { return false }
func (p *eventPOV) Analog() bool       { return false }
func (p *eventPOV) DeadZone() float32  { return 0 }
func (p *eventPOV) Value() float32     { return p.val.get() }

func (p *eventPOV) route(desc descriptor, value int32) {
	p.mu.Lock()
	if desc == p.xDesc {
		p.x = value
	} else {
		p.y = value
	}
	p.val.set(povValue(int(p.x), int(p.y)))
	p.mu.Unlock()
}
