package input

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"

	"github.com/joyenv/joyenv/internal/pkg/gateway"
)

// eventBackend enumerates controllers through the generic input device
// interface.
type eventBackend struct {
	gw       *gateway.Gateway
	log      *zap.Logger
	dir      string
	profiles Profiles
}

// enumerate opens every event device under the backend directory and
// yields a controller for each one exposing usable components. Open
// failures are contained per device, the scan always completes.
func (b *eventBackend) enumerate() ([]*Controller, []io.Closer) {
	names := listDeviceNames(b.log, b.dir, "event")

	var controllers []*Controller
	var devices []io.Closer
	for _, name := range names {
		path := filepath.Join(b.dir, name)
		dev, err := openEventDevice(b.gw, path)
		if err != nil {
			b.log.Warn("skipping event device", zap.String("path", path), zap.Error(err))
			continue
		}
		ctrl, err := b.createController(dev)
		if err != nil {
			b.log.Warn("failed to create controller", zap.String("path", path), zap.Error(err))
			_ = dev.Close()
			continue
		}
		if ctrl == nil {
			_ = dev.Close()
			continue
		}
		b.log.Info("discovered controller",
			zap.String("name", ctrl.Name()),
			zap.Stringer("type", ctrl.Type()),
			zap.String("path", path),
		)
		controllers = append(controllers, ctrl)
		devices = append(devices, dev)
	}
	return controllers, devices
}

// createController classifies the device and builds its component
// model. A nil controller means the device is not usable as one.
func (b *eventBackend) createController(dev *EventDevice) (*Controller, error) {
	raws, err := dev.rawComponents()
	if err != nil {
		return nil, err
	}
	typ := classifyEventDevice(raws)

	comps := b.buildComponents(dev, raws)
	if len(comps) == 0 {
		return nil, nil
	}

	switch typ {
	case Mouse:
		// a mouse candidate must at least carry X, Y and a primary
		// button
		if !hasComponent(comps, AxisX) || !hasComponent(comps, AxisY) || !hasComponent(comps, ButtonLeft) {
			return nil, nil
		}
	case Keyboard, Stick, Gamepad:
	default:
		return nil, nil
	}

	var rumblers []*Rumbler
	if dev.supportsRumble() {
		r, err := newRumbler(dev)
		if err != nil {
			b.log.Warn("force feedback unavailable", zap.String("path", dev.path), zap.Error(err))
		} else {
			rumblers = append(rumblers, r)
		}
	}

	return &Controller{
		name:     dev.name,
		typ:      typ,
		id:       dev.controllerID(typ),
		comps:    comps,
		rumblers: rumblers,
		dev:      dev,
	}, nil
}

// buildComponents turns raw descriptors into typed components. Hat
// halves are collected into the four POV slots and realized only when
// both halves were observed; everything the taxonomy cannot identify is
// dropped.
func (b *eventBackend) buildComponents(dev *EventDevice, raws []rawComponent) []Component {
	deadZone := b.profiles.DeadZone(dev.name)

	var slots povSlots[rawComponent]
	var comps []Component
	for i := range raws {
		raw := &raws[i]
		if raw.id == AxisPOV && raw.desc.typ == evdev.EV_ABS {
			if !slots.observe(raw.desc.code, raw) {
				b.log.Debug("unknown POV instance", zap.Uint16("code", uint16(raw.desc.code)))
			}
			continue
		}
		if raw.id == Unidentified {
			continue
		}
		c := newEventComponent(raw, deadZone)
		comps = append(comps, c)
		dev.register(c.desc, c)
	}
	for _, pair := range slots.pairs() {
		pov := newEventPOV(pair.x, pair.y)
		comps = append(comps, pov)
		dev.register(pair.x.desc, pov)
		dev.register(pair.y.desc, pov)
	}
	return comps
}

// classifyEventDevice derives the controller type from the component
// families present in the capability bitmaps.
func classifyEventDevice(raws []rawComponent) Type {
	var padButtons, stickButtons, mouseButtons, keys int
	var relX, relY bool
	for _, raw := range raws {
		switch raw.desc.typ {
		case evdev.EV_KEY:
			switch {
			case raw.desc.code >= evdev.BTN_SOUTH && raw.desc.code <= evdev.BTN_THUMBR:
				padButtons++
			case raw.desc.code >= evdev.BTN_TRIGGER && raw.desc.code <= evdev.BTN_DEAD:
				stickButtons++
			case raw.desc.code >= evdev.BTN_LEFT && raw.desc.code <= evdev.BTN_TASK:
				mouseButtons++
			case raw.desc.code < evdev.BTN_0:
				keys++
			}
		case evdev.EV_REL:
			switch raw.desc.code {
			case evdev.REL_X:
				relX = true
			case evdev.REL_Y:
				relY = true
			}
		}
	}

	switch {
	case padButtons > 0:
		return Gamepad
	case stickButtons > 0:
		return Stick
	case relX && relY && mouseButtons > 0:
		return Mouse
	case keys > 0:
		return Keyboard
	default:
		return Unknown
	}
}

func hasComponent(comps []Component, id Identifier) bool {
	for _, c := range comps {
		if c.ID() == id {
			return true
		}
	}
	return false
}

// listDeviceNames lists entries under dir carrying the given name
// prefix, sorted lexicographically so enumeration order is stable
// across runs. Listing failures count as zero entries.
func listDeviceNames(log *zap.Logger, dir, prefix string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("listing device directory failed", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}
