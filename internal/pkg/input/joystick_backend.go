package input

import (
	"io"
	"path/filepath"

	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"

	"github.com/joyenv/joyenv/internal/pkg/gateway"
)

// joystickBackend enumerates controllers through the legacy joystick
// interface. It tries the primary directory first and falls back to
// the secondary one when the primary yields nothing.
type joystickBackend struct {
	gw   *gateway.Gateway
	log  *zap.Logger
	dirs []string
}

func (b *joystickBackend) enumerate() ([]*Controller, []io.Closer) {
	var paths []string
	for _, dir := range b.dirs {
		for _, name := range listDeviceNames(b.log, dir, "js") {
			paths = append(paths, filepath.Join(dir, name))
		}
		if len(paths) > 0 {
			break
		}
	}

	var controllers []*Controller
	var devices []io.Closer
	for _, path := range paths {
		dev, err := openJoystickDevice(b.gw, path)
		if err != nil {
			b.log.Warn("skipping joystick device", zap.String("path", path), zap.Error(err))
			continue
		}
		ctrl := buildJoystickController(dev)
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

// buildJoystickController builds the component model from the device's
// axis and button maps. The interface carries no capability bitmaps, so
// every successfully opened device yields a stick shaped controller.
func buildJoystickController(dev *JoystickDevice) *Controller {
	var comps []Component

	for i, code := range dev.buttonMap {
		id := ButtonIdentifier(evdev.EvCode(code))
		if id == Unidentified {
			// unmapped codes are dropped, no identifier is invented
			continue
		}
		button := &joystickButton{id: id}
		dev.registerButton(uint8(i), button)
		comps = append(comps, button)
	}

	var slots povSlots[joystickAxis]
	for i, code := range dev.axisMap {
		absCode := evdev.EvCode(code)
		axis := &joystickAxis{id: AbsAxisIdentifier(absCode)}
		// hat halves still receive routed events even though only the
		// synthesized POV ends up in the component list
		dev.registerAxis(uint8(i), axis)
		if slots.observe(absCode, axis) {
			continue
		}
		if axis.id == Unidentified {
			continue
		}
		comps = append(comps, axis)
	}
	for _, pair := range slots.pairs() {
		comps = append(comps, &joystickPOV{x: pair.x, y: pair.y})
	}

	return &Controller{
		name:  dev.name,
		typ:   Stick,
		id:    ControllerID{Type: "stick"},
		comps: comps,
		dev:   dev,
	}
}
