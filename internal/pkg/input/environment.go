// Package input discovers game controllers, mice and keyboards through
// the two Linux input interfaces, folds both views into one controller
// set and serializes all native device access onto a single worker.
package input

import (
	"io"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/joyenv/joyenv/internal/pkg/gateway"
	"github.com/joyenv/joyenv/internal/pkg/logger"
)

// Environment is the process-wide registry of discovered controllers.
// One lock guards both the controller list and the open device
// registry.
type Environment struct {
	log *zap.Logger
	gw  *gateway.Gateway

	supported bool
	eventDir  string
	jsDirs    []string
	profiles  Profiles

	mu          sync.Mutex
	closed      bool
	controllers []*Controller
	devices     []io.Closer
}

type Option func(*Environment)

// WithLogger replaces the default process logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Environment) { e.log = l }
}

// WithEventDir overrides the generic input device directory.
func WithEventDir(dir string) Option {
	return func(e *Environment) { e.eventDir = dir }
}

// WithJoystickDirs overrides the legacy joystick directories, scanned
// in order with fallback.
func WithJoystickDirs(dirs ...string) Option {
	return func(e *Environment) { e.jsDirs = dirs }
}

// WithProfiles installs calibration overrides applied during
// discovery.
func WithProfiles(p Profiles) Option {
	return func(e *Environment) { e.profiles = p }
}

// New probes platform support once, then runs the initial scan. On an
// unsupported host the environment stays usable and simply reports
// zero controllers.
func New(opts ...Option) *Environment {
	e := &Environment{
		log:      logger.GetLogger(),
		gw:       gateway.New(),
		eventDir: "/dev/input",
		jsDirs:   []string{"/dev/input", "/dev"},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.supported = probeSupport()
	if !e.supported {
		e.log.Info("native input support unavailable on this host",
			zap.String("os", runtime.GOOS), zap.String("arch", runtime.GOARCH))
		return e
	}

	e.mu.Lock()
	e.scanLocked()
	e.mu.Unlock()
	return e
}

// probeSupport decides once per process whether the host exposes the
// kernel interfaces this package needs.
func probeSupport() bool {
	return runtime.GOOS == "linux"
}

// Supported reports the result of the one-time platform probe.
func (e *Environment) Supported() bool { return e.supported }

// Controllers returns a snapshot of the current controller set. The
// returned slice is a copy, callers may do with it as they please.
func (e *Environment) Controllers() []*Controller {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Controller, len(e.controllers))
	copy(out, e.controllers)
	return out
}

// Rescan closes every open device and re-runs the full discovery and
// merge pipeline. The new list is installed atomically; the call
// returns once it is.
func (e *Environment) Rescan() {
	if !e.supported {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closeDevicesLocked()
	e.scanLocked()
}

// Close stops every rumbler, closes every open device exactly once and
// freezes the controller list empty. Subsequent calls are no-ops.
func (e *Environment) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	for _, c := range e.controllers {
		for _, r := range c.Rumblers() {
			if err := r.detach(); err != nil {
				e.log.Warn("failed to stop rumbler", zap.String("name", r.Name()), zap.Error(err))
			}
		}
	}
	e.closeDevicesLocked()
	e.controllers = nil
	return nil
}

func (e *Environment) scanLocked() {
	evb := &eventBackend{gw: e.gw, log: e.log, dir: e.eventDir, profiles: e.profiles}
	jsb := &joystickBackend{gw: e.gw, log: e.log, dirs: e.jsDirs}

	evControllers, evDevices := evb.enumerate()
	jsControllers, jsDevices := jsb.enumerate()

	e.controllers = mergeControllers(evControllers, jsControllers)
	e.devices = append(evDevices, jsDevices...)
	e.log.Info("scan complete",
		zap.Int("event_controllers", len(evControllers)),
		zap.Int("joystick_controllers", len(jsControllers)),
		zap.Int("controllers", len(e.controllers)),
	)
}

// closeDevicesLocked closes all registered devices best-effort. Every
// device tolerates double close, failures never block the remaining
// ones.
func (e *Environment) closeDevicesLocked() {
	for _, dev := range e.devices {
		if err := dev.Close(); err != nil {
			e.log.Warn("failed to close device", zap.Error(err))
		}
	}
	e.devices = nil
}
