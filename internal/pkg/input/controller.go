package input

import "fmt"

// Type tags a controller with its hardware family. The set is closed,
// Combined marks the merged view of one physical device seen through
// both kernel interfaces.
type Type int

const (
	Unknown Type = iota
	Mouse
	Keyboard
	Stick
	Gamepad
	Combined
)

func (t Type) String() string {
	switch t {
	case Mouse:
		return "Mouse"
	case Keyboard:
		return "Keyboard"
	case Stick:
		return "Stick"
	case Gamepad:
		return "Gamepad"
	case Combined:
		return "Combined"
	default:
		return "Unknown"
	}
}

// ControllerID is a stable hardware fingerprint. All five fields are
// opaque strings; two IDs denote the same hardware exactly when the
// struct values compare equal, which also makes the type usable as a
// map key.
type ControllerID struct {
	Type    string
	BusType string
	Vendor  string
	Device  string
	Version string
}

func (id ControllerID) String() string {
	return id.Type + ":" + id.BusType + ":" + id.Vendor + ":" + id.Device + ":" + id.Version
}

// poller is the device side of a controller, polled through the
// gateway. Combined controllers have none and fan out to children.
type poller interface {
	poll() error
}

// Controller is a named, typed aggregate of components and rumblers.
// Its structure is immutable after discovery: the merger may read the
// component list but nothing mutates it.
type Controller struct {
	name     string
	typ      Type
	id       ControllerID
	comps    []Component
	rumblers []*Rumbler
	children []*Controller
	dev      poller
}

func (c *Controller) Name() string     { return c.name }
func (c *Controller) Type() Type       { return c.typ }
func (c *Controller) ID() ControllerID { return c.id }

// Components returns the controller's components in discovery order.
// The returned slice is a copy, the backing list never changes.
func (c *Controller) Components() []Component {
	out := make([]Component, len(c.comps))
	copy(out, c.comps)
	return out
}

// Rumblers returns the force feedback actuators of this controller,
// including the ones of combined children.
func (c *Controller) Rumblers() []*Rumbler {
	var out []*Rumbler
	out = append(out, c.rumblers...)
	for _, ch := range c.children {
		out = append(out, ch.Rumblers()...)
	}
	return out
}

// Children returns the wrapped per-backend controllers of a combined
// controller, nil for plain ones.
func (c *Controller) Children() []*Controller {
	if len(c.children) == 0 {
		return nil
	}
	out := make([]*Controller, len(c.children))
	copy(out, c.children)
	return out
}

// Poll drains pending device events and updates component values.
// Combined controllers poll both children.
func (c *Controller) Poll() error {
	if c.dev != nil {
		return c.dev.poll()
	}
	for _, ch := range c.children {
		if err := ch.Poll(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) String() string {
	return fmt.Sprintf("[%s] %q, %d components, %d rumblers", c.typ, c.name, len(c.comps), len(c.rumblers))
}

// newCombinedController wraps the event and joystick backend views of
// one physical device. The component list is the union of both sides.
func newCombinedController(event, joystick *Controller) *Controller {
	comps := make([]Component, 0, len(event.comps)+len(joystick.comps))
	comps = append(comps, event.comps...)
	comps = append(comps, joystick.comps...)
	return &Controller{
		name:     event.name,
		typ:      Combined,
		id:       event.id,
		comps:    comps,
		children: []*Controller{event, joystick},
	}
}
