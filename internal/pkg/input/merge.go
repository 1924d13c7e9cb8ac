package input

// mergeControllers reconciles the two backend views into the final
// controller set. The same physical hardware is commonly visible
// through both kernel interfaces at once; a pair is combined when the
// names match and the ordered identifier sequences are identical.
//
// The scan is a single pass, event side outer, joystick side inner,
// first match wins. Two physically distinct devices sharing a name and
// component shape can therefore pair up wrongly; the original behavior
// is kept for compatibility.
func mergeControllers(event, joystick []*Controller) []*Controller {
	usedEvent := make(map[int]bool)
	usedJoystick := make(map[int]bool)

	var out []*Controller
	for i, ev := range event {
		for j, js := range joystick {
			if usedJoystick[j] {
				continue
			}
			if !sameShape(ev, js) {
				continue
			}
			out = append(out, newCombinedController(ev, js))
			usedEvent[i] = true
			usedJoystick[j] = true
			break
		}
	}
	for i, ev := range event {
		if !usedEvent[i] {
			out = append(out, ev)
		}
	}
	for j, js := range joystick {
		if !usedJoystick[j] {
			out = append(out, js)
		}
	}
	return out
}

// sameShape reports whether two controllers look like the same physical
// device: equal names, equal component count and pairwise identical
// identifiers. Comparison is order sensitive, no reordering.
func sameShape(a, b *Controller) bool {
	if a.name != b.name {
		return false
	}
	if len(a.comps) != len(b.comps) {
		return false
	}
	for i := range a.comps {
		if a.comps[i].ID() != b.comps[i].ID() {
			return false
		}
	}
	return true
}
