package topology

// JunctionDirections supplies the currently observed (or commanded, for
// purposes that need the switch director's own view) direction of every
// switch. Position arithmetic never mutates this; it only reads through the
// interface, so the topology package stays independent of the control
// package's State/Command types.
type JunctionDirections interface {
	Direction(j JunctionID) Direction
}

// Position is a point along a section: the heading (TargetJunction) and the
// signed distance from the section's junction_0 (Mileage), always in
// [0, section.Length].
type Position struct {
	Section        SectionID
	TargetJunction JunctionID
	Mileage        float64
}

// BoundaryDistance returns the remaining distance, in the direction of
// targetJunction, from mileage to targetJunction itself: heading toward
// junction_1 (mileage increases with travel) it is length-mileage; heading
// toward junction_0 (mileage decreases with travel) it is mileage. This is
// "how far to the junction ahead" for a position anywhere on the section,
// own mileage included (a forward search's own starting section; the ATP
// walk's own current section).
func BoundaryDistance(sec SectionConfig, targetJunction JunctionID, mileage float64) (float64, error) {
	switch targetJunction {
	case sec.Junction1:
		return sec.Length - mileage, nil
	case sec.Junction0:
		return mileage, nil
	default:
		return 0, violation("junction %q is not an endpoint of this section", targetJunction)
	}
}

// NextHop returns the section and new heading reached by crossing
// targetJunction: THROUGH and DIVERGING entries always converge; a
// CONVERGING entry exits THROUGH when the switch is STRAIGHT and DIVERGING
// when CURVE.
func NextHop(cfg *Config, dirs JunctionDirections, section SectionID, targetJunction JunctionID) (SectionID, JunctionID, error) {
	j, ok := cfg.Junctions[targetJunction]
	if !ok {
		return "", "", violation("junction %q not defined", targetJunction)
	}

	var nextSection SectionID
	switch section {
	case j.Joints[THROUGH]:
		nextSection = j.Joints[CONVERGING]
	case j.Joints[DIVERGING]:
		nextSection = j.Joints[CONVERGING]
	case j.Joints[CONVERGING]:
		switch dirs.Direction(targetJunction) {
		case STRAIGHT:
			nextSection = j.Joints[THROUGH]
		case CURVE:
			nextSection = j.Joints[DIVERGING]
		}
	default:
		return "", "", violation("section %q is not attached to junction %q", section, targetJunction)
	}

	nextSectionConfig, ok := cfg.Sections[nextSection]
	if !ok {
		return "", "", violation("junction %q joint references undefined section %q", targetJunction, nextSection)
	}
	nextTargetJunction, err := nextSectionConfig.Opposite(targetJunction)
	if err != nil {
		return "", "", err
	}
	return nextSection, nextTargetJunction, nil
}

// NextHopStrict is NextHop, but returns ok=false instead of crossing when the
// switch is not aligned with the train's approach (entering THROUGH with the
// switch CURVE, or DIVERGING with the switch STRAIGHT). This is not an error:
// it is how forward searches detect a misaligned point ahead.
func NextHopStrict(cfg *Config, dirs JunctionDirections, section SectionID, targetJunction JunctionID) (SectionID, JunctionID, bool, error) {
	j, ok := cfg.Junctions[targetJunction]
	if !ok {
		return "", "", false, violation("junction %q not defined", targetJunction)
	}

	var nextSection SectionID
	switch section {
	case j.Joints[THROUGH]:
		if dirs.Direction(targetJunction) != STRAIGHT {
			return "", "", false, nil
		}
		nextSection = j.Joints[CONVERGING]
	case j.Joints[DIVERGING]:
		if dirs.Direction(targetJunction) != CURVE {
			return "", "", false, nil
		}
		nextSection = j.Joints[CONVERGING]
	case j.Joints[CONVERGING]:
		switch dirs.Direction(targetJunction) {
		case STRAIGHT:
			nextSection = j.Joints[THROUGH]
		case CURVE:
			nextSection = j.Joints[DIVERGING]
		}
	default:
		return "", "", false, violation("section %q is not attached to junction %q", section, targetJunction)
	}

	nextSectionConfig, ok := cfg.Sections[nextSection]
	if !ok {
		return "", "", false, violation("junction %q joint references undefined section %q", targetJunction, nextSection)
	}
	nextTargetJunction, err := nextSectionConfig.Opposite(targetJunction)
	if err != nil {
		return "", "", false, err
	}
	return nextSection, nextTargetJunction, true, nil
}

// Advance moves pos by delta along its current heading, crossing as many
// sections as needed. A positive delta moves toward TargetJunction; a
// negative delta is reverse motion away from it, and a boundary crossed in
// reverse leads onto the section beyond the junction behind the train, with
// the heading kept facing that junction. Each crossing carries only the
// non-negative surplus beyond the boundary onto the next section, so the
// loop terminates once the surplus fits within a section.
func Advance(cfg *Config, dirs JunctionDirections, pos Position, delta float64) (Position, error) {
	sec, ok := cfg.Sections[pos.Section]
	if !ok {
		return Position{}, violation("section %q not defined", pos.Section)
	}

	switch pos.TargetJunction {
	case sec.Junction1:
		pos.Mileage += delta
	case sec.Junction0:
		pos.Mileage -= delta
	default:
		return Position{}, violation("junction %q is not an endpoint of section %q", pos.TargetJunction, pos.Section)
	}

	for pos.Mileage > sec.Length || pos.Mileage < 0 {
		var surplus float64
		var crossed JunctionID
		if pos.Mileage > sec.Length {
			surplus = pos.Mileage - sec.Length
			crossed = sec.Junction1
		} else {
			surplus = -pos.Mileage
			crossed = sec.Junction0
		}
		reversing := crossed != pos.TargetJunction

		nextSection, nextTargetJunction, err := NextHop(cfg, dirs, pos.Section, crossed)
		if err != nil {
			return Position{}, err
		}

		pos.Section = nextSection
		pos.TargetJunction = nextTargetJunction
		sec, ok = cfg.Sections[nextSection]
		if !ok {
			return Position{}, violation("section %q not defined", nextSection)
		}

		switch pos.TargetJunction {
		case sec.Junction1:
			pos.Mileage = surplus
		case sec.Junction0:
			pos.Mileage = sec.Length - surplus
		default:
			return Position{}, violation("junction %q is not an endpoint of section %q", pos.TargetJunction, pos.Section)
		}
		if reversing {
			pos.TargetJunction = crossed
		}
	}

	return pos, nil
}
