package control

import (
	"github.com/pkg/errors"

	"github.com/plarailers/ptc-core/internal/topology"
)

// The switch director's pattern table and guard logic are written against
// the fixed four-junction loop-with-two-sidings layout: the junction and
// section IDs below are literal, not derived from Config. A layout other
// than topology.DefaultConfig's is outside this table's scope; generalising
// it to an arbitrary layout is not attempted here.
const (
	junctionLoopEntry  topology.JunctionID = "j0"
	junctionLoopMiddle topology.JunctionID = "j1"
	junctionLoopFar    topology.JunctionID = "j2"
	junctionLoopExit   topology.JunctionID = "j3"

	sectionSpur    topology.SectionID = "s1"
	sectionBypass  topology.SectionID = "s3"
	sectionSidingA topology.SectionID = "s4"
	sectionSidingB topology.SectionID = "s5"
)

// trainLength and toggleMargin bound the toggle-prohibited zone behind a
// train's tail: a switch may not be thrown underneath a train that is still
// within trainLength+toggleMargin of having cleared it.
const (
	trainLength  = 60.0
	toggleMargin = 40.0
)

// pattern is one row of the switch director's table: the alignment every
// junction should take when the pattern is selected.
type pattern map[topology.JunctionID]topology.Direction

var patterns = map[int]pattern{
	1: {junctionLoopEntry: topology.STRAIGHT, junctionLoopMiddle: topology.STRAIGHT, junctionLoopFar: topology.STRAIGHT, junctionLoopExit: topology.STRAIGHT},
	2: {junctionLoopEntry: topology.CURVE, junctionLoopMiddle: topology.CURVE, junctionLoopFar: topology.STRAIGHT, junctionLoopExit: topology.STRAIGHT},
	3: {junctionLoopEntry: topology.CURVE, junctionLoopMiddle: topology.STRAIGHT, junctionLoopFar: topology.CURVE, junctionLoopExit: topology.STRAIGHT},
	4: {junctionLoopEntry: topology.CURVE, junctionLoopMiddle: topology.CURVE, junctionLoopFar: topology.CURVE, junctionLoopExit: topology.CURVE},
}

// directorLayoutPresent reports whether cfg contains every junction and
// section the pattern table names. On any other layout the director has
// nothing to direct and Update leaves junction commands untouched.
func directorLayoutPresent(cfg *topology.Config) bool {
	for _, j := range []topology.JunctionID{junctionLoopEntry, junctionLoopMiddle, junctionLoopFar, junctionLoopExit} {
		if _, ok := cfg.Junctions[j]; !ok {
			return false
		}
	}
	for _, sec := range []topology.SectionID{sectionSpur, sectionBypass, sectionSidingA, sectionSidingB} {
		if _, ok := cfg.Sections[sec]; !ok {
			return false
		}
	}
	return true
}

// selectPattern picks one of the four patterns from the trains' and
// sections' observed state. The guard list is evaluated in order; the first
// matching rule wins.
func selectPattern(state *State) (int, error) {
	blocked := state.Sections[sectionBypass].Blocked

	var spurTowardMiddle, spurTowardExit, sidingAOccupied, sidingBOccupied bool
	for _, t := range state.Trains {
		switch {
		case t.CurrentSection == sectionSpur && t.TargetJunction == junctionLoopMiddle:
			spurTowardMiddle = true
		case t.CurrentSection == sectionSpur && t.TargetJunction == junctionLoopExit:
			spurTowardExit = true
		}
		if t.CurrentSection == sectionSidingA {
			sidingAOccupied = true
		}
		if t.CurrentSection == sectionSidingB {
			sidingBOccupied = true
		}
	}

	if blocked {
		switch {
		case !spurTowardMiddle && (spurTowardExit || !sidingBOccupied):
			return 3, nil
		case spurTowardMiddle || (!spurTowardExit && sidingBOccupied):
			return 4, nil
		default:
			return 0, ErrInconsistentWorld
		}
	}

	switch {
	case !spurTowardMiddle && !sidingAOccupied && !sidingBOccupied:
		return 1, nil
	case (spurTowardMiddle || sidingAOccupied) && !sidingBOccupied:
		return 2, nil
	case !spurTowardMiddle && (spurTowardExit || !sidingBOccupied):
		return 3, nil
	case !spurTowardExit && sidingBOccupied:
		return 4, nil
	default:
		return 0, ErrInconsistentWorld
	}
}

// toggleProhibited reports whether junction must not be re-thrown this tick:
// true when some train's nose is less than trainLength+toggleMargin past
// junction (its tail has not yet cleared it by toggleMargin), and the train
// is not itself heading toward junction.
func toggleProhibited(cfg *topology.Config, state *State, junction topology.JunctionID) (bool, error) {
	for _, t := range state.Trains {
		sec, ok := cfg.Sections[t.CurrentSection]
		if !ok {
			return false, errors.Errorf("toggle_prohibited: section %q not defined", t.CurrentSection)
		}
		tailHeading, err := sec.Opposite(t.TargetJunction)
		if err != nil {
			return false, err
		}
		tailPos, err := topology.Advance(cfg, state, topology.Position{
			Section:        t.CurrentSection,
			TargetJunction: tailHeading,
			Mileage:        t.Mileage,
		}, trainLength+toggleMargin)
		if err != nil {
			return false, err
		}
		tailSec, ok := cfg.Sections[tailPos.Section]
		if !ok {
			return false, errors.Errorf("toggle_prohibited: section %q not defined", tailPos.Section)
		}
		tailJunction, err := tailSec.Opposite(tailPos.TargetJunction)
		if err != nil {
			return false, err
		}
		if t.TargetJunction != junction && tailJunction == junction {
			return true, nil
		}
	}
	return false, nil
}

// applyDirector runs the switch director for one tick: selects a pattern and
// writes each junction's desired direction into Command, skipping any
// junction for which toggleProhibited holds.
func (s *Supervisor) applyDirector() error {
	if !directorLayoutPresent(s.Config) {
		s.logger.Debug("switch director skipped", "reason", "layout lacks the pattern table's junctions")
		return nil
	}
	id, err := selectPattern(s.State)
	if err != nil {
		return errors.Wrap(err, "switch director")
	}
	s.logger.Debug("switch pattern selected", "pattern", id)
	s.metrics.SwitchPattern.Set(float64(id))
	for junction, direction := range patterns[id] {
		prohibited, err := toggleProhibited(s.Config, s.State, junction)
		if err != nil {
			return errors.Wrap(err, "switch director")
		}
		if prohibited {
			continue
		}
		s.Command.Junctions[junction] = JunctionCommand{Direction: direction}
	}
	return nil
}
