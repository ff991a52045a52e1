package control

import (
	"math"

	"github.com/pkg/errors"

	"github.com/plarailers/ptc-core/internal/topology"
)

// atpMargin is subtracted from the raw gap to a forward train or a blocked
// switch before it becomes the ATP stop distance, so a train is commanded to
// stop short of the hazard rather than flush against it.
const atpMargin = 10.0

// trainPositions snapshots every train's current location as a
// topology.TrainPosition, for use by ForwardTrain.
func (s *Supervisor) trainPositions() map[topology.TrainID]topology.TrainPosition {
	out := make(map[topology.TrainID]topology.TrainPosition, len(s.State.Trains))
	for id, t := range s.State.Trains {
		out[id] = topology.TrainPosition{Section: t.CurrentSection, TargetJunction: t.TargetJunction, Mileage: t.Mileage}
	}
	return out
}

// atpStopDistance computes the distance-to-stop used as the ATP ceiling for
// one train: the clearance to whichever hazard comes first along the walk --
// the entry of a blocked section, the tail of the train ahead, or a junction
// not open to this approach.
//
// Hazards are checked per visited section, in travel order, so a nearer
// hazard always wins: a lone train on a closed loop is its own forward train
// at the full loop length, and that must not mask a blockage in between.
func (s *Supervisor) atpStopDistance(id topology.TrainID, trains map[topology.TrainID]topology.TrainPosition) (float64, error) {
	train := s.State.Trains[id]

	var noseDistance float64
	forwardFound := false
	if _, d, found, err := topology.ForwardTrain(s.Config, s.State, id, trains, s.maxHops()); err != nil {
		return 0, errors.Wrapf(err, "train %q: forward train search", id)
	} else if found {
		noseDistance = d
		forwardFound = true
	}

	distance := 0.0
	currentSection := train.CurrentSection
	targetJunction := train.TargetJunction

	// An unobstructed closed loop never trips a halting condition below; the
	// walk is bounded by maxHops instead. Running out of hops is treated as
	// "nothing in the way": by then distance already exceeds anything the
	// speed limit can make use of.
	for hop := 0; hop <= s.maxHops(); hop++ {
		sec, ok := s.Config.Sections[currentSection]
		if !ok {
			return 0, errors.Errorf("train %q: section %q not defined", id, currentSection)
		}

		// A blocked section ahead stops the train at its entry. The train's
		// own section is exempt so a train already inside may finish its run.
		if currentSection != train.CurrentSection && s.State.Sections[currentSection].Blocked {
			break
		}

		span, err := s.boundaryOrLength(sec, targetJunction, train, currentSection)
		if err != nil {
			return 0, err
		}

		// The train ahead halts the walk once its nose falls within this
		// section's span. ForwardTrain measured noseDistance over the same
		// strict hops this walk takes, so comparing it to the accumulated
		// distance decides whether it belongs to this section or a later one.
		if forwardFound && noseDistance <= distance+span {
			d := noseDistance - trainLength - atpMargin
			if d < 0 {
				d = 0
			}
			return d, nil
		}

		nextSection, nextTargetJunction, open, err := topology.NextHopStrict(s.Config, s.State, currentSection, targetJunction)
		if err != nil {
			return 0, errors.Wrapf(err, "train %q: atp stop search", id)
		}
		if !open || s.State.Sections[nextSection].Blocked {
			distance += span - atpMargin
			break
		}

		distance += span
		currentSection, targetJunction = nextSection, nextTargetJunction
	}

	if distance < 0 {
		distance = 0
	}
	return distance, nil
}

// boundaryOrLength returns how much of currentSection lies ahead of the
// walk's current position: the remaining distance to the junction ahead on
// the train's own section (using its actual mileage), or the section's full
// length on any section visited afterward.
func (s *Supervisor) boundaryOrLength(sec topology.SectionConfig, targetJunction topology.JunctionID, train *TrainState, currentSection topology.SectionID) (float64, error) {
	if currentSection == train.CurrentSection {
		return topology.BoundaryDistance(sec, targetJunction, train.Mileage)
	}
	return sec.Length, nil
}

// maxHops bounds forward searches and the ATP walk; it must be at least the
// number of sections in the layout so that a legitimate full-loop search
// always completes.
func (s *Supervisor) maxHops() int {
	n := len(s.Config.Sections) * 2
	if n < 8 {
		n = 8
	}
	return n
}

// computeSpeed runs the ATP/ATO speed profiler for one tick, for every train
// in state, writing the smoothed speed command into Command.
func (s *Supervisor) computeSpeed() error {
	trains := s.trainPositions()

	for id, train := range s.State.Trains {
		atpDistance, err := s.atpStopDistance(id, trains)
		if err != nil {
			return err
		}

		limit := s.Profile.SpeedLimit(atpDistance)

		atoDistance := atpDistance
		if train.Stop != "" {
			atoDistance = math.Min(atpDistance, train.StopDistance)
		}
		if atoDistance < 0 {
			atoDistance = 0
		}

		target := s.Profile.ComfortSpeed(atoDistance, limit)

		prev := s.Command.Trains[id].Speed
		next := s.Profile.Smooth(prev, target)

		s.Command.Trains[id] = TrainCommand{Speed: next}
		s.logger.Debug("speed profile", "train", id, "atp_distance", atpDistance, "ato_distance", atoDistance, "speed", next)
	}
	return nil
}
