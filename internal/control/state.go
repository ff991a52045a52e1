// Package control implements the decision engine proper: observed state,
// desired commands, the switch director, the per-train stop tracker, the
// ATP/ATO speed profiler, and the Supervisor orchestrator that ties them
// together into a single update per control tick.
package control

import "github.com/plarailers/ptc-core/internal/topology"

// JunctionState is the observed alignment of a switch, as confirmed by an
// actuator (via UpdateJunction), not merely requested.
type JunctionState struct {
	Direction topology.Direction
}

// SectionState is the observed blockage of a section.
type SectionState struct {
	Blocked bool
}

// TrainState is everything sensed or derived about one train: its position,
// and its stop-tracker bookkeeping.
type TrainState struct {
	CurrentSection topology.SectionID
	TargetJunction topology.JunctionID
	Mileage        float64

	// Stop is the train's current stop target, or "" if none is tracked.
	Stop         topology.StopID
	StopDistance float64
	// DepartureTime is the tick at which dwell ends and the tracker may
	// advance to the next stop target; nil while not dwelling.
	DepartureTime *int
}

// State is the observed world: everything sensed about the layout, plus the
// global clock.
type State struct {
	Junctions map[topology.JunctionID]*JunctionState
	Sections  map[topology.SectionID]*SectionState
	Trains    map[topology.TrainID]*TrainState
	Time      int
}

// NewState builds a State with every junction and section from cfg
// initialised (junctions default to STRAIGHT, sections to unblocked) and no
// trains yet placed; trains are added with PlaceTrain.
func NewState(cfg *topology.Config) *State {
	s := &State{
		Junctions: make(map[topology.JunctionID]*JunctionState, len(cfg.Junctions)),
		Sections:  make(map[topology.SectionID]*SectionState, len(cfg.Sections)),
		Trains:    make(map[topology.TrainID]*TrainState),
	}
	for id := range cfg.Junctions {
		s.Junctions[id] = &JunctionState{Direction: topology.STRAIGHT}
	}
	for id := range cfg.Sections {
		s.Sections[id] = &SectionState{}
	}
	return s
}

// PlaceTrain adds (or re-places) a train at an explicit position, bypassing
// the stored position tags used by PutTrain. Used to seed initial train
// positions, which are state, not config: a train's min/max motor input and
// speed live in Config, but its current section, heading and mileage are
// State.
func (s *State) PlaceTrain(id topology.TrainID, section topology.SectionID, targetJunction topology.JunctionID, mileage float64) {
	s.Trains[id] = &TrainState{CurrentSection: section, TargetJunction: targetJunction, Mileage: mileage}
}

// Direction implements topology.JunctionDirections: position arithmetic and
// forward search consult the observed switch state, never the desired
// command, so that they never advance a train along a path that has been
// requested but not yet confirmed actuated.
func (s *State) Direction(j topology.JunctionID) topology.Direction {
	js, ok := s.Junctions[j]
	if !ok {
		return topology.STRAIGHT
	}
	return js.Direction
}

var _ topology.JunctionDirections = (*State)(nil)
