package control

import (
	"github.com/pkg/errors"
	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/plarailers/ptc-core/internal/kinematics"
	"github.com/plarailers/ptc-core/internal/logging"
	"github.com/plarailers/ptc-core/internal/metrics"
	"github.com/plarailers/ptc-core/internal/topology"
)

// Supervisor is the whole decision engine: the immutable layout, the
// observed and desired worlds, and the one Update that advances them. It is
// the thing every ingress operation and every adapter (CLI, wasm) is built
// against.
type Supervisor struct {
	Config  *topology.Config
	State   *State
	Command *Command
	Profile kinematics.SpeedProfile

	logger  log.Logger
	metrics *metrics.Registry
}

// NewSupervisor builds a Supervisor over cfg, with a fresh State (no trains
// placed -- see PlaceTrain/PutTrain) and Command, the default ATP/ATO speed
// profile, and a logger scoped to this package.
func NewSupervisor(cfg *topology.Config, root log.Logger) *Supervisor {
	if root == nil {
		root = logging.New("info")
	}
	profile := kinematics.DefaultConstantProfile()
	return &Supervisor{
		Config:  cfg,
		State:   NewState(cfg),
		Command: NewCommand(cfg),
		Profile: profile,
		logger:  logging.Module(root, "control"),
		metrics: metrics.NewRegistry(),
	}
}

// Metrics returns the supervisor's prometheus registry, for a host process
// to merge into its own.
func (s *Supervisor) Metrics() *metrics.Registry { return s.metrics }

// Tick advances the global clock by n ticks (at least 1) without otherwise
// changing anything; callers run Update after Tick to actually recompute
// commands for the new time.
func (s *Supervisor) Tick(n int) {
	if n < 1 {
		n = 1
	}
	s.State.Time += n
	s.metrics.Ticks.Add(float64(n))
	s.logger.Debug("tick", "time", s.State.Time)
}

// BlockSection marks a section as observed-blocked.
func (s *Supervisor) BlockSection(id topology.SectionID) {
	s.State.Sections[id].Blocked = true
}

// UnblockSection clears a section's observed-blocked flag.
func (s *Supervisor) UnblockSection(id topology.SectionID) {
	s.State.Sections[id].Blocked = false
}

// ToggleJunction requests a switch alignment directly (operator override).
// It writes only the desired direction; actuation stays with the adapter
// layer, and the next Update's switch director may overwrite the request
// unless the junction is locked out under a train.
func (s *Supervisor) ToggleJunction(j topology.JunctionID, d topology.Direction) {
	s.Command.Junctions[j] = JunctionCommand{Direction: d}
}

// UpdateJunction records an actuator's confirmation that junction j is now
// physically aligned to d. This is the only ingress operation that ever
// writes to State.Junctions; the switch director only ever writes the
// corresponding desired direction to Command.
func (s *Supervisor) UpdateJunction(j topology.JunctionID, d topology.Direction) {
	s.State.Junctions[j] = &JunctionState{Direction: d}
}

// SetSpeed overrides a train's commanded speed directly, bypassing the speed
// profiler for this tick; the next Update call will recompute it as normal.
func (s *Supervisor) SetSpeed(t topology.TrainID, speed float64) {
	s.Command.Trains[t] = TrainCommand{Speed: speed}
}

// PutTrain places a train at a stored position tag's (section,
// target_junction, mileage), the re-localisation operation a position sensor
// triggers when a train passes over it.
func (s *Supervisor) PutTrain(id topology.TrainID, posID topology.PositionID) error {
	pos, ok := s.Config.Positions[posID]
	if !ok {
		return errors.Errorf("position %q not defined", posID)
	}
	s.State.PlaceTrain(id, pos.Section, pos.TargetJunction, pos.Mileage)
	return nil
}

// MoveTrain re-seats a train by delta along its current heading: positive
// delta advances toward target_junction, negative reverses away from it,
// crossing section boundaries via the observed switch state exactly as
// topology.Advance does. A topology violation here means the train's
// recorded heading is not reachable from its recorded section under the
// observed switch state -- a configuration or sensing bug the rest of the
// core cannot reason about, so it panics rather than silently misplacing
// the train.
func (s *Supervisor) MoveTrain(id topology.TrainID, delta float64) {
	train := s.State.Trains[id]
	pos, err := topology.Advance(s.Config, s.State, topology.Position{
		Section:        train.CurrentSection,
		TargetJunction: train.TargetJunction,
		Mileage:        train.Mileage,
	}, delta)
	if err != nil {
		panic(err)
	}
	train.CurrentSection = pos.Section
	train.TargetJunction = pos.TargetJunction
	train.Mileage = pos.Mileage
}

// MoveTrainMR re-seats a train by a number of motor rotations, converting
// through the train's configured distance-per-rotation before delegating to
// MoveTrain.
func (s *Supervisor) MoveTrainMR(id topology.TrainID, rotations float64) {
	cfg := s.Config.Trains[id]
	s.MoveTrain(id, rotations*cfg.DeltaPerMotorRotation)
}

// Update runs one full decision cycle: the switch director, then the stop
// tracker, then the speed profiler, in that order, since the speed
// profiler's ATO distance is the one the stop tracker has just refreshed.
// Every stage walks the track by the observed switch state, so junction
// commands the director writes this cycle do not affect this cycle's speed.
//
// A failure in any stage aborts the cycle and is surfaced to the caller.
// ErrInconsistentWorld from the director leaves Command untouched; writes
// made earlier in a cycle that fails later (the director's junction
// commands, speeds of trains already computed) are not rolled back.
func (s *Supervisor) Update() error {
	if err := s.applyDirector(); err != nil {
		s.logger.Crit("switch director fault", "error", err)
		s.metrics.UpdateFailures.Inc()
		return err
	}
	if err := s.updateStopTrackers(); err != nil {
		s.logger.Crit("stop tracker fault", "error", err)
		s.metrics.UpdateFailures.Inc()
		return err
	}
	if err := s.computeSpeed(); err != nil {
		s.logger.Crit("speed profiler fault", "error", err)
		s.metrics.UpdateFailures.Inc()
		return err
	}
	for id, cmd := range s.Command.Trains {
		s.metrics.TrainSpeed.WithLabelValues(id).Set(cmd.Speed)
	}
	for id, train := range s.State.Trains {
		s.metrics.StopDistance.WithLabelValues(id).Set(train.StopDistance)
	}
	return nil
}
