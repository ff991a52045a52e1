package control

import (
	"encoding/json"
	"fmt"

	"github.com/plarailers/ptc-core/internal/kinematics"
	"github.com/plarailers/ptc-core/internal/logging"
	"github.com/plarailers/ptc-core/internal/topology"
)

// positionInput is the wire shape of a train's initial position, the same
// (section, target_junction, mileage) triple stops and position tags use.
type positionInput struct {
	Section        topology.SectionID  `json:"section"`
	TargetJunction topology.JunctionID `json:"target_junction"`
	Mileage        float64             `json:"mileage"`
}

// opInput is one scripted ingress call, fired immediately before the Update
// of the tick named by Tick. At most one of its fields should be set; ops
// are applied in the order they appear in RunInput.Ops.
type opInput struct {
	Tick int `json:"tick"`

	MoveTrain *struct {
		Train topology.TrainID `json:"train"`
		Delta float64          `json:"delta"`
	} `json:"move_train,omitempty"`

	MoveTrainMR *struct {
		Train     topology.TrainID `json:"train"`
		Rotations float64          `json:"rotations"`
	} `json:"move_train_mr,omitempty"`

	PutTrain *struct {
		Train    topology.TrainID    `json:"train"`
		Position topology.PositionID `json:"position"`
	} `json:"put_train,omitempty"`

	BlockSection   topology.SectionID  `json:"block_section,omitempty"`
	UnblockSection topology.SectionID  `json:"unblock_section,omitempty"`
	ToggleJunction *struct {
		Junction  topology.JunctionID `json:"junction"`
		Direction topology.Direction  `json:"direction"`
	} `json:"toggle_junction,omitempty"`
	UpdateJunction *struct {
		Junction  topology.JunctionID `json:"junction"`
		Direction topology.Direction  `json:"direction"`
	} `json:"update_junction,omitempty"`

	SetSpeed *struct {
		Train topology.TrainID `json:"train"`
		Speed float64          `json:"speed"`
	} `json:"set_speed,omitempty"`
}

// RunInput is the JSON contract adapters (cmd/cli, cmd/wasm) drive the
// Supervisor through: a topology, each train's starting position, a number
// of ticks to run, and a schedule of ingress operations to apply along the
// way (section blockages, manual moves, re-localisation fixes) -- the only
// way anything other than the passage of time enters the core, since the
// core itself has no I/O of its own.
type RunInput struct {
	Config           topology.ConfigJSON                `json:"config"`
	InitialPositions map[topology.TrainID]positionInput `json:"initial_positions"`
	Ticks            int                                 `json:"ticks"`
	Ops              []opInput                           `json:"ops"`
	LogLevel         string                              `json:"log_level"`

	// Profile optionally overrides the built-in ATP/ATO speed profile; it is
	// resolved through kinematics.FromJSON's "model" discriminator.
	Profile json.RawMessage `json:"profile,omitempty"`
}

// TrainReport is one train's observed position, stop tracker state, and
// commanded speed at the end of a tick, for RunOutput.
type TrainReport struct {
	Section        topology.SectionID  `json:"section"`
	TargetJunction topology.JunctionID `json:"target_junction"`
	Mileage        float64             `json:"mileage"`
	Stop           topology.StopID     `json:"stop,omitempty"`
	StopDistance   float64             `json:"stop_distance"`
	Speed          float64             `json:"speed"`
}

// TickReport is the Command (and relevant State) snapshot after one Update.
type TickReport struct {
	Tick      int                                         `json:"tick"`
	Junctions map[topology.JunctionID]topology.Direction `json:"junctions"`
	Trains    map[topology.TrainID]TrainReport           `json:"trains"`
}

// RunOutput is the complete result of driving a Supervisor through
// RunInput.Ticks ticks: one TickReport per tick.
type RunOutput struct {
	Log []TickReport `json:"log"`
}

// RunJSON is the primary entry point for every compilation target (CLI,
// wasm): it accepts a JSON-encoded RunInput, drives a Supervisor through
// the requested ticks applying any scheduled ops, and returns a
// JSON-encoded RunOutput.
func RunJSON(jsonInput string) (string, error) {
	return RunJSONWithDefaults(jsonInput, 1, "info")
}

// RunJSONWithDefaults is RunJSON, but ticksDefault and logLevelDefault (an
// adapter's CLI flags, typically) fill in RunInput.Ticks/LogLevel when the
// input JSON leaves them at their zero value. An explicit value in the
// input JSON always wins.
func RunJSONWithDefaults(jsonInput string, ticksDefault int, logLevelDefault string) (string, error) {
	var in RunInput
	if err := json.Unmarshal([]byte(jsonInput), &in); err != nil {
		return "", fmt.Errorf("invalid input JSON: %w", err)
	}
	if in.Ticks < 1 {
		in.Ticks = ticksDefault
	}
	if in.LogLevel == "" {
		in.LogLevel = logLevelDefault
	}

	cfg, err := in.Config.Build()
	if err != nil {
		return "", fmt.Errorf("invalid config: %w", err)
	}

	level := in.LogLevel
	if level == "" {
		level = "info"
	}
	sup := NewSupervisor(cfg, logging.New(level))

	if len(in.Profile) > 0 {
		profile, err := kinematics.FromJSON(in.Profile)
		if err != nil {
			return "", fmt.Errorf("invalid profile: %w", err)
		}
		sup.Profile = profile
	}

	for id, p := range in.InitialPositions {
		if _, ok := cfg.Trains[id]; !ok {
			return "", fmt.Errorf("initial position for undefined train %q", id)
		}
		sup.State.PlaceTrain(id, p.Section, p.TargetJunction, p.Mileage)
	}

	ticks := in.Ticks
	if ticks < 1 {
		ticks = 1
	}

	opsByTick := make(map[int][]opInput, len(in.Ops))
	for _, op := range in.Ops {
		opsByTick[op.Tick] = append(opsByTick[op.Tick], op)
	}

	out := RunOutput{Log: make([]TickReport, 0, ticks)}
	for t := 1; t <= ticks; t++ {
		for _, op := range opsByTick[t] {
			if err := applyOp(sup, op); err != nil {
				return "", fmt.Errorf("tick %d op: %w", t, err)
			}
		}
		sup.Tick(1)
		if err := sup.Update(); err != nil {
			return "", fmt.Errorf("tick %d: %w", t, err)
		}
		out.Log = append(out.Log, reportTick(sup, t))
	}

	result, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(result), nil
}

// applyOp replays one scripted ingress call (RunInput.Ops) against sup.
func applyOp(sup *Supervisor, op opInput) error {
	switch {
	case op.MoveTrain != nil:
		sup.MoveTrain(op.MoveTrain.Train, op.MoveTrain.Delta)
	case op.MoveTrainMR != nil:
		sup.MoveTrainMR(op.MoveTrainMR.Train, op.MoveTrainMR.Rotations)
	case op.PutTrain != nil:
		if err := sup.PutTrain(op.PutTrain.Train, op.PutTrain.Position); err != nil {
			return err
		}
	case op.BlockSection != "":
		sup.BlockSection(op.BlockSection)
	case op.UnblockSection != "":
		sup.UnblockSection(op.UnblockSection)
	case op.ToggleJunction != nil:
		sup.ToggleJunction(op.ToggleJunction.Junction, op.ToggleJunction.Direction)
	case op.UpdateJunction != nil:
		sup.UpdateJunction(op.UpdateJunction.Junction, op.UpdateJunction.Direction)
	case op.SetSpeed != nil:
		sup.SetSpeed(op.SetSpeed.Train, op.SetSpeed.Speed)
	}
	return nil
}

// reportTick snapshots sup's Command and relevant State after a tick's
// Update into a TickReport.
func reportTick(sup *Supervisor, tick int) TickReport {
	r := TickReport{
		Tick:      tick,
		Junctions: make(map[topology.JunctionID]topology.Direction, len(sup.Command.Junctions)),
		Trains:    make(map[topology.TrainID]TrainReport, len(sup.Command.Trains)),
	}
	for id, cmd := range sup.Command.Junctions {
		r.Junctions[id] = cmd.Direction
	}
	for id, train := range sup.State.Trains {
		r.Trains[id] = TrainReport{
			Section:        train.CurrentSection,
			TargetJunction: train.TargetJunction,
			Mileage:        train.Mileage,
			Stop:           train.Stop,
			StopDistance:   train.StopDistance,
			Speed:          sup.Command.Trains[id].Speed,
		}
	}
	return r
}
