package control

import "github.com/plarailers/ptc-core/internal/topology"

// JunctionCommand is the desired alignment of a switch, as written by the
// switch director. It takes effect in State only once UpdateJunction echoes
// it back, simulating the real actuation lag between request and confirmed
// position.
type JunctionCommand struct {
	Direction topology.Direction
}

// TrainCommand is the desired speed for a train's motor, as written by the
// speed profiler.
type TrainCommand struct {
	Speed float64
}

// Command is the desired world: everything Update decides should happen, for
// an adapter layer to carry out against real hardware.
type Command struct {
	Junctions map[topology.JunctionID]JunctionCommand
	Trains    map[topology.TrainID]TrainCommand
}

// NewCommand builds a Command with every junction defaulted to STRAIGHT and
// no trains commanded yet.
func NewCommand(cfg *topology.Config) *Command {
	c := &Command{
		Junctions: make(map[topology.JunctionID]JunctionCommand, len(cfg.Junctions)),
		Trains:    make(map[topology.TrainID]TrainCommand),
	}
	for id := range cfg.Junctions {
		c.Junctions[id] = JunctionCommand{Direction: topology.STRAIGHT}
	}
	return c
}
