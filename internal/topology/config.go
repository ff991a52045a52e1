package topology

import "fmt"

// JunctionConfig is a three-joint switch: the sections attached to each of
// its joints. A fully-wired junction has all three joints populated.
type JunctionConfig struct {
	Joints map[Joint]SectionID
}

// SectionConfig is an edge of the track graph: a length and the two
// junctions at its endpoints.
type SectionConfig struct {
	Junction0 JunctionID
	Junction1 JunctionID
	Length    float64
}

// Opposite returns the endpoint of the section other than j.
func (s SectionConfig) Opposite(j JunctionID) (JunctionID, error) {
	switch j {
	case s.Junction0:
		return s.Junction1, nil
	case s.Junction1:
		return s.Junction0, nil
	default:
		return "", violation("junction %q is not an endpoint of this section", j)
	}
}

// TrainConfig holds the static parameters of a train's drive motor, used to
// translate a commanded speed into a duty-cycle byte for the motor adapter.
type TrainConfig struct {
	MinInput              int
	MaxInput              int
	MaxSpeed              float64
	DeltaPerMotorRotation float64 // distance advanced per motor rotation, cm
}

// CalcInput maps a commanded speed (cm/s) to a motor duty-cycle byte,
// floored and clamped to [0, MaxInput]; speeds at or below zero map to 0.
func (t TrainConfig) CalcInput(speed float64) int {
	if speed <= 0 {
		return 0
	}
	if speed > t.MaxSpeed {
		return t.MaxInput
	}
	input := t.MinInput + int((float64(t.MaxInput-t.MinInput))*speed/t.MaxSpeed)
	if input > t.MaxInput {
		input = t.MaxInput
	}
	if input < 0 {
		input = 0
	}
	return input
}

// StationConfig is an ordered list of stops; stations carry no behavior of
// their own in this core beyond grouping stops for downstream consumers such
// as a passenger-information adapter.
type StationConfig struct {
	Stops []StopID
}

// StopConfig is a fixed point on the track, qualified by the heading a train
// must be travelling in to see it ahead.
type StopConfig struct {
	Section        SectionID
	TargetJunction JunctionID
	Mileage        float64
}

// PositionConfig is a stored re-localisation fix: the (section,
// target_junction, mileage) a position tag reports when read.
type PositionConfig struct {
	Section        SectionID
	TargetJunction JunctionID
	Mileage        float64
}

// Config is the complete, immutable track-layout and vehicle-parameter
// description the control core is built from.
type Config struct {
	Junctions map[JunctionID]JunctionConfig
	Sections  map[SectionID]SectionConfig
	Trains    map[TrainID]TrainConfig
	Stations  map[StationID]StationConfig
	Stops     map[StopID]StopConfig
	Positions map[PositionID]PositionConfig
}

// NewConfig returns an empty Config ready for the Define* builders.
func NewConfig() *Config {
	return &Config{
		Junctions: make(map[JunctionID]JunctionConfig),
		Sections:  make(map[SectionID]SectionConfig),
		Trains:    make(map[TrainID]TrainConfig),
		Stations:  make(map[StationID]StationConfig),
		Stops:     make(map[StopID]StopConfig),
		Positions: make(map[PositionID]PositionConfig),
	}
}

// DefineJunctions registers a batch of empty junctions awaiting sections.
func (c *Config) DefineJunctions(ids ...JunctionID) {
	for _, id := range ids {
		if _, exists := c.Junctions[id]; !exists {
			c.Junctions[id] = JunctionConfig{Joints: make(map[Joint]SectionID)}
		}
	}
}

// AddSection wires a section between two junctions at the given joints and
// registers it. Both junctions must already be defined via DefineJunctions.
func (c *Config) AddSection(id SectionID, junction0 JunctionID, joint0 Joint, junction1 JunctionID, joint1 Joint, length float64) error {
	j0, ok := c.Junctions[junction0]
	if !ok {
		return fmt.Errorf("section %q: junction %q not defined", id, junction0)
	}
	j1, ok := c.Junctions[junction1]
	if !ok {
		return fmt.Errorf("section %q: junction %q not defined", id, junction1)
	}
	if _, exists := c.Sections[id]; exists {
		return fmt.Errorf("section %q already defined", id)
	}
	j0.Joints[joint0] = id
	j1.Joints[joint1] = id
	c.Junctions[junction0] = j0
	c.Junctions[junction1] = j1
	c.Sections[id] = SectionConfig{Junction0: junction0, Junction1: junction1, Length: length}
	return nil
}

// DefineTrain registers a train's static motor/speed parameters.
func (c *Config) DefineTrain(id TrainID, minInput, maxInput int, maxSpeed, deltaPerMotorRotation float64) {
	c.Trains[id] = TrainConfig{
		MinInput:              minInput,
		MaxInput:              maxInput,
		MaxSpeed:              maxSpeed,
		DeltaPerMotorRotation: deltaPerMotorRotation,
	}
}

// StationStops resolves a station's ordered stop list into the stop configs
// themselves, for consumers that need positions rather than IDs.
func (c *Config) StationStops(id StationID) ([]StopConfig, error) {
	st, ok := c.Stations[id]
	if !ok {
		return nil, fmt.Errorf("station %q not defined", id)
	}
	out := make([]StopConfig, 0, len(st.Stops))
	for _, sid := range st.Stops {
		stop, ok := c.Stops[sid]
		if !ok {
			return nil, fmt.Errorf("station %q references undefined stop %q", id, sid)
		}
		out = append(out, stop)
	}
	return out, nil
}

// Validate checks that the topology is bidirectionally consistent: for every
// junction and every joint it uses, the referenced section must list that
// junction as one of its own endpoints.
func (c *Config) Validate() error {
	for jid, j := range c.Junctions {
		for joint, sid := range j.Joints {
			sec, ok := c.Sections[sid]
			if !ok {
				return fmt.Errorf("junction %q joint %s references undefined section %q", jid, joint, sid)
			}
			if sec.Junction0 != jid && sec.Junction1 != jid {
				return fmt.Errorf("junction %q joint %s: section %q does not list %q as an endpoint", jid, joint, sid, jid)
			}
		}
	}
	for sid, sec := range c.Sections {
		if _, ok := c.Junctions[sec.Junction0]; !ok {
			return fmt.Errorf("section %q: junction_0 %q not defined", sid, sec.Junction0)
		}
		if _, ok := c.Junctions[sec.Junction1]; !ok {
			return fmt.Errorf("section %q: junction_1 %q not defined", sid, sec.Junction1)
		}
	}
	return nil
}
