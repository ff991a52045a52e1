package topology

import (
	"encoding/json"
	"fmt"
)

// jointName maps the closed Joint enumeration to the wire string used by
// Config's JSON schema.
var jointName = map[Joint]string{THROUGH: "THROUGH", DIVERGING: "DIVERGING", CONVERGING: "CONVERGING"}
var jointValue = map[string]Joint{"THROUGH": THROUGH, "DIVERGING": DIVERGING, "CONVERGING": CONVERGING}

// directionName maps Direction to its wire string.
var directionName = map[Direction]string{STRAIGHT: "STRAIGHT", CURVE: "CURVE"}
var directionValue = map[string]Direction{"STRAIGHT": STRAIGHT, "CURVE": CURVE}

// MarshalJSON renders a Direction as its wire string.
func (d Direction) MarshalJSON() ([]byte, error) {
	name, ok := directionName[d]
	if !ok {
		return nil, fmt.Errorf("direction %d has no wire representation", int(d))
	}
	return json.Marshal(name)
}

// UnmarshalJSON parses a Direction from its wire string.
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, ok := directionValue[s]
	if !ok {
		return fmt.Errorf("unknown direction %q", s)
	}
	*d = v
	return nil
}

// junctionJSON is the wire shape of a junction's joint wiring: a map from
// joint name to the section attached at that joint.
type junctionJSON struct {
	Joints map[string]SectionID `json:"joints"`
}

// sectionJSON is the wire shape of a section.
type sectionJSON struct {
	Length    float64    `json:"length"`
	Junction0 JunctionID `json:"junction_0"`
	Junction1 JunctionID `json:"junction_1"`
}

// trainJSON is the wire shape of a train's static motor parameters.
type trainJSON struct {
	MinInput              int     `json:"min_input"`
	MaxInput              int     `json:"max_input"`
	MaxSpeed              float64 `json:"max_speed"`
	DeltaPerMotorRotation float64 `json:"delta_per_motor_rotation"`
}

// positionJSON is the wire shape of a stop or position tag: both share the
// same (section, target_junction, mileage) triple.
type positionJSON struct {
	Section        SectionID  `json:"section"`
	TargetJunction JunctionID `json:"target_junction"`
	Mileage        float64    `json:"mileage"`
}

// stationJSON is the wire shape of a station: an ordered list of stop IDs.
type stationJSON struct {
	Stops []StopID `json:"stops"`
}

// ConfigJSON is the consumed config schema, deserialised verbatim from the
// adapter's JSON before being built into a Config via Build. It exists as
// its own type (rather than JSON tags on Config's own
// maps) because Config's Junctions value keys joints by the Joint enum,
// which has no natural JSON map-key representation, and because building a
// Config must also run the same AddSection bidirectional wiring and
// Validate check used by hand-built configs (DefaultConfig included).
type ConfigJSON struct {
	Junctions map[JunctionID]junctionJSON `json:"junctions"`
	Sections  map[SectionID]sectionJSON   `json:"sections"`
	Trains    map[TrainID]trainJSON       `json:"trains"`
	Stations  map[StationID]stationJSON   `json:"stations"`
	Stops     map[StopID]positionJSON     `json:"stops"`
	Positions map[PositionID]positionJSON `json:"positions"`
}

// ConfigFromJSON parses and validates a Config from its wire schema.
func ConfigFromJSON(data []byte) (*Config, error) {
	var in ConfigJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("invalid config JSON: %w", err)
	}
	return in.Build()
}

// Build converts a parsed ConfigJSON into a validated Config, reusing the
// same junction/section wiring and bidirectional-topology check that
// hand-built configs (DefaultConfig) go through.
func (in ConfigJSON) Build() (*Config, error) {
	c := NewConfig()

	ids := make([]JunctionID, 0, len(in.Junctions))
	for id := range in.Junctions {
		ids = append(ids, id)
	}
	c.DefineJunctions(ids...)

	// jointAt finds which joint of junction jid has sid wired to it.
	jointAt := func(jid JunctionID, sid SectionID) (Joint, error) {
		j, ok := in.Junctions[jid]
		if !ok {
			return 0, fmt.Errorf("section %q: junction %q not defined", sid, jid)
		}
		for name, wired := range j.Joints {
			if wired == sid {
				joint, ok := jointValue[name]
				if !ok {
					return 0, fmt.Errorf("junction %q: unknown joint %q", jid, name)
				}
				return joint, nil
			}
		}
		return 0, fmt.Errorf("section %q: junction %q has no joint wired to it", sid, jid)
	}

	for sid, sec := range in.Sections {
		joint0, err := jointAt(sec.Junction0, sid)
		if err != nil {
			return nil, err
		}
		joint1, err := jointAt(sec.Junction1, sid)
		if err != nil {
			return nil, err
		}
		if err := c.AddSection(sid, sec.Junction0, joint0, sec.Junction1, joint1, sec.Length); err != nil {
			return nil, err
		}
	}

	for id, t := range in.Trains {
		c.DefineTrain(id, t.MinInput, t.MaxInput, t.MaxSpeed, t.DeltaPerMotorRotation)
	}
	for id, p := range in.Stops {
		c.Stops[id] = StopConfig{Section: p.Section, TargetJunction: p.TargetJunction, Mileage: p.Mileage}
	}
	for id, p := range in.Positions {
		c.Positions[id] = PositionConfig{Section: p.Section, TargetJunction: p.TargetJunction, Mileage: p.Mileage}
	}
	for id, s := range in.Stations {
		c.Stations[id] = StationConfig{Stops: append([]StopID(nil), s.Stops...)}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}
