package topology

// DefaultConfig builds the canonical demonstration layout used by the switch
// director's pattern table and by this core's own test suite: four junctions
// (j0..j3), six sections (s0..s5), two trains (t0, t1), two stations and
// five stops, plus four re-localisation position tags.
//
//	j0 --s0(400cm)-- j1 --s1(100cm)-- j3 --s2(400cm)-- j2 --s3(100cm)-- j0
//	j0 --s4(60cm, DIVERGING loop)-- j1
//	j2 --s5(60cm, DIVERGING loop)-- j3
func DefaultConfig() *Config {
	c := NewConfig()

	const (
		j0 JunctionID = "j0"
		j1 JunctionID = "j1"
		j2 JunctionID = "j2"
		j3 JunctionID = "j3"
	)
	c.DefineJunctions(j0, j1, j2, j3)

	// AddSection never fails here: junctions are pre-defined and every
	// section ID is unique. Panicking on error keeps DefaultConfig usable as
	// a one-line fixture without every caller checking an error that can
	// never actually occur for this literal topology.
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(c.AddSection("s0", j0, CONVERGING, j1, THROUGH, 400))
	must(c.AddSection("s1", j1, CONVERGING, j3, CONVERGING, 100))
	must(c.AddSection("s2", j3, THROUGH, j2, CONVERGING, 400))
	must(c.AddSection("s3", j2, THROUGH, j0, THROUGH, 100))
	must(c.AddSection("s4", j0, DIVERGING, j1, DIVERGING, 60))
	must(c.AddSection("s5", j2, DIVERGING, j3, DIVERGING, 60))

	c.DefineTrain("t0", 70, 130, 40.0, 0.2435*0.9)
	c.DefineTrain("t1", 90, 130, 40.0, 0.1919*1.1*0.9)

	c.Stops["stop_0"] = StopConfig{Section: "s0", TargetJunction: j1, Mileage: 150}
	c.Stops["stop_1"] = StopConfig{Section: "s0", TargetJunction: j1, Mileage: 350}
	c.Stops["stop_2"] = StopConfig{Section: "s1", TargetJunction: j1, Mileage: 20}
	c.Stops["stop_3"] = StopConfig{Section: "s1", TargetJunction: j3, Mileage: 80}
	c.Stops["stop_4"] = StopConfig{Section: "s3", TargetJunction: j0, Mileage: 20}

	c.Stations["station_0"] = StationConfig{Stops: []StopID{"stop_0", "stop_1"}}
	c.Stations["station_1"] = StationConfig{Stops: []StopID{"stop_2", "stop_3", "stop_4"}}

	c.Positions["position_80"] = PositionConfig{Section: "s0", TargetJunction: j1, Mileage: 80}
	c.Positions["position_138"] = PositionConfig{Section: "s0", TargetJunction: j1, Mileage: 138}
	c.Positions["position_173"] = PositionConfig{Section: "s0", TargetJunction: j1, Mileage: 173}
	c.Positions["position_255"] = PositionConfig{Section: "s2", TargetJunction: j2, Mileage: 255}

	return c
}
