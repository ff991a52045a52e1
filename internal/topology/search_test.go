package topology

import "testing"

func straightDirs() staticDirections {
	return staticDirections{"j0": STRAIGHT, "j1": STRAIGHT, "j2": STRAIGHT, "j3": STRAIGHT}
}

func TestForwardTrainSameSection(t *testing.T) {
	cfg := DefaultConfig()
	dirs := straightDirs()

	trains := map[TrainID]TrainPosition{
		"t0": {Section: "s0", TargetJunction: "j1", Mileage: 20},
		"t1": {Section: "s0", TargetJunction: "j1", Mileage: 80},
	}

	id, dist, found, err := ForwardTrain(cfg, dirs, "t0", trains, 16)
	if err != nil {
		t.Fatalf("ForwardTrain: %v", err)
	}
	if !found || id != "t1" || dist != 60 {
		t.Fatalf("got (%q, %v, %v)", id, dist, found)
	}
}

func TestForwardTrainIgnoresBehind(t *testing.T) {
	cfg := DefaultConfig()
	dirs := straightDirs()

	trains := map[TrainID]TrainPosition{
		"t0": {Section: "s0", TargetJunction: "j1", Mileage: 80},
		"t1": {Section: "s0", TargetJunction: "j1", Mileage: 20},
	}

	_, _, found, err := ForwardTrain(cfg, dirs, "t0", trains, 16)
	if err != nil {
		t.Fatalf("ForwardTrain: %v", err)
	}
	if found {
		t.Fatalf("t1 is behind t0 on the same heading; must not be a forward train")
	}
}

func TestForwardStopAcrossSectionBoundary(t *testing.T) {
	cfg := DefaultConfig()
	dirs := straightDirs()

	// stop_0 sits on s0 heading j1 at mileage 150; searching from s0 heading
	// j1 at mileage 10 should find it at distance 140.
	id, dist, found, err := ForwardStop(cfg, dirs, Position{Section: "s0", TargetJunction: "j1", Mileage: 10}, cfg.Stops, 16)
	if err != nil {
		t.Fatalf("ForwardStop: %v", err)
	}
	if !found || id != "stop_0" || dist != 140 {
		t.Fatalf("got (%q, %v, %v)", id, dist, found)
	}
}

func TestForwardStopAcrossTwoSectionBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	dirs := straightDirs()

	// stop_3 sits on s1 heading j3 at mileage 80. Crossing j1 from s0 turns
	// the heading to j3 (the next junction ahead, not the one just passed),
	// so the walker arrives on s1 entering at its j1 (mileage 0) end.
	// Searching from s0 heading j1 at mileage 390 must find stop_3's
	// distance as (400-390) + 80 = 90: the boundary remaining in s0, plus
	// how far into s1 the entry-relative walk has to go.
	id, dist, found, err := ForwardStop(cfg, dirs, Position{Section: "s0", TargetJunction: "j1", Mileage: 390}, cfg.Stops, 16)
	if err != nil {
		t.Fatalf("ForwardStop: %v", err)
	}
	if !found || id != "stop_3" || dist != 90 {
		t.Fatalf("got id=%q dist=%v found=%v, want stop_3/90/true", id, dist, found)
	}
}

func TestForwardStopNotFoundOnMisalignedSwitch(t *testing.T) {
	cfg := DefaultConfig()
	dirs := staticDirections{"j0": STRAIGHT, "j1": CURVE, "j2": STRAIGHT, "j3": STRAIGHT}

	// With j1 thrown CURVE, a train approaching j1 via THROUGH (from s0)
	// cannot cross it, so nothing beyond s0 is reachable; s0's own stops
	// (stop_0 at 150, stop_1 at 350) both lie behind mileage 360, so
	// searching from there must fail to find anything further along.
	_, _, found, err := ForwardStop(cfg, dirs, Position{Section: "s0", TargetJunction: "j1", Mileage: 360}, cfg.Stops, 16)
	if err != nil {
		t.Fatalf("ForwardStop: %v", err)
	}
	if found {
		t.Fatalf("expected no forward stop past a misaligned switch")
	}
}

func TestForwardStopLoopDetection(t *testing.T) {
	cfg := NewConfig()
	cfg.DefineJunctions("a", "b")
	if err := cfg.AddSection("x", "a", CONVERGING, "b", THROUGH, 100); err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddSection("y", "b", CONVERGING, "a", THROUGH, 100); err != nil {
		t.Fatal(err)
	}
	dirs := staticDirections{"a": STRAIGHT, "b": STRAIGHT}

	_, _, found, err := ForwardStop(cfg, dirs, Position{Section: "x", TargetJunction: "b", Mileage: 0}, cfg.Stops, 16)
	if err != nil {
		t.Fatalf("ForwardStop: %v", err)
	}
	if found {
		t.Fatalf("empty closed loop must report not-found, not hang or loop forever")
	}
}

func TestForwardTrainEmptyLoopReturnsSelf(t *testing.T) {
	cfg := NewConfig()
	cfg.DefineJunctions("a", "b")
	if err := cfg.AddSection("x", "a", CONVERGING, "b", THROUGH, 100); err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddSection("y", "b", CONVERGING, "a", THROUGH, 100); err != nil {
		t.Fatal(err)
	}
	dirs := staticDirections{"a": STRAIGHT, "b": STRAIGHT}

	trains := map[TrainID]TrainPosition{
		"solo": {Section: "x", TargetJunction: "b", Mileage: 0},
	}

	id, dist, found, err := ForwardTrain(cfg, dirs, "solo", trains, 16)
	if err != nil {
		t.Fatalf("ForwardTrain: %v", err)
	}
	if !found || id != "solo" || dist != 200 {
		t.Fatalf("a lone train on a closed loop should be its own leader at the loop length: got (%q, %v, %v)", id, dist, found)
	}
}
