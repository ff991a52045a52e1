package control

import (
	"testing"

	"github.com/plarailers/ptc-core/internal/topology"
)

func newTestSupervisor() *Supervisor {
	return NewSupervisor(topology.DefaultConfig(), nil)
}

func TestSelectPatternEmptyTrack(t *testing.T) {
	sup := newTestSupervisor()
	sup.State.PlaceTrain("t0", "s0", "j1", 0)

	id, err := selectPattern(sup.State)
	if err != nil {
		t.Fatalf("selectPattern: %v", err)
	}
	if id != 1 {
		t.Fatalf("got pattern %d, want 1", id)
	}
}

func TestSelectPatternBypassBlockedForcesPattern3(t *testing.T) {
	sup := newTestSupervisor()
	sup.State.PlaceTrain("t0", "s1", "j3", 50) // train in s1 heading j3 (spur toward exit)
	sup.BlockSection("s3")

	id, err := selectPattern(sup.State)
	if err != nil {
		t.Fatalf("selectPattern: %v", err)
	}
	if id != 3 {
		t.Fatalf("got pattern %d, want 3", id)
	}
}

func TestApplyDirectorWritesPattern3Directions(t *testing.T) {
	sup := newTestSupervisor()
	sup.State.PlaceTrain("t0", "s1", "j3", 50)
	sup.BlockSection("s3")

	if err := sup.applyDirector(); err != nil {
		t.Fatalf("applyDirector: %v", err)
	}

	want := map[topology.JunctionID]topology.Direction{
		"j0": topology.CURVE, "j1": topology.STRAIGHT, "j2": topology.CURVE, "j3": topology.STRAIGHT,
	}
	for j, d := range want {
		if got := sup.Command.Junctions[j].Direction; got != d {
			t.Errorf("junction %s: got %v, want %v", j, got, d)
		}
	}
}

func TestToggleProhibitedWhileStraddling(t *testing.T) {
	sup := newTestSupervisor()
	// t0 has just crossed j0 heading j1 (so it is now on s0), with its nose
	// only trainLength+toggleMargin-30 past j0: the lockout zone behind it
	// still reaches 30cm back across j0.
	sup.State.PlaceTrain("t0", "s0", "j1", trainLength+toggleMargin-30)

	prohibited, err := toggleProhibited(sup.Config, sup.State, "j0")
	if err != nil {
		t.Fatalf("toggleProhibited: %v", err)
	}
	if !prohibited {
		t.Fatalf("expected j0 to be prohibited while t0 straddles it")
	}

	// A junction far from any train must not be prohibited.
	prohibited, err = toggleProhibited(sup.Config, sup.State, "j2")
	if err != nil {
		t.Fatalf("toggleProhibited: %v", err)
	}
	if prohibited {
		t.Fatalf("j2 should not be prohibited")
	}
}

func TestApplyDirectorSkipsProhibitedJunction(t *testing.T) {
	sup := newTestSupervisor()
	sup.State.PlaceTrain("t0", "s0", "j1", trainLength+toggleMargin-30)
	sup.Command.Junctions["j0"] = JunctionCommand{Direction: topology.CURVE}

	if err := sup.applyDirector(); err != nil {
		t.Fatalf("applyDirector: %v", err)
	}

	if got := sup.Command.Junctions["j0"].Direction; got != topology.CURVE {
		t.Fatalf("j0 command should be left untouched while prohibited, got %v", got)
	}
}
