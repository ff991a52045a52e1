package control

import (
	"math"
	"testing"
)

// TestSpeedRampsUpOnEmptyTrack: a single train on an otherwise empty,
// unobstructed loop accelerates by exactly 0.5 cm/s per tick, starting
// from 0.
func TestSpeedRampsUpOnEmptyTrack(t *testing.T) {
	sup := newTestSupervisor()
	sup.State.PlaceTrain("t0", "s0", "j1", 0)

	prev := 0.0
	for i := 0; i < 5; i++ {
		sup.Tick(1)
		if err := sup.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
		speed := sup.Command.Trains["t0"].Speed
		if math.Abs(speed-(prev+0.5)) > 1e-9 {
			t.Fatalf("tick %d: speed = %v, want %v", i, speed, prev+0.5)
		}
		prev = speed
	}
}

// TestSpeedBlockedAheadCeiling: train at (s0, j1, 10), s1 blocked. The
// blocked section ahead must win over the self-leader found all the way
// around the loop, so d_atp = length(s0) - 10 - margin = 380.
func TestSpeedBlockedAheadCeiling(t *testing.T) {
	sup := newTestSupervisor()
	sup.State.PlaceTrain("t0", "s0", "j1", 10)
	sup.BlockSection("s1")

	trains := sup.trainPositions()
	d, err := sup.atpStopDistance("t0", trains)
	if err != nil {
		t.Fatalf("atpStopDistance: %v", err)
	}
	if d != 380 {
		t.Fatalf("d_atp = %v, want 380", d)
	}
}

// TestSpeedLeaderFollowerStopsShort: train A at (s0, j1, 80), train B at
// (s0, j1, 20). B's forward train is A at gap 60, so the tail gap is
// 60 - trainLength = 0; d_atp clamps to 0 and B is commanded to a full
// stop.
func TestSpeedLeaderFollowerStopsShort(t *testing.T) {
	sup := newTestSupervisor()
	sup.State.PlaceTrain("tA", "s0", "j1", 80)
	sup.State.PlaceTrain("tB", "s0", "j1", 20)

	sup.Tick(1)
	if err := sup.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := sup.Command.Trains["tB"].Speed; got != 0 {
		t.Fatalf("follower speed = %v, want 0", got)
	}
}

func TestSmoothCapsAcceleration(t *testing.T) {
	sup := newTestSupervisor()
	next := sup.Profile.Smooth(0, 40)
	if next != 0.5 {
		t.Fatalf("Smooth(0, 40) = %v, want 0.5 (NORMAL_ACCEL*LOOP_PERIOD)", next)
	}
}

func TestSmoothNeverCapsDeceleration(t *testing.T) {
	sup := newTestSupervisor()
	next := sup.Profile.Smooth(30, 0)
	if next != 0 {
		t.Fatalf("Smooth(30, 0) = %v, want 0 (deceleration is never capped)", next)
	}
}
