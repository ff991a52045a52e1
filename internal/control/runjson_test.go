package control

import (
	"encoding/json"
	"testing"
)

// twoSectionLoopConfig is the smallest closed loop ConfigJSON can build:
// junction a's CONVERGING joint meets section x, whose other end is
// junction b's THROUGH joint; junction b's CONVERGING joint meets section
// y, whose other end is junction a's THROUGH joint. With both switches
// left at their STRAIGHT default, a train heading b on x walks onto y and
// back around indefinitely.
const twoSectionLoopConfig = `{
	"junctions": {
		"a": {"joints": {"CONVERGING": "x", "THROUGH": "y"}},
		"b": {"joints": {"THROUGH": "x", "CONVERGING": "y"}}
	},
	"sections": {
		"x": {"length": 400, "junction_0": "a", "junction_1": "b"},
		"y": {"length": 100, "junction_0": "b", "junction_1": "a"}
	},
	"trains": {
		"t0": {"min_input": 70, "max_input": 130, "max_speed": 40, "delta_per_motor_rotation": 0.2}
	}
}`

// TestRunJSONRampsUpOnEmptyTrack drives the whole JSON-in/JSON-out contract
// (the shape every adapter actually calls) over a minimal hand-built loop,
// checking that it reproduces the 0.5 cm/s-per-tick empty-track ramp.
func TestRunJSONRampsUpOnEmptyTrack(t *testing.T) {
	input := `{
		"config": ` + twoSectionLoopConfig + `,
		"initial_positions": {
			"t0": {"section": "x", "target_junction": "b", "mileage": 0}
		},
		"ticks": 2
	}`

	out, err := RunJSON(input)
	if err != nil {
		t.Fatalf("RunJSON: %v", err)
	}

	var result RunOutput
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("unmarshal output: %v\noutput: %s", err, out)
	}
	if len(result.Log) != 2 {
		t.Fatalf("expected 2 tick reports, got %d", len(result.Log))
	}
	if got := result.Log[0].Trains["t0"].Speed; got != 0.5 {
		t.Fatalf("tick 1 speed = %v, want 0.5", got)
	}
	if got := result.Log[1].Trains["t0"].Speed; got != 1.0 {
		t.Fatalf("tick 2 speed = %v, want 1.0", got)
	}
}

// TestRunJSONAppliesScheduledOps exercises the ops schedule (block_section)
// alongside RunJSONWithDefaults' log_level fallback.
func TestRunJSONAppliesScheduledOps(t *testing.T) {
	input := `{
		"config": ` + twoSectionLoopConfig + `,
		"initial_positions": {
			"t0": {"section": "x", "target_junction": "b", "mileage": 10}
		},
		"ops": [
			{"tick": 1, "block_section": "y"}
		],
		"ticks": 1
	}`

	out, err := RunJSONWithDefaults(input, 1, "crit")
	if err != nil {
		t.Fatalf("RunJSONWithDefaults: %v", err)
	}

	var result RunOutput
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("unmarshal output: %v\noutput: %s", err, out)
	}
	if len(result.Log) != 1 {
		t.Fatalf("expected 1 tick report, got %d", len(result.Log))
	}
	// The next section ahead is blocked, so d_atp = length(x) - 10 - 10 =
	// 380: comfortably above what the speed ceiling needs, so the first
	// tick's ramp is unconstrained.
	if got := result.Log[0].Trains["t0"].Speed; got != 0.5 {
		t.Fatalf("tick 1 speed = %v, want 0.5 (unconstrained ramp, ceiling far above)", got)
	}
}
