// Package kinematics defines the SpeedProfile interface used by the speed
// profiler to turn a stop distance into a speed command, along with the
// built-in constant-acceleration implementation.
//
// Adding a new profile requires only implementing SpeedProfile and
// registering it in FromJSON's "model" discriminator below -- the speed
// profiler itself never needs to change.
package kinematics

import (
	"encoding/json"
	"fmt"
	"math"
)

// SpeedProfile is the physics contract every speed-command implementation
// must satisfy. All distances are in centimetres, speeds in cm/s, and time
// in seconds.
type SpeedProfile interface {
	// MaxSpeed returns the ceiling speed command, regardless of distance.
	MaxSpeed() float64

	// SpeedLimit returns the ATP speed ceiling for a stop distance d:
	// min(sqrt(2*BrakeAccel*d), MaxSpeed).
	SpeedLimit(d float64) float64

	// ComfortSpeed returns the ATO target speed for a stop distance d within
	// a speed ceiling limit: min(sqrt(2*NormalAccel*d), limit).
	ComfortSpeed(d, limit float64) float64

	// Smooth applies the acceleration cap to a transition from prev toward
	// target over one control loop: never increases the
	// command by more than NormalAccel*LoopPeriod in one tick; decreases are
	// never capped, since the profile is trusted to slow the train whenever
	// the stop distance shrinks.
	Smooth(prev, target float64) float64
}

// ConstantModelName is the JSON discriminator string for ConstantProfile.
const ConstantModelName = "atp_ato"

// profileDisc is the minimum JSON structure needed to read the model
// discriminator.
type profileDisc struct {
	Model string `json:"model"`
}

// FromJSON resolves a SpeedProfile from its JSON description. The object must
// carry a "model" discriminator key selecting the concrete implementation;
// the rest of the object is forwarded to that implementation's own fields,
// with any omitted field keeping the implementation's default.
//
// Supported models:
//   - "atp_ato": fixed brake/normal acceleration rates (ConstantProfile).
func FromJSON(data []byte) (SpeedProfile, error) {
	var disc profileDisc
	if err := json.Unmarshal(data, &disc); err != nil {
		return nil, fmt.Errorf("reading profile model discriminator: %w", err)
	}

	switch disc.Model {
	case ConstantModelName:
		p := DefaultConstantProfile()
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parsing %s profile: %w", ConstantModelName, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown profile model %q", disc.Model)
	}
}

// ConstantProfile implements SpeedProfile with fixed brake and normal
// acceleration rates. This is the core's only built-in profile.
type ConstantProfile struct {
	BrakeAccel  float64 `json:"brake_accel"`  // cm/s^2
	NormalAccel float64 `json:"normal_accel"` // cm/s^2
	VMax        float64 `json:"max_speed"`    // cm/s
	LoopPeriod  float64 `json:"loop_period"`  // seconds
}

// DefaultConstantProfile returns the stock profile: 10 cm/s^2 brake
// deceleration, 5 cm/s^2 normal acceleration, a 40 cm/s ceiling, and a
// 100 ms control loop.
func DefaultConstantProfile() ConstantProfile {
	return ConstantProfile{BrakeAccel: 10, NormalAccel: 5, VMax: 40, LoopPeriod: 0.1}
}

func (c ConstantProfile) MaxSpeed() float64 { return c.VMax }

func (c ConstantProfile) SpeedLimit(d float64) float64 {
	if d < 0 {
		d = 0
	}
	v := math.Sqrt(2 * c.BrakeAccel * d)
	if v > c.VMax {
		return c.VMax
	}
	return v
}

func (c ConstantProfile) ComfortSpeed(d, limit float64) float64 {
	if d < 0 {
		d = 0
	}
	v := math.Sqrt(2 * c.NormalAccel * d)
	if v > limit {
		return limit
	}
	return v
}

func (c ConstantProfile) Smooth(prev, target float64) float64 {
	if target > prev+c.NormalAccel*c.LoopPeriod {
		return prev + c.NormalAccel*c.LoopPeriod
	}
	return target
}
