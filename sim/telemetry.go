package sim

import "fmt"

// Telemetry is a read-only snapshot of the lander state at one step.
// Positions are in pad units: x is horizontal offset from the pad center,
// y is altitude above the pad, angle is tilt in radians (0 is upright,
// positive is tilted right).
type Telemetry struct {
	X               float64 `json:"horizontal_position"`
	Y               float64 `json:"altitude"`
	VX              float64 `json:"horizontal_velocity"`
	VY              float64 `json:"vertical_velocity"`
	Angle           float64 `json:"angle"`
	AngularVelocity float64 `json:"angular_velocity"`
	LeftLegContact  bool    `json:"left_leg_contact"`
	RightLegContact bool    `json:"right_leg_contact"`
	Steps           int     `json:"steps_taken"`
}

// Describe renders the telemetry as the natural language report consumed by
// the agents.
func (t Telemetry) Describe() string {
	status := "Flying"
	if t.LeftLegContact || t.RightLegContact {
		status = "Touchdown imminent/Landed"
	}

	return fmt.Sprintf(
		"Altitude: %.2f. Position X: %.2f (0 is center). "+
			"Vertical Velocity: %.2f (Negative is falling). "+
			"Horizontal Velocity: %.2f. Angle: %.2f radians. "+
			"Angular Velocity: %.2f. Status: %s.",
		t.Y, t.X, t.VY, t.VX, t.Angle, t.AngularVelocity, status,
	)
}
