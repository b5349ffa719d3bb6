package offline

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/lunarops/armstrong/maneuver"
	"github.com/lunarops/armstrong/sim"
)

// Attitude takes priority over descent: firing the main engine while tilted
// pushes the lander sideways, so the policy levels out first, then manages
// vertical speed.
const (
	angleTolerance = 0.1
	fastDescent    = -0.35
	finalApproach  = 0.3
)

// Decide is the deterministic tactical policy used when no remote model is
// available.
func Decide(t sim.Telemetry) maneuver.Maneuver {
	// Lead the rotation slightly so an already-spinning lander is not
	// over-corrected.
	predicted := t.Angle + 0.3*t.AngularVelocity

	switch {
	case predicted > angleTolerance:
		return maneuver.Maneuver{
			Action:    maneuver.LeftEngine,
			Duration:  3,
			Reasoning: "tilted right, rotating counter-clockwise back to upright",
		}
	case predicted < -angleTolerance:
		return maneuver.Maneuver{
			Action:    maneuver.RightEngine,
			Duration:  3,
			Reasoning: "tilted left, rotating clockwise back to upright",
		}
	case t.VY > 0:
		return maneuver.Maneuver{
			Action:    maneuver.Hold,
			Duration:  5,
			Reasoning: "rising, letting gravity work",
		}
	case t.VY < fastDescent:
		return maneuver.Maneuver{
			Action:    maneuver.MainEngine,
			Duration:  4,
			Reasoning: "upright and falling fast, braking descent",
		}
	case t.Y < finalApproach && t.VY < -0.15:
		return maneuver.Maneuver{
			Action:    maneuver.MainEngine,
			Duration:  2,
			Reasoning: "final approach, softening touchdown",
		}
	default:
		return maneuver.Maneuver{
			Action:    maneuver.Hold,
			Duration:  2,
			Reasoning: "stable descent, holding",
		}
	}
}

// Advise is the deterministic strategic advisory used when no remote model
// is available.
func Advise(t sim.Telemetry) string {
	switch {
	case t.LeftLegContact || t.RightLegContact:
		return fmt.Sprintf("Touchdown at X %.2f. Cut all engines.", t.X)
	case t.Angle > angleTolerance:
		return fmt.Sprintf("Tilted right at %.2f rad. Stabilize attitude before descending.", t.Angle)
	case t.Angle < -angleTolerance:
		return fmt.Sprintf("Tilted left at %.2f rad. Stabilize attitude before descending.", t.Angle)
	case t.VY > 0:
		return fmt.Sprintf("Rising at %.2f. Cut engines and let gravity work.", t.VY)
	case t.VY < fastDescent:
		return fmt.Sprintf("Altitude %.2f, falling fast (%.2f). Decelerate with the main engine.", t.Y, t.VY)
	default:
		return fmt.Sprintf("Altitude %.2f, descent nominal. Continue controlled descent to the pad.", t.Y)
	}
}

var telemetryPatterns = map[string]*regexp.Regexp{
	"altitude": regexp.MustCompile(`Altitude:\s*(-?\d+(?:\.\d+)?)`),
	"x":        regexp.MustCompile(`Position X:\s*(-?\d+(?:\.\d+)?)`),
	"vy":       regexp.MustCompile(`Vertical Velocity:\s*(-?\d+(?:\.\d+)?)`),
	"vx":       regexp.MustCompile(`Horizontal Velocity:\s*(-?\d+(?:\.\d+)?)`),
	"angle":    regexp.MustCompile(`Angle:\s*(-?\d+(?:\.\d+)?)`),
	"vangle":   regexp.MustCompile(`Angular Velocity:\s*(-?\d+(?:\.\d+)?)`),
}

// ParseTelemetry recovers numeric telemetry from the natural language
// report produced by sim.Telemetry.Describe. It reports ok=false when the
// text does not look like a telemetry report.
func ParseTelemetry(text string) (sim.Telemetry, bool) {
	values := make(map[string]float64, len(telemetryPatterns))
	for key, pattern := range telemetryPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		values[key] = v
	}

	if _, ok := values["altitude"]; !ok {
		return sim.Telemetry{}, false
	}
	if _, ok := values["vy"]; !ok {
		return sim.Telemetry{}, false
	}

	return sim.Telemetry{
		Y:               values["altitude"],
		X:               values["x"],
		VY:              values["vy"],
		VX:              values["vx"],
		Angle:           values["angle"],
		AngularVelocity: values["vangle"],
	}, true
}
