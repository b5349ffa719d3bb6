package mission

import (
	"context"

	"github.com/lunarops/armstrong"
	"github.com/lunarops/armstrong/maneuver"
)

// ManeuverToolName is the single tool the Commander model may call.
const ManeuverToolName = "execute_maneuver"

// ManeuverTool translates the model's tool call into a validated Maneuver.
// It is the only tool registered on the Commander session.
type ManeuverTool struct{}

var _ armstrong.Tool = (*ManeuverTool)(nil)

func (t *ManeuverTool) Spec() armstrong.ToolSpec {
	return armstrong.ToolSpec{
		Name: ManeuverToolName,
		Description: "Executes a maneuver on the lunar lander. " +
			"MAIN_ENGINE fires the main thruster (pushes the lander up relative to its angle), " +
			"LEFT_ENGINE fires the left thruster (rotates counter-clockwise), " +
			"RIGHT_ENGINE fires the right thruster (rotates clockwise), " +
			"HOLD performs no action and lets gravity work.",
		Parameters: map[string]*armstrong.Parameter{
			"action": {
				Type:        armstrong.TypeString,
				Description: "The action to perform.",
				Enum:        maneuver.ActionNames(),
			},
			"duration": {
				Type: armstrong.TypeInteger,
				Description: "Duration of the action in frames. Short bursts (1-3) for precision, " +
					"long bursts (5-10) for major corrections.",
				Minimum: armstrong.Ptr(float64(maneuver.MinDuration)),
				Maximum: armstrong.Ptr(float64(maneuver.MaxDuration)),
			},
			"reasoning": {
				Type:        armstrong.TypeString,
				Description: "Brief explanation of why this action was chosen.",
			},
		},
		Required: []string{"action", "duration"},
	}
}

// Run validates the arguments and echoes the corrected maneuver. The actual
// simulator stepping happens in the mission loop, not here.
func (t *ManeuverTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	m := maneuver.FromArgs(args)
	return map[string]any{
		"status":   "success",
		"action":   string(m.Action),
		"duration": m.Duration,
	}, nil
}
