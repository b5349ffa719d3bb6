package armstrong_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/lunarops/armstrong"
)

func maneuverSpec() armstrong.ToolSpec {
	return armstrong.ToolSpec{
		Name:        "execute_maneuver",
		Description: "Executes a maneuver on the lander.",
		Parameters: map[string]*armstrong.Parameter{
			"action": {
				Type: armstrong.TypeString,
				Enum: []string{"HOLD", "MAIN_ENGINE", "LEFT_ENGINE", "RIGHT_ENGINE"},
			},
			"duration": {
				Type:    armstrong.TypeInteger,
				Minimum: armstrong.Ptr(1.0),
				Maximum: armstrong.Ptr(10.0),
			},
			"reasoning": {
				Type: armstrong.TypeString,
			},
		},
		Required: []string{"action", "duration"},
	}
}

func TestNewArgumentChecker(t *testing.T) {
	t.Run("valid spec compiles", func(t *testing.T) {
		checker, err := armstrong.NewArgumentChecker(maneuverSpec())
		gt.NoError(t, err)
		gt.NotNil(t, checker)
	})

	t.Run("invalid spec is rejected", func(t *testing.T) {
		spec := maneuverSpec()
		spec.Name = ""
		_, err := armstrong.NewArgumentChecker(spec)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, armstrong.ErrInvalidTool))
	})
}

func TestArgumentCheckerCheck(t *testing.T) {
	checker, err := armstrong.NewArgumentChecker(maneuverSpec())
	gt.NoError(t, err)

	testCases := map[string]struct {
		args    map[string]any
		wantErr bool
	}{
		"well formed arguments pass": {
			args: map[string]any{
				"action":    "MAIN_ENGINE",
				"duration":  4,
				"reasoning": "braking descent",
			},
		},
		"reasoning is optional": {
			args: map[string]any{
				"action":   "HOLD",
				"duration": 1,
			},
		},
		"unknown action fails the enum": {
			args: map[string]any{
				"action":   "BOOST",
				"duration": 3,
			},
			wantErr: true,
		},
		"missing required duration fails": {
			args: map[string]any{
				"action": "HOLD",
			},
			wantErr: true,
		},
		"duration above maximum fails": {
			args: map[string]any{
				"action":   "MAIN_ENGINE",
				"duration": 999,
			},
			wantErr: true,
		},
		"fractional duration fails the integer type": {
			args: map[string]any{
				"action":   "MAIN_ENGINE",
				"duration": 2.5,
			},
			wantErr: true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := checker.Check(tc.args)
			if tc.wantErr {
				gt.Error(t, err)
				gt.True(t, errors.Is(err, armstrong.ErrInvalidParameter))
			} else {
				gt.NoError(t, err)
			}
		})
	}
}
