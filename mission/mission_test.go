package mission_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/lunarops/armstrong"
	"github.com/lunarops/armstrong/llm/offline"
	"github.com/lunarops/armstrong/maneuver"
	"github.com/lunarops/armstrong/mission"
	"github.com/lunarops/armstrong/mock"
	"github.com/lunarops/armstrong/sim"
)

// fakeSim is a scriptable Simulator for loop tests.
type fakeSim struct {
	executes int
	done     bool
	reward   float64

	// doneAfter marks the episode finished after that many Execute calls.
	// Zero means the episode never ends on its own.
	doneAfter int
}

func (s *fakeSim) Reset() sim.Telemetry {
	return sim.Telemetry{Y: 1.0, VY: -0.1}
}

func (s *fakeSim) Execute(action int, frames int) sim.ExecResult {
	s.executes++
	if s.doneAfter > 0 && s.executes >= s.doneAfter {
		s.done = true
	}
	return sim.ExecResult{
		Telemetry: sim.Telemetry{Y: 0.9, VY: -0.1},
		Frames:    frames,
		Done:      s.done,
	}
}

func (s *fakeSim) Done() bool           { return s.done }
func (s *fakeSim) TotalReward() float64 { return s.reward }

func quickConfig() mission.Config {
	cfg := mission.DefaultConfig()
	cfg.Pacing = 0
	cfg.Backoff = armstrong.BackoffPolicy{
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
		Multiplier:  2.0,
		Sleep: func(ctx context.Context, d time.Duration) error {
			return ctx.Err()
		},
	}
	return cfg
}

func TestMissionNew(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a simulator", func(t *testing.T) {
		_, err := mission.New(ctx, offline.New(), nil, quickConfig())
		gt.Error(t, err)
	})

	t.Run("requires a positive step budget", func(t *testing.T) {
		cfg := quickConfig()
		cfg.StepBudget = 0
		_, err := mission.New(ctx, offline.New(), &fakeSim{}, cfg)
		gt.Error(t, err)
	})

	t.Run("starts in the INIT state", func(t *testing.T) {
		m, err := mission.New(ctx, offline.New(), &fakeSim{}, quickConfig())
		gt.NoError(t, err)
		gt.Equal(t, m.State(), mission.StateInit)
		gt.NotEqual(t, m.ID(), "")
	})
}

func TestMissionRun(t *testing.T) {
	ctx := context.Background()

	t.Run("step budget truncates a mission that never lands", func(t *testing.T) {
		cfg := quickConfig()
		cfg.StepBudget = 300

		s := &fakeSim{}
		m, err := mission.New(ctx, offline.New(), s, cfg)
		gt.NoError(t, err)

		result, err := m.Run(ctx)
		gt.NoError(t, err)

		gt.Equal(t, result.Steps, 300)
		gt.Equal(t, s.executes, 300)
		gt.Equal(t, result.Status, mission.StatusTruncated)
		gt.False(t, result.Success)
		gt.Equal(t, m.State(), mission.StateTerminated)
	})

	t.Run("stops as soon as the simulator finishes", func(t *testing.T) {
		cfg := quickConfig()
		cfg.StepBudget = 100

		s := &fakeSim{doneAfter: 4, reward: 250}
		m, err := mission.New(ctx, offline.New(), s, cfg)
		gt.NoError(t, err)

		result, err := m.Run(ctx)
		gt.NoError(t, err)
		gt.Equal(t, result.Steps, 4)
		gt.Equal(t, len(result.Log), 4)
	})

	t.Run("outcome classification by total reward", func(t *testing.T) {
		testCases := map[string]struct {
			reward float64
			want   mission.Status
		}{
			"clean landing":    {reward: 250, want: mission.StatusSuccess},
			"hard crash":       {reward: -150, want: mission.StatusCrash},
			"survived but off": {reward: 50, want: mission.StatusIncomplete},
		}

		for name, tc := range testCases {
			t.Run(name, func(t *testing.T) {
				s := &fakeSim{doneAfter: 1, reward: tc.reward}
				m, err := mission.New(ctx, offline.New(), s, quickConfig())
				gt.NoError(t, err)

				result, err := m.Run(ctx)
				gt.NoError(t, err)
				gt.Equal(t, result.Status, tc.want)
				gt.Equal(t, result.Success, tc.want == mission.StatusSuccess)
			})
		}
	})

	t.Run("cancelled context aborts the run", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)

		m, err := mission.New(ctx, offline.New(), &fakeSim{}, quickConfig())
		gt.NoError(t, err)

		cancel()
		_, err = m.Run(cancelled)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("full offline mission against the real simulator", func(t *testing.T) {
		cfg := quickConfig()
		cfg.StepBudget = 100

		m, err := mission.New(ctx, offline.New(), sim.New(sim.WithSeed(42)), cfg)
		gt.NoError(t, err)

		result, err := m.Run(ctx)
		gt.NoError(t, err)

		gt.N(t, result.Steps).Greater(0)
		gt.Equal(t, len(result.Log), result.Steps)
		gt.NotEqual(t, result.Status, mission.Status(""))

		// Every logged decision is a valid maneuver.
		for _, rec := range result.Log {
			gt.Value(t, maneuver.Validate(rec.Decision)).Equal(rec.Decision)
		}
	})
}

func TestNavigator(t *testing.T) {
	ctx := context.Background()

	t.Run("degrades to fallback advice when every retry fails", func(t *testing.T) {
		session := &mock.SessionMock{
			GenerateContentFunc: func(ctx context.Context, input ...armstrong.Input) (*armstrong.Response, error) {
				return nil, errors.New("unavailable")
			},
		}
		client := &mock.LLMClientMock{
			NewSessionFunc: func(ctx context.Context, options ...armstrong.SessionOption) (armstrong.Session, error) {
				return session, nil
			},
		}

		cfg := quickConfig()
		nav, err := mission.NewNavigator(ctx, client, cfg.Backoff, cfg.Compaction, nil)
		gt.NoError(t, err)

		advice := nav.Advise(ctx, "Altitude: 1.00.")
		gt.Equal(t, advice, mission.FallbackAdvice)
		gt.Equal(t, session.GenerateContentCalls, 2)
	})

	t.Run("degrades to fallback advice on an empty response", func(t *testing.T) {
		client := &mock.LLMClientMock{
			NewSessionFunc: func(ctx context.Context, options ...armstrong.SessionOption) (armstrong.Session, error) {
				return &mock.SessionMock{
					GenerateContentFunc: func(ctx context.Context, input ...armstrong.Input) (*armstrong.Response, error) {
						return &armstrong.Response{}, nil
					},
				}, nil
			},
		}

		cfg := quickConfig()
		nav, err := mission.NewNavigator(ctx, client, cfg.Backoff, cfg.Compaction, nil)
		gt.NoError(t, err)
		gt.Equal(t, nav.Advise(ctx, "Altitude: 1.00."), mission.FallbackAdvice)
	})

	t.Run("session memory stays bounded across a long flight", func(t *testing.T) {
		cfg := quickConfig()
		nav, err := mission.NewNavigator(ctx, offline.New(), cfg.Backoff, cfg.Compaction, nil)
		gt.NoError(t, err)

		tel := sim.Telemetry{Y: 1.0, VY: -0.2}
		for i := 0; i < 40; i++ {
			advice := nav.Advise(ctx, tel.Describe())
			gt.NotEqual(t, advice, "")
		}

		gt.N(t, nav.History().ToCount()).Less(cfg.Compaction.Interval + 2)
	})
}

func TestCommander(t *testing.T) {
	ctx := context.Background()

	t.Run("missing tool call degrades to the HOLD fallback", func(t *testing.T) {
		client := &mock.LLMClientMock{
			NewSessionFunc: func(ctx context.Context, options ...armstrong.SessionOption) (armstrong.Session, error) {
				return &mock.SessionMock{
					GenerateContentFunc: func(ctx context.Context, input ...armstrong.Input) (*armstrong.Response, error) {
						return &armstrong.Response{Texts: []string{"I would fire the main engine."}}, nil
					},
				}, nil
			},
		}

		cmd, err := mission.NewCommander(ctx, client, quickConfig().Backoff, nil)
		gt.NoError(t, err)

		gt.Value(t, cmd.Decide(ctx, "Altitude: 1.00.", "descend")).Equal(maneuver.Fallback())
	})

	t.Run("exhausted retries degrade to the HOLD fallback", func(t *testing.T) {
		client := &mock.LLMClientMock{
			NewSessionFunc: func(ctx context.Context, options ...armstrong.SessionOption) (armstrong.Session, error) {
				return &mock.SessionMock{
					GenerateContentFunc: func(ctx context.Context, input ...armstrong.Input) (*armstrong.Response, error) {
						return nil, errors.New("unavailable")
					},
				}, nil
			},
		}

		cmd, err := mission.NewCommander(ctx, client, quickConfig().Backoff, nil)
		gt.NoError(t, err)

		gt.Value(t, cmd.Decide(ctx, "Altitude: 1.00.", "descend")).Equal(maneuver.Fallback())
	})

	t.Run("malformed tool arguments are corrected, not fatal", func(t *testing.T) {
		client := &mock.LLMClientMock{
			NewSessionFunc: func(ctx context.Context, options ...armstrong.SessionOption) (armstrong.Session, error) {
				return &mock.SessionMock{
					GenerateContentFunc: func(ctx context.Context, input ...armstrong.Input) (*armstrong.Response, error) {
						return &armstrong.Response{
							FunctionCalls: []*armstrong.FunctionCall{{
								ID:   "call_1",
								Name: mission.ManeuverToolName,
								Arguments: map[string]any{
									"action":   "BOOST",
									"duration": float64(999),
								},
							}},
						}, nil
					},
				}, nil
			},
		}

		cmd, err := mission.NewCommander(ctx, client, quickConfig().Backoff, nil)
		gt.NoError(t, err)

		decision := cmd.Decide(ctx, "Altitude: 1.00.", "descend")
		gt.Equal(t, decision.Action, maneuver.Hold)
		gt.Equal(t, decision.Duration, maneuver.MaxDuration)
	})

	t.Run("well formed tool call passes through", func(t *testing.T) {
		client := &mock.LLMClientMock{
			NewSessionFunc: func(ctx context.Context, options ...armstrong.SessionOption) (armstrong.Session, error) {
				return &mock.SessionMock{
					GenerateContentFunc: func(ctx context.Context, input ...armstrong.Input) (*armstrong.Response, error) {
						return &armstrong.Response{
							FunctionCalls: []*armstrong.FunctionCall{{
								ID:   "call_1",
								Name: mission.ManeuverToolName,
								Arguments: map[string]any{
									"action":    "MAIN_ENGINE",
									"duration":  float64(4),
									"reasoning": "braking descent",
								},
							}},
						}, nil
					},
				}, nil
			},
		}

		cmd, err := mission.NewCommander(ctx, client, quickConfig().Backoff, nil)
		gt.NoError(t, err)

		decision := cmd.Decide(ctx, "Altitude: 1.00.", "descend")
		gt.Equal(t, decision.Action, maneuver.MainEngine)
		gt.Equal(t, decision.Duration, 4)
	})
}

func TestManeuverTool(t *testing.T) {
	tool := &mission.ManeuverTool{}

	t.Run("spec is valid and compiles to a schema", func(t *testing.T) {
		spec := tool.Spec()
		gt.NoError(t, spec.Validate())

		_, err := armstrong.NewArgumentChecker(spec)
		gt.NoError(t, err)
	})

	t.Run("run echoes the corrected maneuver", func(t *testing.T) {
		out, err := tool.Run(context.Background(), map[string]any{
			"action":   "main_engine",
			"duration": float64(99),
		})
		gt.NoError(t, err)
		gt.Equal(t, out["status"], "success")
		gt.Equal(t, out["action"], any(string(maneuver.MainEngine)))
		gt.Equal(t, out["duration"], maneuver.MaxDuration)
	})
}
