// Package mission drives the landing control loop: telemetry in, Navigator
// advice, Commander decision, validated maneuver out to the simulator. One
// Mission is one episode.
package mission

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/lunarops/armstrong"
	"github.com/lunarops/armstrong/maneuver"
	"github.com/lunarops/armstrong/sim"
)

// State of the mission loop.
type State string

const (
	StateInit       State = "INIT"
	StateRunning    State = "RUNNING"
	StateTerminated State = "TERMINATED"
)

// Status is the outcome of a terminated mission.
type Status string

const (
	StatusSuccess    Status = "SUCCESS"
	StatusCrash      Status = "CRASH"
	StatusIncomplete Status = "INCOMPLETE"
	StatusTruncated  Status = "TRUNCATED"
)

// Reward thresholds classifying the episode outcome.
const (
	SuccessReward = 200
	CrashReward   = -100
)

// Simulator is the environment consumed by the mission loop. *sim.Lander
// implements it; tests substitute their own.
type Simulator interface {
	Reset() sim.Telemetry
	Execute(action int, frames int) sim.ExecResult
	Done() bool
	TotalReward() float64
}

// Config holds the mission loop parameters.
type Config struct {
	// StepBudget is the maximum number of decision steps per mission.
	StepBudget int

	// Pacing is the minimum wall-clock delay between loop iterations,
	// to respect the remote API request-rate ceiling. It is a plain
	// blocking wait, not a retry.
	Pacing time.Duration

	// Backoff is the retry policy for remote model calls.
	Backoff armstrong.BackoffPolicy

	// Compaction bounds the Navigator's session memory.
	Compaction armstrong.CompactionPolicy

	Logger *slog.Logger

	// Sleep implements the pacing wait. If nil a context-aware
	// time.Sleep equivalent is used; tests inject a no-op.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultConfig returns the mission parameters used by the CLI. The 9
// second pacing accommodates a 15 requests/minute API tier at two requests
// per step.
func DefaultConfig() Config {
	return Config{
		StepBudget: 100,
		Pacing:     9 * time.Second,
		Backoff:    armstrong.DefaultBackoffPolicy(),
		Compaction: armstrong.CompactionPolicy{Interval: 10, Overlap: 2},
	}
}

// StepRecord logs one decision step for the mission report.
type StepRecord struct {
	Step      int               `json:"step"`
	Telemetry string            `json:"telemetry"`
	Advice    string            `json:"navigator_advice"`
	Decision  maneuver.Maneuver `json:"commander_decision"`
	Reward    float64           `json:"reward_accumulated"`
	Frames    int               `json:"frames_executed"`
}

// Result is the immutable outcome of one mission.
type Result struct {
	MissionID   string       `json:"mission_id"`
	Status      Status       `json:"status"`
	Success     bool         `json:"success"`
	TotalReward float64      `json:"total_reward"`
	Steps       int          `json:"steps"`
	Log         []StepRecord `json:"log,omitempty"`
}

// Mission runs one episode end to end.
type Mission struct {
	id        string
	cfg       Config
	simulator Simulator
	navigator *Navigator
	commander *Commander
	logger    *slog.Logger
	state     State
}

// New prepares a mission: one Navigator session and one Commander session
// on the given LLM client, bound to the simulator.
func New(ctx context.Context, client armstrong.LLMClient, simulator Simulator, cfg Config) (*Mission, error) {
	if simulator == nil {
		return nil, goerr.New("simulator is required")
	}
	if cfg.StepBudget <= 0 {
		return nil, goerr.New("step budget must be positive", goerr.V("budget", cfg.StepBudget))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	id := uuid.NewString()
	logger = logger.With(slog.String("mission_id", id))

	navigator, err := NewNavigator(ctx, client, cfg.Backoff, cfg.Compaction, logger)
	if err != nil {
		return nil, err
	}
	commander, err := NewCommander(ctx, client, cfg.Backoff, logger)
	if err != nil {
		return nil, err
	}

	return &Mission{
		id:        id,
		cfg:       cfg,
		simulator: simulator,
		navigator: navigator,
		commander: commander,
		logger:    logger,
		state:     StateInit,
	}, nil
}

// ID returns the mission identifier.
func (m *Mission) ID() string { return m.id }

// State returns the current loop state.
func (m *Mission) State() State { return m.state }

// Run executes the mission to natural termination or step-budget
// exhaustion. Remote-call failures are masked by fallbacks and never abort
// the run; only context cancellation returns an error.
func (m *Mission) Run(ctx context.Context) (*Result, error) {
	telemetry := m.simulator.Reset()
	m.state = StateRunning
	m.logger.Info("mission start", slog.Int("step_budget", m.cfg.StepBudget))

	var log []StepRecord
	steps := 0

	for steps < m.cfg.StepBudget && !m.simulator.Done() {
		if err := ctx.Err(); err != nil {
			m.state = StateTerminated
			return nil, goerr.Wrap(err, "mission aborted", goerr.V("steps", steps))
		}

		steps++
		report := telemetry.Describe()

		advice := m.navigator.Advise(ctx, report)
		decision := m.commander.Decide(ctx, report, advice)

		res := m.simulator.Execute(decision.Action.EnvCode(), decision.Duration)
		telemetry = res.Telemetry

		m.logger.Info("step",
			slog.Int("n", steps),
			slog.String("action", string(decision.Action)),
			slog.Int("duration", decision.Duration),
			slog.Float64("reward", res.Reward),
			slog.Float64("total_reward", m.simulator.TotalReward()),
		)

		log = append(log, StepRecord{
			Step:      steps,
			Telemetry: report,
			Advice:    advice,
			Decision:  decision,
			Reward:    res.Reward,
			Frames:    res.Frames,
		})

		if m.simulator.Done() {
			break
		}

		if err := m.pace(ctx); err != nil {
			m.state = StateTerminated
			return nil, goerr.Wrap(err, "mission aborted during pacing", goerr.V("steps", steps))
		}
	}

	m.state = StateTerminated

	result := &Result{
		MissionID:   m.id,
		Status:      m.status(),
		TotalReward: m.simulator.TotalReward(),
		Steps:       steps,
		Log:         log,
	}
	result.Success = result.Status == StatusSuccess

	m.logger.Info("mission end",
		slog.String("status", string(result.Status)),
		slog.Float64("total_reward", result.TotalReward),
		slog.Int("steps", result.Steps),
	)
	return result, nil
}

func (m *Mission) status() Status {
	if !m.simulator.Done() {
		return StatusTruncated
	}

	reward := m.simulator.TotalReward()
	switch {
	case reward >= SuccessReward:
		return StatusSuccess
	case reward <= CrashReward:
		return StatusCrash
	default:
		return StatusIncomplete
	}
}

func (m *Mission) pace(ctx context.Context) error {
	d := m.cfg.Pacing
	if m.cfg.Sleep != nil {
		return m.cfg.Sleep(ctx, d)
	}
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
