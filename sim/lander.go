// Package sim implements a compact 2D lunar lander environment with the
// same action vocabulary, telemetry shape and reward scale as the classic
// control benchmark: shaped approach reward, ±100 terminal bonus, and
// episode rewards around +200 for a clean pad landing.
package sim

import (
	"math"
	"math/rand"
)

// Low-level action codes.
const (
	ActionNone        = 0
	ActionRightEngine = 1
	ActionMainEngine  = 2
	ActionLeftEngine  = 3
)

// Physics constants, per frame at 50 frames per simulated second.
const (
	frameDT     = 0.02
	gravity     = 0.08 // units/s^2, downward
	mainThrust  = 0.22 // units/s^2 along the body axis
	sideThrust  = 0.02 // units/s^2 lateral
	sideTorque  = 1.2  // rad/s^2
	angularDrag = 0.4  // fraction of angular velocity removed per second
)

// Landing envelope.
const (
	padHalfWidth   = 0.25
	maxLandingVY   = 0.40
	maxLandingVX   = 0.30
	maxLandingTilt = 0.35
	fieldHalfWidth = 1.5
	ceilingY       = 2.5
)

// MaxEpisodeFrames truncates runaway episodes inside the simulator itself.
// The mission loop applies its own (smaller) step budget on top.
const MaxEpisodeFrames = 1000

// Outcome of a terminated episode.
type Outcome string

const (
	OutcomeFlying  Outcome = "FLYING"
	OutcomeLanded  Outcome = "LANDED"
	OutcomeCrashed Outcome = "CRASHED"
)

// StepResult is the observation after one low-level frame.
type StepResult struct {
	Telemetry  Telemetry
	Reward     float64
	Terminated bool
	Truncated  bool
}

// ExecResult aggregates the frames of one maneuver.
type ExecResult struct {
	Telemetry Telemetry
	Reward    float64
	Frames    int
	Done      bool
}

// Lander is the simulator. It is not safe for concurrent use; the mission
// loop is strictly sequential.
type Lander struct {
	x, y, vx, vy  float64
	angle, vangle float64
	leftContact   bool
	rightContact  bool

	frames      int
	totalReward float64
	prevShaping float64
	done        bool
	outcome     Outcome

	rng      *rand.Rand
	recorder *Recorder
}

// Option configures the Lander.
type Option func(*Lander)

// WithSeed makes the initial conditions deterministic.
func WithSeed(seed int64) Option {
	return func(l *Lander) {
		l.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRecorder captures a frame per simulation step for replay video.
func WithRecorder(r *Recorder) Option {
	return func(l *Lander) {
		l.recorder = r
	}
}

// New creates a Lander and resets it to initial conditions.
func New(options ...Option) *Lander {
	l := &Lander{}
	for _, opt := range options {
		opt(l)
	}
	if l.rng == nil {
		l.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	l.Reset()
	return l
}

// Reset re-initializes the episode and returns the first telemetry.
func (l *Lander) Reset() Telemetry {
	l.x = l.rng.Float64()*0.6 - 0.3
	l.y = 1.4
	l.vx = l.rng.Float64()*0.2 - 0.1
	l.vy = -0.1
	l.angle = l.rng.Float64()*0.2 - 0.1
	l.vangle = 0
	l.leftContact = false
	l.rightContact = false

	l.frames = 0
	l.totalReward = 0
	l.done = false
	l.outcome = OutcomeFlying
	l.prevShaping = l.shaping()

	if l.recorder != nil {
		l.recorder.Capture(l.frameState(ActionNone))
	}
	return l.Telemetry()
}

// Telemetry returns the current state snapshot.
func (l *Lander) Telemetry() Telemetry {
	return Telemetry{
		X:               l.x,
		Y:               l.y,
		VX:              l.vx,
		VY:              l.vy,
		Angle:           l.angle,
		AngularVelocity: l.vangle,
		LeftLegContact:  l.leftContact,
		RightLegContact: l.rightContact,
		Steps:           l.frames,
	}
}

// Done reports whether the episode has ended.
func (l *Lander) Done() bool { return l.done }

// TotalReward returns the accumulated episode reward.
func (l *Lander) TotalReward() float64 { return l.totalReward }

// Frames returns the number of low-level frames simulated.
func (l *Lander) Frames() int { return l.frames }

// Outcome reports how the episode ended, or OutcomeFlying while running.
func (l *Lander) Outcome() Outcome { return l.outcome }

// Step advances the simulation by one frame with the given action code.
// Stepping a finished episode is a no-op.
func (l *Lander) Step(action int) StepResult {
	if l.done {
		return StepResult{Telemetry: l.Telemetry(), Terminated: true}
	}

	// Thruster accelerations in world frame. The main engine pushes along
	// the body axis, so tilt leaks thrust sideways.
	var ax, ay, aw float64
	switch action {
	case ActionMainEngine:
		ax = mainThrust * math.Sin(l.angle)
		ay = mainThrust * math.Cos(l.angle)
	case ActionLeftEngine:
		// Left thruster pushes the lander right and rotates it
		// counter-clockwise (angle decreases).
		ax = sideThrust
		aw = -sideTorque
	case ActionRightEngine:
		ax = -sideThrust
		aw = sideTorque
	}

	l.vx += ax * frameDT
	l.vy += (ay - gravity) * frameDT
	l.vangle += aw * frameDT
	l.vangle -= l.vangle * angularDrag * frameDT

	l.x += l.vx * frameDT
	l.y += l.vy * frameDT
	l.angle += l.vangle * frameDT

	l.frames++

	reward := l.frameReward(action)
	l.totalReward += reward

	if l.recorder != nil {
		l.recorder.Capture(l.frameState(action))
	}

	truncated := false
	if !l.done && l.frames >= MaxEpisodeFrames {
		l.done = true
		truncated = true
	}

	return StepResult{
		Telemetry:  l.Telemetry(),
		Reward:     reward,
		Terminated: l.done && !truncated,
		Truncated:  truncated,
	}
}

// Execute applies the action for up to the given number of frames, stopping
// early if the episode ends. This is the maneuver-level entry point used by
// the mission loop.
func (l *Lander) Execute(action int, frames int) ExecResult {
	var res ExecResult
	for i := 0; i < frames; i++ {
		if l.done {
			break
		}
		step := l.Step(action)
		res.Reward += step.Reward
		res.Frames++
	}
	res.Telemetry = l.Telemetry()
	res.Done = l.done
	return res
}

// shaping is the potential function for reward shaping: closer, slower and
// more upright is better.
func (l *Lander) shaping() float64 {
	s := -100*math.Sqrt(l.x*l.x+l.y*l.y) -
		100*math.Sqrt(l.vx*l.vx+l.vy*l.vy) -
		100*math.Abs(l.angle)
	if l.leftContact {
		s += 10
	}
	if l.rightContact {
		s += 10
	}
	return s
}

func (l *Lander) frameReward(action int) float64 {
	// Ground contact and bounds checks decide termination first.
	if l.y <= 0 {
		l.y = 0
		l.leftContact = true
		l.rightContact = true
		l.done = true

		safe := math.Abs(l.vy) <= maxLandingVY &&
			math.Abs(l.vx) <= maxLandingVX &&
			math.Abs(l.angle) <= maxLandingTilt &&
			math.Abs(l.x) <= padHalfWidth
		if safe {
			l.outcome = OutcomeLanded
		} else {
			l.outcome = OutcomeCrashed
		}
	} else if math.Abs(l.x) > fieldHalfWidth || l.y > ceilingY {
		l.done = true
		l.outcome = OutcomeCrashed
	}

	shaping := l.shaping()
	reward := shaping - l.prevShaping
	l.prevShaping = shaping

	switch action {
	case ActionMainEngine:
		reward -= 0.30
	case ActionLeftEngine, ActionRightEngine:
		reward -= 0.03
	}

	switch l.outcome {
	case OutcomeLanded:
		reward += 100
	case OutcomeCrashed:
		reward -= 100
	}

	return reward
}

func (l *Lander) frameState(action int) frameState {
	return frameState{
		x:      l.x,
		y:      l.y,
		angle:  l.angle,
		action: action,
	}
}
