package sim_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/lunarops/armstrong/sim"
)

func TestReset(t *testing.T) {
	t.Run("same seed yields the same episode", func(t *testing.T) {
		a := sim.New(sim.WithSeed(42))
		b := sim.New(sim.WithSeed(42))

		gt.Value(t, a.Telemetry()).Equal(b.Telemetry())

		for i := 0; i < 50; i++ {
			ra := a.Step(sim.ActionMainEngine)
			rb := b.Step(sim.ActionMainEngine)
			gt.Value(t, ra.Telemetry).Equal(rb.Telemetry)
			gt.Equal(t, ra.Reward, rb.Reward)
		}
	})

	t.Run("initial conditions are within the spawn envelope", func(t *testing.T) {
		for seed := int64(1); seed <= 20; seed++ {
			l := sim.New(sim.WithSeed(seed))
			tel := l.Telemetry()

			gt.Equal(t, tel.Y, 1.4)
			gt.N(t, tel.X).GreaterOrEqual(-0.3)
			gt.N(t, tel.X).LessOrEqual(0.3)
			gt.Equal(t, tel.VY, -0.1)
			gt.False(t, l.Done())
		}
	})

	t.Run("reset clears a finished episode", func(t *testing.T) {
		l := sim.New(sim.WithSeed(7))
		l.Execute(sim.ActionNone, sim.MaxEpisodeFrames)
		gt.True(t, l.Done())

		l.Reset()
		gt.False(t, l.Done())
		gt.Equal(t, l.TotalReward(), 0.0)
		gt.Equal(t, l.Frames(), 0)
	})
}

func TestFreeFall(t *testing.T) {
	// Doing nothing from the spawn altitude builds up more vertical speed
	// than the landing envelope allows, so the episode must end in a crash.
	l := sim.New(sim.WithSeed(1))
	res := l.Execute(sim.ActionNone, sim.MaxEpisodeFrames)

	gt.True(t, res.Done)
	gt.Equal(t, l.Outcome(), sim.OutcomeCrashed)

	// The crash penalty keeps a free fall well below a clean landing score.
	gt.N(t, l.TotalReward()).Less(100)
}

func TestStep(t *testing.T) {
	t.Run("stepping a finished episode is a no-op", func(t *testing.T) {
		l := sim.New(sim.WithSeed(3))
		l.Execute(sim.ActionNone, sim.MaxEpisodeFrames)
		gt.True(t, l.Done())

		frames := l.Frames()
		reward := l.TotalReward()

		res := l.Step(sim.ActionMainEngine)
		gt.True(t, res.Terminated)
		gt.Equal(t, res.Reward, 0.0)
		gt.Equal(t, l.Frames(), frames)
		gt.Equal(t, l.TotalReward(), reward)
	})

	t.Run("main engine slows the descent", func(t *testing.T) {
		free := sim.New(sim.WithSeed(9))
		braked := sim.New(sim.WithSeed(9))

		for i := 0; i < 30; i++ {
			free.Step(sim.ActionNone)
			braked.Step(sim.ActionMainEngine)
		}

		gt.N(t, braked.Telemetry().VY).Greater(free.Telemetry().VY)
	})

	t.Run("side engines rotate in opposite directions", func(t *testing.T) {
		left := sim.New(sim.WithSeed(9))
		right := sim.New(sim.WithSeed(9))

		for i := 0; i < 10; i++ {
			left.Step(sim.ActionLeftEngine)
			right.Step(sim.ActionRightEngine)
		}

		gt.N(t, left.Telemetry().AngularVelocity).Less(0)
		gt.N(t, right.Telemetry().AngularVelocity).Greater(0)
	})
}

func TestExecute(t *testing.T) {
	t.Run("runs the requested number of frames", func(t *testing.T) {
		l := sim.New(sim.WithSeed(5))
		res := l.Execute(sim.ActionNone, 10)

		gt.Equal(t, res.Frames, 10)
		gt.False(t, res.Done)
		gt.Equal(t, l.Frames(), 10)
	})

	t.Run("stops early when the episode ends", func(t *testing.T) {
		l := sim.New(sim.WithSeed(5))
		res := l.Execute(sim.ActionNone, sim.MaxEpisodeFrames*10)

		gt.True(t, res.Done)
		gt.N(t, res.Frames).LessOrEqual(sim.MaxEpisodeFrames)
	})

	t.Run("executing on a finished episode does nothing", func(t *testing.T) {
		l := sim.New(sim.WithSeed(5))
		l.Execute(sim.ActionNone, sim.MaxEpisodeFrames)
		gt.True(t, l.Done())

		res := l.Execute(sim.ActionMainEngine, 10)
		gt.Equal(t, res.Frames, 0)
		gt.Equal(t, res.Reward, 0.0)
		gt.True(t, res.Done)
	})
}

func TestTelemetryDescribe(t *testing.T) {
	t.Run("flying report", func(t *testing.T) {
		tel := sim.Telemetry{
			X: -0.25, Y: 1.25, VX: 0.10, VY: -0.50,
			Angle: 0.05, AngularVelocity: -0.01,
		}

		want := "Altitude: 1.25. Position X: -0.25 (0 is center). " +
			"Vertical Velocity: -0.50 (Negative is falling). " +
			"Horizontal Velocity: 0.10. Angle: 0.05 radians. " +
			"Angular Velocity: -0.01. Status: Flying."
		gt.Equal(t, tel.Describe(), want)
	})

	t.Run("touchdown report", func(t *testing.T) {
		tel := sim.Telemetry{LeftLegContact: true}
		gt.S(t, tel.Describe()).Contains("Status: Touchdown imminent/Landed.")
	})
}
