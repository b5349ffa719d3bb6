package mission

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"

	"github.com/lunarops/armstrong"
)

// Report aggregates a batch evaluation run. SuccessRate is a fraction in
// [0, 1].
type Report struct {
	Episodes    int       `json:"episodes"`
	MeanReward  float64   `json:"mean_reward"`
	SuccessRate float64   `json:"success_rate"`
	Results     []*Result `json:"results"`
}

// Evaluate runs n missions sequentially and aggregates their outcomes.
// Each episode gets fresh agent sessions and a fresh simulator from newSim.
// Aggregates are only defined for n >= 1.
func Evaluate(ctx context.Context, client armstrong.LLMClient, newSim func() Simulator, n int, cfg Config) (*Report, error) {
	if n < 1 {
		return nil, goerr.New("at least one episode is required", goerr.V("episodes", n))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	report := &Report{Episodes: n}
	var rewardSum float64
	successes := 0

	for i := 1; i <= n; i++ {
		logger.Info("starting episode", slog.Int("episode", i), slog.Int("total", n))

		m, err := New(ctx, client, newSim(), cfg)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to prepare episode", goerr.V("episode", i))
		}

		result, err := m.Run(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "episode aborted", goerr.V("episode", i))
		}

		rewardSum += result.TotalReward
		if result.Success {
			successes++
		}
		report.Results = append(report.Results, result)

		logger.Info("episode finished",
			slog.Int("episode", i),
			slog.String("status", string(result.Status)),
			slog.Float64("reward", result.TotalReward),
		)
	}

	report.MeanReward = rewardSum / float64(n)
	report.SuccessRate = float64(successes) / float64(n)
	return report, nil
}
