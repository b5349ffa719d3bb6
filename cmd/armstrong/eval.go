package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/lunarops/armstrong/mission"
	"github.com/lunarops/armstrong/sim"
)

func evalCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:  "episodes",
			Usage: "number of missions to fly",
			Value: 3,
		},
		&cli.IntFlag{
			Name:  "steps",
			Usage: "maximum decision steps per mission",
			Value: 80,
		},
		&cli.DurationFlag{
			Name:    "pace",
			Usage:   "minimum delay between decision steps (request-rate ceiling)",
			Value:   9 * time.Second,
			Sources: cli.EnvVars("ARMSTRONG_PACE"),
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "write the evaluation report JSON to this path",
			Value: "evaluation_report.json",
		},
	}
	flags = append(flags, providerFlags()...)

	return &cli.Command{
		Name:  "eval",
		Usage: "run N missions and report mean reward and success rate",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := newLogger(cmd)

			client, err := newLLMClient(ctx, cmd, logger)
			if err != nil {
				return err
			}

			cfg := mission.DefaultConfig()
			cfg.StepBudget = int(cmd.Int("steps"))
			cfg.Pacing = cmd.Duration("pace")
			cfg.Logger = logger

			newSim := func() mission.Simulator { return sim.New() }

			report, err := mission.Evaluate(ctx, client, newSim, int(cmd.Int("episodes")), cfg)
			if err != nil {
				return err
			}

			if path := cmd.String("report"); path != "" {
				if err := mission.SaveReport(path, report); err != nil {
					return err
				}
				logger.Info("evaluation report saved", slog.String("path", path))
			}

			fmt.Printf("Episodes: %d\nMean Reward: %.2f\nSuccess Rate: %.1f%%\n",
				report.Episodes, report.MeanReward, report.SuccessRate*100)
			return nil
		},
	}
}
