package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/lunarops/armstrong"
	"github.com/lunarops/armstrong/mission"
	"github.com/lunarops/armstrong/sim"
)

func flyCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:  "steps",
			Usage: "maximum decision steps for the mission",
			Value: 100,
		},
		&cli.DurationFlag{
			Name:    "pace",
			Usage:   "minimum delay between decision steps (request-rate ceiling)",
			Value:   9 * time.Second,
			Sources: cli.EnvVars("ARMSTRONG_PACE"),
		},
		&cli.IntFlag{
			Name:  "compact-interval",
			Usage: "navigator history length that triggers compaction",
			Value: 10,
		},
		&cli.IntFlag{
			Name:  "compact-overlap",
			Usage: "recent messages kept verbatim across compaction",
			Value: 2,
		},
		&cli.StringFlag{
			Name:  "record",
			Usage: "write a mission replay GIF to this path",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "write the step-by-step mission log JSON to this path",
			Value: "mission_log.json",
		},
		&cli.IntFlag{
			Name:  "seed",
			Usage: "simulator seed (0 means random)",
		},
	}
	flags = append(flags, providerFlags()...)

	return &cli.Command{
		Name:  "fly",
		Usage: "run one landing mission end to end",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := newLogger(cmd)

			client, err := newLLMClient(ctx, cmd, logger)
			if err != nil {
				return err
			}

			var simOpts []sim.Option
			if seed := cmd.Int("seed"); seed != 0 {
				simOpts = append(simOpts, sim.WithSeed(int64(seed)))
			}
			var recorder *sim.Recorder
			if cmd.String("record") != "" {
				recorder = sim.NewRecorder()
				simOpts = append(simOpts, sim.WithRecorder(recorder))
			}
			lander := sim.New(simOpts...)

			cfg := mission.DefaultConfig()
			cfg.StepBudget = int(cmd.Int("steps"))
			cfg.Pacing = cmd.Duration("pace")
			cfg.Compaction = armstrong.CompactionPolicy{
				Interval: int(cmd.Int("compact-interval")),
				Overlap:  int(cmd.Int("compact-overlap")),
			}
			cfg.Logger = logger

			m, err := mission.New(ctx, client, lander, cfg)
			if err != nil {
				return err
			}

			result, err := m.Run(ctx)
			if err != nil {
				return err
			}

			if path := cmd.String("log-file"); path != "" {
				if err := mission.SaveResult(path, result); err != nil {
					return err
				}
				logger.Info("mission log saved", slog.String("path", path))
			}
			if path := cmd.String("record"); path != "" {
				if err := recorder.SaveGIF(path); err != nil {
					return err
				}
				logger.Info("mission replay saved", slog.String("path", path))
			}

			// Any completed mission exits zero, whatever the landing
			// outcome was.
			fmt.Printf("RESULT: %s (reward %.2f, %d steps)\n",
				result.Status, result.TotalReward, result.Steps)
			return nil
		},
	}
}
