package main

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"stablesim/internal/engine"
	"stablesim/internal/model"
	"stablesim/internal/population"
	"stablesim/internal/recorder"
	"stablesim/internal/report"
	"stablesim/internal/rng"
)

// tickLogger prints aggregate totals every few ticks so long runs show
// progress on the terminal.
type tickLogger struct {
	every int
}

func (l *tickLogger) OnTick(st model.TickStats) {
	if st.Tick%l.every == 0 {
		log.Printf("[INFO] tick %d: deposits=%.2f coin=%.2f", st.Tick, st.TotalDeposits, st.TotalCoin)
	}
}

func (l *tickLogger) OnSnapshot(model.Snapshot) {}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation to completion and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if seed, _ := cmd.Flags().GetInt64("seed"); cmd.Flags().Changed("seed") {
				cfg.Run.Seed = seed
			}
			if mt, _ := cmd.Flags().GetInt("max-ticks"); cmd.Flags().Changed("max-ticks") {
				cfg.Run.MaxTicks = mt
			}

			if dir, _ := cmd.Flags().GetString("cpuprofile"); dir != "" {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir)).Stop()
			}

			rec := openRecorder(cfg)
			defer rec.Close()

			runID := uuid.NewString()
			log.Printf("[INFO] starting run %s (seed=%d, max_ticks=%d)", runID, cfg.Run.Seed, cfg.Run.MaxTicks)

			rnd := rng.NewSampler(cfg.Run.Seed)
			pop := population.Setup(cfg.Simulation, rnd)
			eng := engine.New(cfg.Simulation, pop, rnd)
			eng.MaxTicks = cfg.Run.MaxTicks
			eng.SnapshotEvery = cfg.Run.SnapshotInterval
			eng.AddSink(&recorder.TickSink{RunID: runID, Rec: rec})
			if cfg.Run.LogInterval > 0 {
				eng.AddSink(&tickLogger{every: cfg.Run.LogInterval})
			}

			if err := rec.RecordRun(&recorder.RunMeta{
				RunID:   runID,
				Trigger: "cli",
				Seed:    cfg.Run.Seed,
				Params:  cfg.Simulation,
			}); err != nil {
				log.Printf("[ERROR] record run: %v", err)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			res := eng.Run(ctx)

			if err := rec.FinishRun(runID, &res); err != nil {
				log.Printf("[ERROR] finish run: %v", err)
			}

			log.Printf("[INFO] run %s finished: %d ticks, stop=%s", runID, res.Ticks, res.Stop)
			fmt.Println(report.FormatText(&res))
			return nil
		},
	}

	cmd.Flags().Int64("seed", 0, "Random seed (0 = time-based)")
	cmd.Flags().Int("max-ticks", 0, "Tick bound (negative = run until the wealth ceiling)")
	cmd.Flags().String("cpuprofile", "", "Write a CPU profile into this directory")
	return cmd
}
