package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stablesim/internal/notifier"
	"stablesim/internal/scheduler"
)

func newDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run scheduled batch simulations, with optional Telegram control",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log.Println("[INFO] stablesim daemon starting...")

			rec := openRecorder(cfg)
			defer rec.Close()

			tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
			if !tn.Enabled() {
				log.Println("[INFO] Telegram notifier disabled (no credentials configured)")
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sched := scheduler.NewScheduler(ctx, cfg, tn, rec)
			if err := sched.RegisterAll(); err != nil {
				return fmt.Errorf("register cron tasks: %w", err)
			}
			sched.Start()
			defer sched.Stop()

			if tn.Enabled() {
				go tn.StartPolling(ctx, sched.HandleCommand)
				log.Println("[INFO] Telegram polling started")
			}

			runOnStart, _ := cmd.Flags().GetBool("run-on-start")
			if runOnStart || os.Getenv("RUN_ON_START") == "true" {
				log.Println("[INFO] run-on-start enabled, executing batch run now")
				go sched.RunNow("startup")
			}

			log.Println("[INFO] stablesim daemon is running. Press Ctrl+C to stop.")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Println("[INFO] shutdown signal received, stopping...")
			cancel()
			log.Println("[INFO] stablesim daemon stopped")
			return nil
		},
	}

	cmd.Flags().Bool("run-on-start", false, "Execute one batch run immediately at startup")
	return cmd
}
