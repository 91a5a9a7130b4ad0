package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stablesim/internal/config"
	"stablesim/internal/recorder"
)

var version = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// A local .env (if present) feeds the env overrides in config.Load.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "stablesim",
		Short: "Agent-based simulation of stablecoin adoption versus bank deposits",
		Long: `stablesim simulates households choosing between bank deposits and a
stablecoin for everyday payments. Households transact over a small social
network, learn how useful the coin is, and shift their savings in response
to peers and to the health of their bank.`,
	}

	rootCmd.PersistentFlags().String("config", "configs/config.yaml", "Path to the YAML config file")

	rootCmd.AddCommand(
		newRunCmd(),
		newDaemonCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if v := os.Getenv("CONFIG_PATH"); v != "" && !cmd.Flags().Changed("config") {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// openRecorder builds the history recorder, falling back to a noop one
// so a broken database path never blocks a run.
func openRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	if dir := filepath.Dir(cfg.Database.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("[WARN] create database directory failed, using noop recorder: %v", err)
			return recorder.NewNoopRecorder()
		}
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}
