package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/optionlab/backend/internal/marketdata"
	"github.com/wonny/optionlab/backend/internal/scheduler"
	"github.com/wonny/optionlab/backend/internal/scheduler/jobs"
	"github.com/wonny/optionlab/backend/pkg/config"
	"github.com/wonny/optionlab/backend/pkg/database"
	"github.com/wonny/optionlab/backend/pkg/logger"
)

// schedulerCmd runs the job scheduler daemon.
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the job scheduler",
	Long: `Start the scheduler daemon.

Registered jobs:
  price_sync - end-of-day close sync for MD_TICKERS (MD_SYNC_SCHEDULE)

Example:
  go run ./cmd/optionlab scheduler
  go run ./cmd/optionlab scheduler --run-now`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "trigger price_sync immediately on start")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== OptionLab Scheduler ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	source, err := buildSource(cfg, log)
	if err != nil {
		return err
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	col := marketdata.NewCollector(source, marketdata.NewRepository(db.Pool), log)

	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewPriceSyncJob(col, cfg, log)); err != nil {
		return fmt.Errorf("register price_sync: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	if schedulerRunNow {
		if err := sched.RunJob("price_sync"); err != nil {
			return err
		}
	}

	fmt.Println("Scheduler running. Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
