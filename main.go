package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"outreachd/catalog"
	"outreachd/config"
	"outreachd/models"
	"outreachd/schedule"
	"outreachd/store"
	"outreachd/trigger"
	"outreachd/verify"
	"outreachd/worker"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection (migrates and seeds workflows)
	if err := config.ConnectDB(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// "dry-run" validates recipient sets and exits without sending
	if len(os.Args) > 1 && os.Args[1] == "dry-run" {
		runDryRun(logger)
		return
	}

	// Wire the activation trigger as a post-update hook on the candidate
	// store; it runs inside the same transaction as each marketing update.
	candidateStore := store.NewCandidateStore(config.DB, logger)
	activationTrigger := trigger.NewActivationTrigger(logger)
	candidateStore.RegisterHook(activationTrigger.OnCandidateMarketingUpdate)

	control := schedule.NewController(config.DB, logger)

	// The executor stub logs dispatches; the real engine replaces it.
	executor := &worker.LogOnlyExecutor{Logger: logger}

	scheduleWorker := worker.NewScheduleWorker(config.DB, control, executor, logger, config.AppConfig.PollInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduleWorker.Start(ctx)

	logger.Info("🚀 outreach activation core running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
}

// runDryRun validates every active workflow's current recipient set and
// reports what a real run would send. No emails go out.
func runDryRun(logger *logrus.Logger) {
	cat := catalog.NewCatalog(config.DB)
	validator := &verify.Validator{SkipMX: config.AppConfig.DryRunSkipMX}

	var workflows []models.AutomationWorkflow
	if err := config.DB.Where("status = ?", "active").Find(&workflows).Error; err != nil {
		log.Fatalf("Failed to list workflows: %v", err)
	}

	for i := range workflows {
		report, err := verify.DryRun(cat, &workflows[i], validator)
		if err != nil {
			logger.WithField("workflow_key", workflows[i].WorkflowKey).WithError(err).Error("dry run failed")
			continue
		}
		logger.WithFields(logrus.Fields{
			"workflow_key":  report.WorkflowKey,
			"total":         report.Total,
			"valid":         len(report.Valid),
			"invalid":       len(report.Invalid),
			"delivery_rate": report.DeliveryRate,
		}).Info("dry run complete; nothing sent")
	}
}
