package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bashhh89/thecustom/internal/cli"
	"github.com/bashhh89/thecustom/internal/config"
	"github.com/bashhh89/thecustom/internal/db"
	"github.com/bashhh89/thecustom/internal/intelligence"
	"github.com/bashhh89/thecustom/internal/llm"
	"github.com/bashhh89/thecustom/internal/metrics"
	"github.com/bashhh89/thecustom/internal/repository"
	"github.com/bashhh89/thecustom/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	sowRepo := repository.NewSQLiteSOWRepo(database)
	rateRepo := repository.NewSQLiteRateCardRepo(database)
	messageRepo := repository.NewSQLiteMessageRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	locks := service.NewDocLocks()

	manager := metrics.NewManager()

	var llmObserver llm.Observer = manager
	if cfg.LLMLogCalls {
		llmObserver = llm.MultiObserver{llm.NewZapObserver(logger), manager}
	}
	client, err := llm.NewClient(cfg.LLM(), llmObserver)
	if err != nil {
		return fmt.Errorf("configuring llm: %w", err)
	}
	drafter := intelligence.NewSOWDrafter(client)

	// Every use case is logged and counted.
	observers := []service.UseCaseObserver{
		service.NewZapUseCaseObserver(logger),
		service.NewMetricsUseCaseObserver(manager),
	}

	app := &cli.App{
		Rates:      service.NewRateCardService(rateRepo, uow, observers...),
		SOWs:       service.NewSOWService(sowRepo, rateRepo, uow, locks, observers...),
		Refine:     service.NewRefineService(rateRepo, uow, locks, observers...),
		Generation: service.NewGenerationService(sowRepo, messageRepo, rateRepo, drafter, uow, locks, observers...),

		HistoryPath: historyPath(),
	}

	// Detect interactive terminal for the shell and delete prompts.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	runErr := rootCmd.ExecuteContext(ctx)

	if cfg.MetricsTextfile != "" {
		if err := manager.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("writing metrics textfile", zap.String("path", cfg.MetricsTextfile), zap.Error(err))
		}
	}
	return runErr
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sowbench", "shell_history")
}
