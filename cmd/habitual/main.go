package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/habitual/internal/cli"
	"github.com/alexanderramin/habitual/internal/config"
	"github.com/alexanderramin/habitual/internal/db"
	"github.com/alexanderramin/habitual/internal/metrics"
	"github.com/alexanderramin/habitual/internal/repository"
	"github.com/alexanderramin/habitual/internal/service"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	// Defaults, then ~/.habitual/config.yaml (or HABITUAL_CONFIG), then env.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories and unit of work
	habitRepo := repository.NewSQLiteHabitRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		obs, closeLog, err := useCaseLogger(cfg.LogFormat)
		if err != nil {
			return err
		}
		defer closeLog()
		observers = append(observers, obs)
	}
	if cfg.MetricsFile != "" {
		rec := metrics.New()
		observers = append(observers, rec)
		defer func() {
			if werr := rec.WriteTextfile(cfg.MetricsFile); werr != nil && err == nil {
				err = werr
			}
		}()
	}

	app := &cli.App{
		Habits:    service.NewHabitService(habitRepo, uow, observers...),
		Backup:    service.NewBackupService(habitRepo, uow, observers...),
		EditDelay: cfg.DebounceDelay,
	}

	// Detect interactive terminal for the board entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

// useCaseLogger returns the stderr observer for format: slog text lines, or
// zap JSON entries that are synced on close.
func useCaseLogger(format string) (service.UseCaseObserver, func(), error) {
	if format != config.LogFormatJSON {
		return service.NewLogUseCaseObserver(os.Stderr), func() {}, nil
	}
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	return service.NewZapUseCaseObserver(logger), func() { _ = logger.Sync() }, nil
}
