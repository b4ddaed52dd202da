package commands

import (
	"context"
	"fmt"

	"github.com/wonny/energytrends/internal/external/govuk"
	"github.com/wonny/energytrends/internal/pipeline"
	"github.com/wonny/energytrends/internal/store"
	"github.com/wonny/energytrends/pkg/config"
	"github.com/wonny/energytrends/pkg/database"
	"github.com/wonny/energytrends/pkg/httputil"
	"github.com/wonny/energytrends/pkg/logger"
)

// app holds the wired dependencies shared by every command
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *database.DB
	repo   *store.Repository // nil without DATABASE_URL
	runner *pipeline.Runner
}

// newApp wires config → logger → HTTP client → fetcher → optional sink → runner
func newApp(ctx context.Context) (*app, error) {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Create HTTP client and fetcher
	httpClient := httputil.New(cfg, log)
	fetcher := govuk.NewClient(httpClient, log)

	a := &app{cfg: cfg, log: log}

	// 4. Optional Postgres sink
	var opts []pipeline.Option
	if cfg.Database.Enabled() {
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}

		repo := store.NewRepository(db.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}

		log.Info("Connected to database")
		a.db = db
		a.repo = repo
		opts = append(opts, pipeline.WithEventSink(repo), pipeline.WithReportSink(repo))
	}

	// 5. Create runner
	a.runner = pipeline.NewRunner(cfg, fetcher, log, opts...)

	return a, nil
}

// close releases the database pool, if any
func (a *app) close() {
	a.db.Close()
}
