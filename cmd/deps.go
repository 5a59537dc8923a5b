package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/wordbloom/internal/catalog"
	"github.com/abhisek/wordbloom/internal/config"
	"github.com/abhisek/wordbloom/internal/llm"
	"github.com/abhisek/wordbloom/internal/logging"
	"github.com/abhisek/wordbloom/internal/phase"
	"github.com/abhisek/wordbloom/internal/progress"
	"github.com/abhisek/wordbloom/internal/pronounce"
	"github.com/abhisek/wordbloom/internal/store"
	"github.com/abhisek/wordbloom/internal/translation"
)

// deps is everything a command needs, opened from config and flags.
type deps struct {
	cfg     *config.Config
	logger  *zap.Logger
	events  store.EventRepo
	tracker *progress.Tracker
	catalog catalog.Catalog

	closers []func()
}

// openDeps loads config, opens the configured progress storage plus the
// SQLite event log, and loads the progress document.
func openDeps(cmd *cobra.Command) (*deps, error) {
	ctx := cmd.Context()

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Storage.Path = p
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	d := &deps{cfg: cfg, logger: logger, catalog: catalog.NewFileCatalog(cfg.Catalog.Dir)}
	d.closers = append(d.closers, func() { _ = logger.Sync() })

	docs, err := d.openDocuments(ctx)
	if err != nil {
		d.Close()
		return nil, err
	}

	d.tracker = progress.NewTracker(docs, logger)
	d.tracker.Load(ctx)
	return d, nil
}

func (d *deps) openDocuments(ctx context.Context) (progress.Persister, error) {
	path, err := d.cfg.Storage.StoragePath()
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}

	if d.cfg.Storage.Driver == config.DriverSQLite {
		st, err := d.openEventStore(path)
		if err != nil {
			return nil, err
		}
		return st.Documents(), nil
	}

	// Other drivers keep the event log in the default SQLite database.
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	if _, err := d.openEventStore(dbPath); err != nil {
		return nil, err
	}

	switch d.cfg.Storage.Driver {
	case config.DriverFile:
		docs, err := store.NewFileDocuments(path)
		if err != nil {
			return nil, fmt.Errorf("open progress directory: %w", err)
		}
		return docs, nil
	case config.DriverPostgres:
		pool, err := store.NewPool(ctx, d.cfg.Storage.PostgresURL, store.PoolConfig{MaxConns: d.cfg.Storage.MaxConnections})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		docs, err := store.NewPostgresDocuments(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		d.closers = append(d.closers, docs.Close)
		return docs, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", d.cfg.Storage.Driver)
}

func (d *deps) openEventStore(path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	d.events = st.EventRepo()
	d.closers = append(d.closers, func() { st.Close() })
	return st, nil
}

// Close releases resources in reverse order of acquisition.
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// checker builds the translation checker for the configured provider.
// It returns nil when no provider is configured or it cannot be built;
// translation checks are then reported as unavailable.
func (d *deps) checker(ctx context.Context) translation.Checker {
	p, err := llm.NewProvider(ctx, d.cfg.LLM.Selection().Config(), d.events, d.logger)
	if err != nil {
		d.logger.Warn("translation checks unavailable", zap.Error(err))
		return nil
	}
	if p == nil {
		return nil
	}
	if mock, ok := p.(*llm.MockProvider); ok {
		mock.SetFallback(translation.OfflineAnswer())
	}
	return translation.NewLLMChecker(p)
}

func (d *deps) judge(ctx context.Context) *phase.Judge {
	return phase.NewJudge(
		pronounce.NewTranscriptEvaluator(d.cfg.Pronunciation.PassScore),
		d.checker(ctx),
		d.cfg.Translation.PassScore,
		d.logger,
	)
}
