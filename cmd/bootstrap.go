package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"offer-reconciler/core/audit"
	"offer-reconciler/core/config"
	"offer-reconciler/core/database"
	"offer-reconciler/core/logger"
	"offer-reconciler/core/reconcile"
	"offer-reconciler/core/storage"
	"offer-reconciler/feature/integrity"
	"offer-reconciler/feature/research/gemini"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds the collaborators shared by every command.
type runtime struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *gorm.DB
	store  *database.Store
	client storage.Client
	sink   *audit.Sink
}

// bootstrap loads configuration, connects to the database and, when an
// endpoint is configured, to object storage.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	l.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	rt := &runtime{cfg: cfg, log: l, db: db, store: database.NewStore(db)}

	if cfg.Storage.Endpoint != "" {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			// Reports are best effort; runs still proceed
			l.Warn("Report bucket unavailable", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		}
		rt.client = client
	} else {
		l.Info("Storage endpoint not configured, run reports are only logged")
	}

	rt.sink = audit.NewSink(rt.client, cfg.Storage.Bucket, cfg.Audit, l)
	return rt, nil
}

// archiving reports whether run reports are written to storage.
func (rt *runtime) archiving() bool {
	return rt.client != nil && rt.cfg.Audit.Enabled
}

// researcher builds the configured research provider. A missing API key
// yields nil, so that research batches fail with a provider error.
func (rt *runtime) researcher(ctx context.Context) (reconcile.Researcher, error) {
	rc := rt.cfg.Research
	if rc.Provider != "" && rc.Provider != "gemini" {
		return nil, fmt.Errorf("unsupported research provider %q", rc.Provider)
	}
	if rc.ApiKey == "" {
		rt.log.Warn("Research API key not configured, research batches will fail")
		return nil, nil
	}
	timeout := time.Duration(rc.TimeoutSeconds) * time.Second
	provider, err := gemini.New(ctx, rc.ApiKey, rc.Model, timeout, rt.log)
	if err != nil {
		return nil, err
	}
	return provider, nil
}

func (rt *runtime) integrityOptions() integrity.Options {
	return integrity.Options{
		Bucket: rt.cfg.Storage.Bucket,
		Region: rt.cfg.Storage.Region,
		Prefix: rt.cfg.Audit.Prefix,
	}
}

func (rt *runtime) close() {
	if sqlDB, err := rt.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = rt.log.Sync()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
