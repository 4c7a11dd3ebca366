package integrity

import (
	"context"
	"time"

	"offer-reconciler/core/database"
	"offer-reconciler/core/storage"
	"offer-reconciler/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options locates the report archive.
type Options struct {
	Bucket string
	Region string
	Prefix string
}

// Service handles integrity checks.
type Service struct {
	client storage.Client
	db     *gorm.DB
	opts   Options
	logger *zap.Logger
}

// NewService creates a new integrity service. client may be nil when no
// storage is configured.
func NewService(client storage.Client, db *gorm.DB, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Prefix == "" {
		opts.Prefix = "audit"
	}
	return &Service{client: client, db: db, opts: opts, logger: logger}
}

// CheckSchema compares the live schema with the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}

// FixSchema migrates the schema.
func (s *Service) FixSchema() (*checks.SchemaReport, error) {
	return checks.FixSchema(s.db)
}

// CheckStorage returns the missing report folders.
func (s *Service) CheckStorage(ctx context.Context) ([]string, error) {
	return checks.CheckStorage(ctx, s.client, s.opts.Bucket, s.opts.Prefix)
}

// FixStorage creates the missing report folders.
func (s *Service) FixStorage(ctx context.Context, missing []string) error {
	return checks.FixStorage(ctx, s.client, s.opts.Bucket, s.opts.Region, s.logger, missing)
}

// CheckOrphans finds records with missing parents.
func (s *Service) CheckOrphans(ctx context.Context) (*checks.OrphanReport, error) {
	return checks.CheckOrphans(ctx, s.db)
}

// FixOrphans deprecates orphaned offers.
func (s *Service) FixOrphans(ctx context.Context, report *checks.OrphanReport) error {
	return checks.FixOrphans(ctx, database.NewStore(s.db), report, time.Now())
}
