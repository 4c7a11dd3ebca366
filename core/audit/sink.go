package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"offer-reconciler/core/reconcile"
	"offer-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Report kinds.
const (
	KindResearch  = "research"
	KindDiscovery = "discovery"
)

const dateLayout = "2006-01-02"

// ErrDisabled is returned by readers when no storage is configured.
var ErrDisabled = errors.New("report archive is disabled")

// Report is the archived envelope of a record.
type Report struct {
	Kind       string          `json:"kind"`
	RunID      string          `json:"run_id"`
	RecordedAt time.Time       `json:"recorded_at"`
	Record     json.RawMessage `json:"record"`
}

// ReportInfo describes an archived report without loading it.
type ReportInfo struct {
	RunID        string    `json:"run_id"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Sink logs and archives run records.
type Sink struct {
	client storage.Client
	bucket string
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

var _ reconcile.AuditSink = (*Sink)(nil)

// NewSink creates a sink. A nil client (or a disabled config) only logs.
func NewSink(client storage.Client, bucket string, cfg Config, logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "audit"
	}
	return &Sink{client: client, bucket: bucket, cfg: cfg, logger: logger, now: time.Now}
}

func (s *Sink) archiving() bool {
	return s.client != nil && s.cfg.Enabled
}

// RecordResearch implements reconcile.AuditSink.
func (s *Sink) RecordResearch(ctx context.Context, record reconcile.ResearchRecord) {
	fields := []zap.Field{
		zap.String("run_id", record.RunID),
		zap.String("triggered_by", string(record.TriggeredBy)),
		zap.Int("batch_size", record.BatchSize),
		zap.Bool("success", record.Success),
		zap.Int("processed", record.Processed),
		zap.Int("created", record.Created),
		zap.Int("updated", record.Updated),
		zap.Int("skipped", record.Skipped),
		zap.Int("errors", len(record.Errors)),
		zap.Int64("duration_ms", record.DurationMs),
	}
	if record.Usage != nil {
		fields = append(fields, zap.Int("total_tokens", record.Usage.TotalTokens))
	}
	if record.Error != "" {
		fields = append(fields, zap.String("error", record.Error))
	}
	s.logger.Info("Research run recorded", fields...)

	s.archive(ctx, KindResearch, record.RunID, record)
}

// RecordDiscovery implements reconcile.AuditSink.
func (s *Sink) RecordDiscovery(ctx context.Context, record reconcile.DiscoveryRecord) {
	s.logger.Info("Discovery run recorded",
		zap.String("run_id", record.RunID),
		zap.String("state", record.State),
		zap.Bool("success", record.Success),
		zap.Int("saved", record.Saved),
		zap.Int("skipped", record.Skipped),
		zap.Int64("duration_ms", record.DurationMs),
	)

	s.archive(ctx, KindDiscovery, record.RunID, record)
}

// Key returns the object key of a report.
func (s *Sink) Key(kind string, day time.Time, runID string) string {
	return path.Join(s.cfg.Prefix, kind, day.UTC().Format(dateLayout), runID+".json")
}

func (s *Sink) archive(ctx context.Context, kind, runID string, record any) {
	if !s.archiving() {
		return
	}

	raw, err := json.Marshal(record)
	if err != nil {
		s.logger.Warn("Failed to encode run report", zap.String("kind", kind), zap.Error(err))
		return
	}

	now := s.now()
	body, err := json.Marshal(Report{Kind: kind, RunID: runID, RecordedAt: now.UTC(), Record: raw})
	if err != nil {
		s.logger.Warn("Failed to encode run report", zap.String("kind", kind), zap.Error(err))
		return
	}

	key := s.Key(kind, now, runID)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		s.logger.Warn("Failed to archive run report", zap.String("key", key), zap.Error(err))
		return
	}
	s.logger.Debug("Archived run report", zap.String("key", key))
}

// List returns the reports of a kind archived on day, oldest key first.
func (s *Sink) List(ctx context.Context, kind string, day time.Time) ([]ReportInfo, error) {
	if s.client == nil {
		return nil, ErrDisabled
	}

	prefix := path.Join(s.cfg.Prefix, kind, day.UTC().Format(dateLayout)) + "/"
	reports := []ReportInfo{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		reports = append(reports, ReportInfo{
			RunID:        strings.TrimSuffix(path.Base(obj.Key), ".json"),
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Key < reports[j].Key })
	return reports, nil
}

// Get loads one archived report.
func (s *Sink) Get(ctx context.Context, kind string, day time.Time, runID string) (*Report, error) {
	if s.client == nil {
		return nil, ErrDisabled
	}

	key := s.Key(kind, day, runID)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get report %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, reconcile.NewNotFoundError("report", runID)
		}
		return nil, fmt.Errorf("failed to read report %s: %w", key, err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", key, err)
	}
	return &report, nil
}

// Prune removes reports of a kind archived before the given day and returns
// how many were removed.
func (s *Sink) Prune(ctx context.Context, kind string, before time.Time) (int, error) {
	if s.client == nil {
		return 0, ErrDisabled
	}

	cutoff := before.UTC().Format(dateLayout)
	prefix := path.Join(s.cfg.Prefix, kind) + "/"

	var expired []minio.ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return 0, fmt.Errorf("failed to list reports: %w", obj.Err)
		}
		day, _, ok := strings.Cut(strings.TrimPrefix(obj.Key, prefix), "/")
		if !ok || len(day) != len(dateLayout) {
			continue
		}
		// ISO dates compare lexically
		if day < cutoff {
			expired = append(expired, obj)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(expired))
	for _, obj := range expired {
		objectsCh <- obj
	}
	close(objectsCh)

	removed := len(expired)
	var errs []error
	for rerr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		removed--
		errs = append(errs, fmt.Errorf("%s: %w", rerr.ObjectName, rerr.Err))
	}
	if len(errs) > 0 {
		return removed, fmt.Errorf("failed to remove %d reports: %w", len(errs), errors.Join(errs...))
	}

	s.logger.Info("Pruned run reports", zap.String("kind", kind), zap.String("before", cutoff), zap.Int("removed", removed))
	return removed, nil
}
