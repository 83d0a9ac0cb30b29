package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gradeview/internal/amqp"
	"gradeview/internal/core"
	"gradeview/internal/log"
	"gradeview/internal/storage"
)

// RecordService orchestrates record ingestion across SQLite and AMQP.
// Persistence is the source of truth; the AMQP announcement is best-effort
// and its failure never fails the request.
type RecordService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	logger     *log.StructuredLogger
}

func NewRecordService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *RecordService {
	return &RecordService{
		storage:    storage,
		amqpClient: amqpClient,
		logger:     log.NewStructuredLogger(log.Default(log.ComponentRecords)),
	}
}

// CreateOrder saves an order locally and announces it on the queue.
func (s *RecordService) CreateOrder(ctx context.Context, o core.Order) (int64, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}

	id, err := s.storage.InsertOrder(ctx, o)
	if err != nil {
		return 0, fmt.Errorf("save order: %w", err)
	}

	s.logger.LogRecordIngested(ctx, "order", id)
	s.publishIngested(ctx, "order", id)
	return id, nil
}

// CreatePost saves a community post locally and announces it on the queue.
func (s *RecordService) CreatePost(ctx context.Context, p core.Post) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	id, err := s.storage.InsertPost(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("save post: %w", err)
	}

	s.logger.LogRecordIngested(ctx, "post", id)
	s.publishIngested(ctx, "post", id)
	return id, nil
}

// CreateScan saves a grading scan locally and announces it on the queue.
// The grade is derived from the score when the caller left it empty.
func (s *RecordService) CreateScan(ctx context.Context, sc core.Scan) (int64, error) {
	if sc.Grade == "" {
		sc.Grade = core.GradeFromScore(sc.Score)
	}
	if err := sc.Validate(); err != nil {
		return 0, err
	}

	id, err := s.storage.InsertScan(ctx, sc)
	if err != nil {
		return 0, fmt.Errorf("save scan: %w", err)
	}

	s.logger.LogRecordIngested(ctx, "scan", id)
	s.publishIngested(ctx, "scan", id)
	return id, nil
}

// ErrMessagingUnavailable is returned when an operation needs the queue
// but no AMQP client is configured.
var ErrMessagingUnavailable = errors.New("messaging unavailable")

// RequestExport queues an ad-hoc payout export for the given period. The
// report worker picks it up and writes the payout rows to the sink.
func (s *RecordService) RequestExport(ctx context.Context, year, month int) error {
	if s.amqpClient == nil {
		return ErrMessagingUnavailable
	}
	return s.amqpClient.PublishExportRequested(ctx, year, month)
}

func (s *RecordService) publishIngested(ctx context.Context, kind string, id int64) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping ingest message", "kind", kind, "id", id)
		return
	}

	if err := s.amqpClient.PublishRecordIngested(ctx, kind, id); err != nil {
		// Record is saved locally; the worker catches up on the next sweep.
		s.logger.LogError(ctx, "Failed to publish ingest message", err, "publish",
			log.LogFields{"kind": kind, "id": id})
	}
}

// Close closes both storage and AMQP connections
func (s *RecordService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close record service: %v", errs)
	}

	return nil
}
