package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"gradeview/internal/amqp"
	"gradeview/internal/metrics"
	"gradeview/internal/reports"
	"gradeview/internal/services"
	"gradeview/internal/storage"
)

// ReportWorker exports monthly payout reports. It consumes record ingest
// messages to react promptly to new orders and also sweeps on a timer so
// schedules still run when messages are lost.
type ReportWorker struct {
	storage    *storage.SQLiteRepository
	analytics  *services.AnalyticsService
	writer     reports.PayoutWriter
	amqpClient *amqp.Client
	interval   time.Duration
	batchSize  int
	now        func() time.Time
}

func NewReportWorker(repo *storage.SQLiteRepository, analytics *services.AnalyticsService, writer reports.PayoutWriter, amqpClient *amqp.Client, interval time.Duration, batchSize int) *ReportWorker {
	if batchSize < 1 {
		batchSize = 50
	}
	return &ReportWorker{
		storage:    repo,
		analytics:  analytics,
		writer:     writer,
		amqpClient: amqpClient,
		interval:   interval,
		batchSize:  batchSize,
		now:        time.Now,
	}
}

// writeBatches appends payout rows in batchSize chunks so a large seller
// roster never exceeds one sink write. Returns the last batch reference.
func (w *ReportWorker) writeBatches(ctx context.Context, year, month int, rows []reports.PayoutRow) (string, error) {
	var ref string
	for start := 0; start < len(rows); start += w.batchSize {
		end := start + w.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		r, err := w.writer.AppendPayouts(ctx, year, month, rows[start:end])
		if err != nil {
			return "", err
		}
		ref = r
	}
	return ref, nil
}

// Run starts the consume loop and the periodic sweep; it blocks until the
// context is cancelled or one of the loops fails.
func (w *ReportWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.consumeLoop(ctx)
	})

	g.Go(func() error {
		return w.sweepLoop(ctx)
	})

	return g.Wait()
}

func (w *ReportWorker) consumeLoop(ctx context.Context) error {
	if w.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, running on timer only")
		<-ctx.Done()
		return ctx.Err()
	}
	return w.amqpClient.ConsumeMessages(ctx, func(msg *amqp.Message) error {
		return w.HandleRecordMessage(ctx, msg)
	})
}

func (w *ReportWorker) sweepLoop(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run once at startup to recover missed schedules.
	if err := w.ProcessDueSchedules(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup schedule sweep failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessDueSchedules(ctx); err != nil {
				slog.ErrorContext(ctx, "Schedule sweep failed", "error", err)
			}
		}
	}
}

// HandleRecordMessage processes one queue message. New orders can make a
// schedule due (e.g. first order after midnight for a daily schedule), so
// they trigger an immediate sweep. Export requests settle the named period
// right away, independent of any schedule.
func (w *ReportWorker) HandleRecordMessage(ctx context.Context, msg *amqp.Message) error {
	slog.InfoContext(ctx, "Processing queue message",
		"kind", msg.Kind,
		"id", msg.ID)

	switch msg.Kind {
	case amqp.KindOrder:
		return w.ProcessDueSchedules(ctx)
	case amqp.KindExportRequest:
		return w.ExportPeriod(ctx, msg.Year, msg.Month)
	default:
		return nil
	}
}

// ExportPeriod writes the payout report for one settlement period. Used by
// ad-hoc export requests; scheduled exports go through exportSchedule.
func (w *ReportWorker) ExportPeriod(ctx context.Context, year, month int) error {
	if year < 2000 || month < 1 || month > 12 {
		slog.WarnContext(ctx, "Dropping export request with invalid period",
			"year", year, "month", month)
		return nil
	}

	rows, err := w.analytics.PayoutRows(ctx, year, month)
	if err != nil {
		return fmt.Errorf("compute payouts: %w", err)
	}
	if len(rows) == 0 {
		slog.InfoContext(ctx, "No payouts for requested period",
			"year", year, "month", month)
		return nil
	}

	ref, err := w.writeBatches(ctx, year, month, rows)
	if err != nil {
		return fmt.Errorf("write payouts: %w", err)
	}
	metrics.PayoutExports.Inc()
	slog.InfoContext(ctx, "Exported requested payout report",
		"year", year,
		"month", month,
		"sellers", len(rows),
		"report_ref", ref)
	return nil
}

// ProcessDueSchedules runs every active schedule whose dueness checker
// fires. A failed export leaves the schedule's last execution untouched so
// it retries on the next sweep.
func (w *ReportWorker) ProcessDueSchedules(ctx context.Context) error {
	schedules, err := w.storage.ListActiveSchedules(ctx)
	if err != nil {
		return fmt.Errorf("list schedules: %w", err)
	}

	now := w.now()
	processed := 0
	for _, s := range schedules {
		checker, err := services.GetDuenessChecker(s.Every)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping schedule with unknown frequency",
				"schedule_id", s.ID, "frequency", string(s.Every))
			continue
		}
		if !checker.IsDue(s.LastExecution, now, s.StartDate) {
			continue
		}

		if err := w.exportSchedule(ctx, s.ID, s.Name, now); err != nil {
			slog.ErrorContext(ctx, "Payout export failed",
				"schedule_id", s.ID,
				"schedule", s.Name,
				"error", err)
			continue
		}
		processed++
	}

	if processed > 0 {
		slog.InfoContext(ctx, "Schedule sweep completed",
			"total", len(schedules),
			"exported", processed)
	}
	return nil
}

func (w *ReportWorker) exportSchedule(ctx context.Context, id int64, name string, now time.Time) error {
	// Settlement covers the last completed month.
	year, month := previousMonth(now)

	rows, err := w.analytics.PayoutRows(ctx, year, month)
	if err != nil {
		return fmt.Errorf("compute payouts: %w", err)
	}

	if len(rows) == 0 {
		slog.InfoContext(ctx, "No payouts for period, marking schedule done",
			"schedule", name, "year", year, "month", month)
	} else {
		ref, err := w.writeBatches(ctx, year, month, rows)
		if err != nil {
			return fmt.Errorf("write payouts: %w", err)
		}
		metrics.PayoutExports.Inc()
		slog.InfoContext(ctx, "Exported payout report",
			"schedule", name,
			"year", year,
			"month", month,
			"sellers", len(rows),
			"report_ref", ref)
	}

	if err := w.storage.UpdateScheduleLastExecution(ctx, id, now); err != nil {
		// Export succeeded; a stale last execution means a duplicate export
		// on the next sweep, which the sheet tolerates.
		slog.ErrorContext(ctx, "Failed to update schedule last execution",
			"schedule_id", id, "error", err)
	}
	return nil
}

func previousMonth(now time.Time) (int, int) {
	year, month := now.Year(), int(now.Month())
	month--
	if month == 0 {
		month = 12
		year--
	}
	return year, month
}
