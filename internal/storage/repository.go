package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gradeview/internal/core"

	_ "modernc.org/sqlite"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertOrder stores a marketplace order and returns its ID.
func (r *SQLiteRepository) InsertOrder(ctx context.Context, o core.Order) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (order_date, amount_centavos, status, seller_id, seller_name, fish_type)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		o.Date.Format(dateLayout), o.Amount.Centavos, string(o.Status), o.SellerID, o.SellerName, o.FishType)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("order id: %w", err)
	}

	slog.InfoContext(ctx, "Order saved to SQLite",
		"id", id,
		"seller_id", o.SellerID,
		"amount_centavos", o.Amount.Centavos,
		"status", string(o.Status))

	return id, nil
}

// InsertPost stores a community post and returns its ID.
func (r *SQLiteRepository) InsertPost(ctx context.Context, p core.Post) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (post_date, author, category) VALUES (?, ?, ?)`,
		p.Date.Format(dateLayout), p.Author, p.Category)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("post id: %w", err)
	}
	return id, nil
}

// InsertScan stores a grading scan and returns its ID.
func (r *SQLiteRepository) InsertScan(ctx context.Context, s core.Scan) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO scans (scan_date, fish_type, score, grade) VALUES (?, ?, ?, ?)`,
		s.Date.Format(dateTimeLayout), s.FishType, s.Score, string(s.Grade))
	if err != nil {
		return 0, fmt.Errorf("insert scan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("scan id: %w", err)
	}
	return id, nil
}

// ListOrdersByYear returns all orders dated within the given year.
func (r *SQLiteRepository) ListOrdersByYear(ctx context.Context, year int) ([]core.Order, error) {
	return r.listOrders(ctx, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
}

// ListOrdersByMonth returns all orders dated within the given month.
func (r *SQLiteRepository) ListOrdersByMonth(ctx context.Context, year, month int) ([]core.Order, error) {
	from, to := monthRange(year, month)
	return r.listOrders(ctx, from, to)
}

func (r *SQLiteRepository) listOrders(ctx context.Context, from, to string) ([]core.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_date, amount_centavos, status, seller_id, seller_name, fish_type
		 FROM orders WHERE order_date BETWEEN ? AND ? ORDER BY order_date, id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []core.Order
	for rows.Next() {
		var (
			o       core.Order
			date    string
			status  string
		)
		if err := rows.Scan(&o.ID, &date, &o.Amount.Centavos, &status, &o.SellerID, &o.SellerName, &o.FishType); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		t, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse order date %q: %w", date, err)
		}
		o.Date = core.Date{Time: t}
		o.Status = core.OrderStatus(status)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ListPostsByYear returns all posts dated within the given year.
func (r *SQLiteRepository) ListPostsByYear(ctx context.Context, year int) ([]core.Post, error) {
	return r.listPosts(ctx, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
}

// ListPostsByMonth returns all posts dated within the given month.
func (r *SQLiteRepository) ListPostsByMonth(ctx context.Context, year, month int) ([]core.Post, error) {
	from, to := monthRange(year, month)
	return r.listPosts(ctx, from, to)
}

func (r *SQLiteRepository) listPosts(ctx context.Context, from, to string) ([]core.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, post_date, author, category
		 FROM posts WHERE post_date BETWEEN ? AND ? ORDER BY post_date, id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []core.Post
	for rows.Next() {
		var (
			p    core.Post
			date string
		)
		if err := rows.Scan(&p.ID, &date, &p.Author, &p.Category); err != nil {
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		t, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse post date %q: %w", date, err)
		}
		p.Date = core.Date{Time: t}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListScansByYear returns all scans dated within the given year.
func (r *SQLiteRepository) ListScansByYear(ctx context.Context, year int) ([]core.Scan, error) {
	return r.listScans(ctx, fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31 23:59:59", year))
}

// ListScansByMonth returns all scans dated within the given month.
func (r *SQLiteRepository) ListScansByMonth(ctx context.Context, year, month int) ([]core.Scan, error) {
	from, to := monthRange(year, month)
	return r.listScans(ctx, from, to+" 23:59:59")
}

func (r *SQLiteRepository) listScans(ctx context.Context, from, to string) ([]core.Scan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, scan_date, fish_type, score, grade
		 FROM scans WHERE scan_date BETWEEN ? AND ? ORDER BY scan_date, id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var scans []core.Scan
	for rows.Next() {
		var (
			s     core.Scan
			date  string
			grade string
		)
		if err := rows.Scan(&s.ID, &date, &s.FishType, &s.Score, &grade); err != nil {
			return nil, fmt.Errorf("scan scan row: %w", err)
		}
		t, err := time.Parse(dateTimeLayout, date)
		if err != nil {
			// Older scans carry date-only stamps.
			t, err = time.Parse(dateLayout, date)
			if err != nil {
				return nil, fmt.Errorf("parse scan date %q: %w", date, err)
			}
		}
		s.Date = core.Date{Time: t}
		s.Grade = core.Grade(grade)
		scans = append(scans, s)
	}
	return scans, rows.Err()
}

// ListActiveSchedules returns all active report schedules.
func (r *SQLiteRepository) ListActiveSchedules(ctx context.Context) ([]core.ReportSchedule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, frequency, start_date, last_execution_date, active
		 FROM report_schedules WHERE active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []core.ReportSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// CreateSchedule stores a report schedule and returns its ID.
func (r *SQLiteRepository) CreateSchedule(ctx context.Context, s core.ReportSchedule) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO report_schedules (name, frequency, start_date, active) VALUES (?, ?, ?, ?)`,
		s.Name, string(s.Every), s.StartDate.Format(dateLayout), boolToInt(s.Active))
	if err != nil {
		return 0, fmt.Errorf("insert schedule: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("schedule id: %w", err)
	}
	return id, nil
}

// UpdateScheduleLastExecution records when a schedule last exported.
func (r *SQLiteRepository) UpdateScheduleLastExecution(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE report_schedules SET last_execution_date = ? WHERE id = ?`,
		at.UTC().Format(dateTimeLayout), id)
	if err != nil {
		return fmt.Errorf("update schedule last execution: %w", err)
	}
	return nil
}

func scanSchedule(rows *sql.Rows) (core.ReportSchedule, error) {
	var (
		s        core.ReportSchedule
		freq     string
		start    string
		lastExec sql.NullTime
		active   int
	)
	if err := rows.Scan(&s.ID, &s.Name, &freq, &start, &lastExec, &active); err != nil {
		return s, fmt.Errorf("scan schedule row: %w", err)
	}
	s.Every = core.Frequency(freq)
	t, err := time.Parse(dateLayout, start)
	if err != nil {
		return s, fmt.Errorf("parse schedule start date %q: %w", start, err)
	}
	s.StartDate = core.Date{Time: t}
	if lastExec.Valid {
		s.LastExecution = lastExec.Time
	}
	s.Active = active != 0
	return s, nil
}

func monthRange(year, month int) (string, string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(dateLayout), last.Format(dateLayout)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
