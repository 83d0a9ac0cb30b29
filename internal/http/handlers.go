package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"gradeview/internal/analytics"
	"gradeview/internal/core"
	"gradeview/internal/metrics"
	"gradeview/internal/services"
)

func (s *Server) handleOrdersCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseYearMonth(w, r, false)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	view, err := s.analytics.OrdersCalendar(ctx, year, month)
	if err != nil {
		slog.ErrorContext(ctx, "Orders calendar error", "error", err, "year", year, "month", month)
		writeError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePostsCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseYearMonth(w, r, false)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	view, err := s.analytics.PostsCalendar(ctx, year, month)
	if err != nil {
		slog.ErrorContext(ctx, "Posts calendar error", "error", err, "year", year, "month", month)
		writeError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleScansCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseYearMonth(w, r, false)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	view, err := s.analytics.ScansCalendar(ctx, year, month)
	if err != nil {
		slog.ErrorContext(ctx, "Scans calendar error", "error", err, "year", year, "month", month)
		writeError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleOrdersMonthly(w http.ResponseWriter, r *http.Request) {
	year, _, ok := parseYearMonth(w, r, true)
	if !ok {
		return
	}

	status := core.OrderStatus(strings.TrimSpace(r.URL.Query().Get("status")))
	if status != "" {
		if err := status.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	view, err := s.analytics.OrdersMonthly(ctx, year, status)
	if err != nil {
		slog.ErrorContext(ctx, "Monthly chart error", "error", err, "year", year)
		writeError(w, http.StatusInternalServerError, "failed to build chart")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTopSellers(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseYearMonth(w, r, true)
	if !ok {
		return
	}

	limit := 10
	if v := strings.TrimSpace(r.URL.Query().Get("n")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "invalid n: must be between 1 and 100")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	view, err := s.analytics.TopSellers(ctx, year, month, limit)
	if err != nil {
		slog.ErrorContext(ctx, "Top sellers error", "error", err, "year", year, "month", month)
		writeError(w, http.StatusInternalServerError, "failed to rank sellers")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleScanGrades(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseYearMonth(w, r, true)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	view, err := s.analytics.ScanGrades(ctx, year, month)
	if err != nil {
		slog.ErrorContext(ctx, "Scan grades error", "error", err, "year", year, "month", month)
		writeError(w, http.StatusInternalServerError, "failed to build grade breakdown")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseYearMonth(w, r, false)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	summary, err := s.analytics.DashboardSummary(ctx, year, month)
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard summary error", "error", err, "year", year, "month", month)
		writeError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type createOrderRequest struct {
	Date       string `json:"date"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
	SellerID   string `json:"seller_id"`
	SellerName string `json:"seller_name"`
	FishType   string `json:"fish_type"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date: expected YYYY-MM-DD")
		return
	}

	centavos, err := core.ParseDecimalToCentavos(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	order := core.Order{
		Date:       date,
		Amount:     core.Money{Centavos: centavos},
		Status:     core.OrderStatus(sanitizeInput(req.Status)),
		SellerID:   sanitizeInput(req.SellerID),
		SellerName: sanitizeInput(req.SellerName),
		FishType:   sanitizeInput(req.FishType),
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := s.records.CreateOrder(ctx, order)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(ctx, "Create order error", "error", err, "seller_id", order.SellerID)
		writeError(w, http.StatusInternalServerError, "failed to save order")
		return
	}

	metrics.RecordsIngested.WithLabelValues("order").Inc()
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

type createPostRequest struct {
	Date     string `json:"date"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date: expected YYYY-MM-DD")
		return
	}

	post := core.Post{
		Date:     date,
		Author:   sanitizeInput(req.Author),
		Category: sanitizeInput(req.Category),
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := s.records.CreatePost(ctx, post)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(ctx, "Create post error", "error", err, "author", post.Author)
		writeError(w, http.StatusInternalServerError, "failed to save post")
		return
	}

	metrics.RecordsIngested.WithLabelValues("post").Inc()
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

type createScanRequest struct {
	// ScanID carries the grader's timestamped identifier, e.g.
	// "scan_20250610_142530_123456". Timestamp is a fallback for feeds
	// that send a plain timestamp instead.
	ScanID    string  `json:"scan_id"`
	Timestamp string  `json:"timestamp"`
	FishType  string  `json:"fish_type"`
	Score     float64 `json:"score"`
}

func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	var req createScanRequest
	if !decodeBody(w, r, &req) {
		return
	}

	stamp := req.ScanID
	if stamp == "" {
		stamp = req.Timestamp
	}
	t, err := analytics.ParseTimestamp(stamp)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid scan_id or timestamp")
		return
	}

	scan := core.Scan{
		Date:     core.Date{Time: t},
		FishType: sanitizeInput(req.FishType),
		Score:    req.Score,
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id, err := s.records.CreateScan(ctx, scan)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(ctx, "Create scan error", "error", err, "fish_type", scan.FishType)
		writeError(w, http.StatusInternalServerError, "failed to save scan")
		return
	}

	metrics.RecordsIngested.WithLabelValues("scan").Inc()
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "grade": string(core.GradeFromScore(req.Score))})
}

type exportRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// handleRequestExport queues an ad-hoc payout export; the report worker
// writes the rows asynchronously.
func (s *Server) handleRequestExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Year < 2000 || req.Year > 2100 {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	if req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month: must be between 1 and 12")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := s.records.RequestExport(ctx, req.Year, req.Month); err != nil {
		if errors.Is(err, services.ErrMessagingUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "export queue unavailable")
			return
		}
		slog.ErrorContext(ctx, "Export request error", "error", err, "year", req.Year, "month", req.Month)
		writeError(w, http.StatusInternalServerError, "failed to queue export")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"year": req.Year, "month": req.Month})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
