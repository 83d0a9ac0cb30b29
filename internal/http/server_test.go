package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gradeview/internal/core"
	"gradeview/internal/services"
	"gradeview/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.SQLiteRepository) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	now := func() time.Time {
		return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	}
	analytics := services.NewAnalyticsService(repo, time.Minute, nil, now)
	records := services.NewRecordService(repo, nil)

	srv := NewServer(":0", analytics, records)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	return srv, repo
}

func doRequest(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_OrdersCalendar(t *testing.T) {
	srv, repo := newTestServer(t)

	_, err := repo.InsertOrder(context.Background(), core.Order{
		Date:       core.NewDate(2025, 6, 2),
		Amount:     core.Money{Centavos: 10000},
		Status:     core.StatusDelivered,
		SellerID:   "s1",
		SellerName: "Aling Nena",
		FishType:   "danggit",
	})
	if err != nil {
		t.Fatalf("InsertOrder() error = %v", err)
	}

	rec := doRequest(srv, http.MethodGet, "/api/orders/calendar?year=2025&month=6", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var view services.CalendarView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode calendar: %v", err)
	}
	if view.Year != 2025 || view.Month != 6 {
		t.Errorf("period = %d-%d, want 2025-6", view.Year, view.Month)
	}
	// June 2025 starts on a Sunday: 6 leading blanks + 30 days.
	if len(view.Cells) != 36 {
		t.Errorf("cells = %d, want 36", len(view.Cells))
	}
	if view.Total != 1 {
		t.Errorf("total = %d, want 1", view.Total)
	}
}

func TestServer_InvalidPeriod(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		target string
	}{
		{"month too large", "/api/orders/calendar?year=2025&month=13"},
		{"month zero", "/api/scans/calendar?year=2025&month=0"},
		{"year out of range", "/api/orders/monthly?year=1850"},
		{"year not a number", "/api/posts/calendar?year=abc"},
		{"n out of range", "/api/orders/sellers?year=2025&n=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(srv, http.MethodGet, tt.target, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestServer_CreateOrder(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/orders",
		`{"date":"2025-06-02","amount":"125.50","status":"delivered","seller_id":"s1","seller_name":"Aling Nena","fish_type":"danggit"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := resp["id"]; !ok {
		t.Error("response missing id")
	}
}

func TestServer_CreateOrder_Invalid(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			"bad amount",
			`{"date":"2025-06-02","amount":"12.5.0","status":"delivered","seller_id":"s1","seller_name":"Aling Nena","fish_type":"danggit"}`,
			http.StatusUnprocessableEntity,
		},
		{
			"bad date",
			`{"date":"06/02/2025","amount":"125.50","status":"delivered","seller_id":"s1","seller_name":"Aling Nena","fish_type":"danggit"}`,
			http.StatusUnprocessableEntity,
		},
		{
			"unknown status",
			`{"date":"2025-06-02","amount":"125.50","status":"teleported","seller_id":"s1","seller_name":"Aling Nena","fish_type":"danggit"}`,
			http.StatusUnprocessableEntity,
		},
		{
			"missing seller",
			`{"date":"2025-06-02","amount":"125.50","status":"delivered","seller_id":"","seller_name":"","fish_type":"danggit"}`,
			http.StatusUnprocessableEntity,
		},
		{
			"unknown field",
			`{"date":"2025-06-02","amount":"125.50","status":"delivered","seller_id":"s1","seller_name":"Aling Nena","fish_type":"danggit","extra":true}`,
			http.StatusBadRequest,
		},
		{
			"not json",
			`date=2025-06-02`,
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(srv, http.MethodPost, "/api/orders", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestServer_CreateScan_GradesFromScore(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/scans",
		`{"scan_id":"scan_20250610_142530_123456","fish_type":"danggit","score":0.95}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if grade, _ := resp["grade"].(string); grade != "Export" {
		t.Errorf("grade = %q, want Export", grade)
	}

	// The scan should land on the day encoded in the scan ID.
	calRec := doRequest(srv, http.MethodGet, "/api/scans/calendar?year=2025&month=6", "")
	if calRec.Code != http.StatusOK {
		t.Fatalf("calendar status = %d, want %d", calRec.Code, http.StatusOK)
	}
	var view services.CalendarView
	if err := json.NewDecoder(calRec.Body).Decode(&view); err != nil {
		t.Fatalf("decode calendar: %v", err)
	}
	if view.Total != 1 {
		t.Errorf("scan calendar total = %d, want 1", view.Total)
	}
}

func TestServer_CreateScan_InvalidScanID(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/scans",
		`{"scan_id":"scan_notadate","fish_type":"danggit","score":0.95}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestServer_CreatePost(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/api/posts",
		`{"date":"2025-06-02","author":"maria","category":"recipes"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
}

func TestServer_DashboardSummary(t *testing.T) {
	srv, repo := newTestServer(t)

	_, err := repo.InsertOrder(context.Background(), core.Order{
		Date:       core.NewDate(2025, 6, 5),
		Amount:     core.Money{Centavos: 25000},
		Status:     core.StatusDelivered,
		SellerID:   "s1",
		SellerName: "Aling Nena",
		FishType:   "tuyo",
	})
	if err != nil {
		t.Fatalf("InsertOrder() error = %v", err)
	}

	rec := doRequest(srv, http.MethodGet, "/api/dashboard/summary?year=2025&month=6", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var summary services.DashboardSummaryView
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Orders != 1 {
		t.Errorf("orders = %d, want 1", summary.Orders)
	}
	if summary.RevenuePesos != 250 {
		t.Errorf("revenue = %v, want 250", summary.RevenuePesos)
	}
	if summary.TopSeller != "Aling Nena" {
		t.Errorf("top seller = %q, want Aling Nena", summary.TopSeller)
	}
}

func TestServer_RequestExport(t *testing.T) {
	srv, _ := newTestServer(t)

	// No AMQP client wired in tests, so a valid request reports the queue
	// as unavailable rather than silently dropping it.
	rec := doRequest(srv, http.MethodPost, "/api/reports/export", `{"year":2025,"month":6}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	rec = doRequest(srv, http.MethodPost, "/api/reports/export", `{"year":2025,"month":13}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid month status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServer_OperationalEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, target := range []string{"/health", "/ready", "/metrics"} {
		rec := doRequest(srv, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", target, rec.Code, http.StatusOK)
		}
	}
}

func TestServer_SecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/health", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestServer_SuspiciousRequestBlocked(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodGet, "/api/orders/calendar?q=../../etc/passwd", "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
