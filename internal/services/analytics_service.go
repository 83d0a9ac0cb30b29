package services

import (
	"context"
	"fmt"
	"time"

	"gradeview/internal/analytics"
	"gradeview/internal/cache"
	"gradeview/internal/core"
	"gradeview/internal/metrics"
	"gradeview/internal/reports"
	"gradeview/internal/storage"
)

// View payloads returned to HTTP handlers. Geometry is precomputed here so
// the frontend only draws.

type CalendarCellView struct {
	Day       int    `json:"day"`
	Count     int    `json:"count"`
	IsFuture  bool   `json:"is_future"`
	Intensity string `json:"intensity"`
}

type CalendarView struct {
	Year  int                `json:"year"`
	Month int                `json:"month"`
	Cells []CalendarCellView `json:"cells"`
	Total int                `json:"total"`
}

type MonthlyChartView struct {
	Year        int                  `json:"year"`
	Status      string               `json:"status"`
	Labels      []string             `json:"labels"`
	Counts      []int                `json:"counts"`
	TotalsPesos []float64            `json:"totals_pesos"`
	Bars        []analytics.Bar      `json:"bars"`
	Points      []analytics.Point    `json:"points"`
	GridLines   []analytics.GridLine `json:"grid_lines"`
}

type RankedEntryView struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// SellerRankingView lists top sellers by delivered revenue. Month 0 means
// the whole year.
type SellerRankingView struct {
	Year    int               `json:"year"`
	Month   int               `json:"month,omitempty"`
	Entries []RankedEntryView `json:"entries"`
}

type GradeSliceView struct {
	Grade string  `json:"grade"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// GradeSeriesView traces one grade's monthly counts as line geometry.
// Only present on year-wide breakdowns.
type GradeSeriesView struct {
	Grade  string            `json:"grade"`
	Counts []int             `json:"counts"`
	Points []analytics.Point `json:"points"`
}

type GradeBreakdownView struct {
	Year       int               `json:"year"`
	Month      int               `json:"month,omitempty"`
	Total      int               `json:"total"`
	ExportRate float64           `json:"export_rate"`
	Grades     []GradeSliceView  `json:"grades"`
	Series     []GradeSeriesView `json:"series,omitempty"`
}

type DashboardSummaryView struct {
	Year          int               `json:"year"`
	Month         int               `json:"month"`
	Orders        int               `json:"orders"`
	RevenuePesos  float64           `json:"revenue_pesos"`
	Scans         int               `json:"scans"`
	ExportRate    float64           `json:"export_rate"`
	Posts         int               `json:"posts"`
	TopSeller     string            `json:"top_seller,omitempty"`
	SellerRanking []RankedEntryView `json:"seller_ranking"`
}

// sellerLabelMax keeps ranking labels short enough for the sidebar.
const sellerLabelMax = 18

// defaultChartBox matches the dashboard chart canvas.
var defaultChartBox = analytics.Box{
	Width:  640,
	Height: 260,
	Padding: analytics.Padding{
		Top:    20,
		Right:  20,
		Bottom: 30,
		Left:   40,
	},
}

// AnalyticsService computes dashboard views from stored records. Views are
// cached by period key; staleness is bounded by the cache TTL.
type AnalyticsService struct {
	storage *storage.SQLiteRepository

	calendars *cache.LRUCache[CalendarView]
	monthly   *cache.LRUCache[MonthlyChartView]
	rankings  *cache.LRUCache[SellerRankingView]
	grades    *cache.LRUCache[GradeBreakdownView]

	now func() time.Time
}

// NewAnalyticsService builds the service and registers its caches with the
// manager for periodic cleanup. now overrides the clock used for future-day
// masking; pass nil for time.Now.
func NewAnalyticsService(repo *storage.SQLiteRepository, ttl time.Duration, manager *cache.Manager, now func() time.Time) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	s := &AnalyticsService{
		storage:   repo,
		calendars: cache.NewLRUCache[CalendarView](100, ttl),
		monthly:   cache.NewLRUCache[MonthlyChartView](50, ttl),
		rankings:  cache.NewLRUCache[SellerRankingView](100, ttl),
		grades:    cache.NewLRUCache[GradeBreakdownView](100, ttl),
		now:       now,
	}
	if manager != nil {
		manager.Register(s.calendars)
		manager.Register(s.monthly)
		manager.Register(s.rankings)
		manager.Register(s.grades)
	}
	return s
}

// OrdersCalendar returns the Monday-first month grid of order activity.
// Cancelled orders do not count as activity.
func (s *AnalyticsService) OrdersCalendar(ctx context.Context, year, month int) (CalendarView, error) {
	key := fmt.Sprintf("orders:%04d-%02d", year, month)
	if v, ok := s.calendars.Get(key); ok {
		metrics.ViewCacheHits.Inc()
		return v, nil
	}
	metrics.ViewCacheMisses.Inc()

	orders, err := s.storage.ListOrdersByMonth(ctx, year, month)
	if err != nil {
		return CalendarView{}, fmt.Errorf("load orders: %w", err)
	}

	events := ordersToEvents(orders)
	view := s.buildCalendar(year, month, events, analytics.AggregateOptions{
		Include: func(e analytics.Event) bool {
			return e.String("status") != string(core.StatusCancelled)
		},
	})
	s.calendars.Set(key, view)
	return view, nil
}

// PostsCalendar returns the month grid of community post activity.
func (s *AnalyticsService) PostsCalendar(ctx context.Context, year, month int) (CalendarView, error) {
	key := fmt.Sprintf("posts:%04d-%02d", year, month)
	if v, ok := s.calendars.Get(key); ok {
		metrics.ViewCacheHits.Inc()
		return v, nil
	}
	metrics.ViewCacheMisses.Inc()

	posts, err := s.storage.ListPostsByMonth(ctx, year, month)
	if err != nil {
		return CalendarView{}, fmt.Errorf("load posts: %w", err)
	}

	view := s.buildCalendar(year, month, postsToEvents(posts), analytics.AggregateOptions{})
	s.calendars.Set(key, view)
	return view, nil
}

// ScansCalendar returns the month grid of grading scan activity.
func (s *AnalyticsService) ScansCalendar(ctx context.Context, year, month int) (CalendarView, error) {
	key := fmt.Sprintf("scans:%04d-%02d", year, month)
	if v, ok := s.calendars.Get(key); ok {
		metrics.ViewCacheHits.Inc()
		return v, nil
	}
	metrics.ViewCacheMisses.Inc()

	scans, err := s.storage.ListScansByMonth(ctx, year, month)
	if err != nil {
		return CalendarView{}, fmt.Errorf("load scans: %w", err)
	}

	view := s.buildCalendar(year, month, scansToEvents(scans), analytics.AggregateOptions{})
	s.calendars.Set(key, view)
	return view, nil
}

func (s *AnalyticsService) buildCalendar(year, month int, events []analytics.Event, opts analytics.AggregateOptions) CalendarView {
	byDay := analytics.AggregateByDay(events, year, month, opts)
	grid := analytics.MonthGrid(year, month, byDay, s.now())

	// Heat is relative to the busiest day of this month.
	var max float64
	for _, c := range grid {
		if float64(c.Count) > max {
			max = float64(c.Count)
		}
	}

	cells := make([]CalendarCellView, len(grid))
	total := 0
	for i, c := range grid {
		cells[i] = CalendarCellView{
			Day:       c.Day,
			Count:     c.Count,
			IsFuture:  c.IsFuture,
			Intensity: string(analytics.Level(float64(c.Count), max)),
		}
		total += c.Count
	}

	return CalendarView{Year: year, Month: month, Cells: cells, Total: total}
}

// OrdersMonthly returns the year's revenue bar chart: bars sized by
// revenue, points tracing order counts, currency grid labels. An empty
// status defaults to delivered, the settled-revenue view.
func (s *AnalyticsService) OrdersMonthly(ctx context.Context, year int, status core.OrderStatus) (MonthlyChartView, error) {
	if status == "" {
		status = core.StatusDelivered
	}
	key := fmt.Sprintf("orders:%04d:%s", year, status)
	if v, ok := s.monthly.Get(key); ok {
		metrics.ViewCacheHits.Inc()
		return v, nil
	}
	metrics.ViewCacheMisses.Inc()

	orders, err := s.storage.ListOrdersByYear(ctx, year)
	if err != nil {
		return MonthlyChartView{}, fmt.Errorf("load orders: %w", err)
	}

	events := ordersToEvents(orders)
	buckets := analytics.AggregateByMonth(events, year, analytics.AggregateOptions{
		Include: func(e analytics.Event) bool {
			return e.String("status") == string(status)
		},
		Value: func(e analytics.Event) float64 {
			return e.Number("amount_pesos")
		},
	})

	labels := make([]string, len(buckets))
	counts := make([]int, len(buckets))
	totals := make([]float64, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Key
		counts[i] = b.Count
		totals[i] = b.Sum
	}

	countSeries := make([]float64, len(counts))
	for i, c := range counts {
		countSeries[i] = float64(c)
	}

	maxRevenue := analytics.MaxValue(totals)
	view := MonthlyChartView{
		Year:        year,
		Status:      string(status),
		Labels:      labels,
		Counts:      counts,
		TotalsPesos: totals,
		Bars:        analytics.Bars(totals, defaultChartBox, maxRevenue, analytics.DefaultBarOptions()),
		Points:      analytics.LinePoints(countSeries, defaultChartBox, analytics.MaxValue(countSeries)),
		GridLines:   analytics.GridLines(defaultChartBox, maxRevenue, true),
	}
	s.monthly.Set(key, view)
	return view, nil
}

// TopSellers ranks sellers by delivered revenue. month 0 covers the whole
// year. Ties keep first-seen order; labels are truncated for display.
func (s *AnalyticsService) TopSellers(ctx context.Context, year, month, limit int) (SellerRankingView, error) {
	key := fmt.Sprintf("sellers:%04d-%02d:%d", year, month, limit)
	if v, ok := s.rankings.Get(key); ok {
		metrics.ViewCacheHits.Inc()
		return v, nil
	}
	metrics.ViewCacheMisses.Inc()

	var (
		orders []core.Order
		err    error
	)
	if month == 0 {
		orders, err = s.storage.ListOrdersByYear(ctx, year)
	} else {
		orders, err = s.storage.ListOrdersByMonth(ctx, year, month)
	}
	if err != nil {
		return SellerRankingView{}, fmt.Errorf("load orders: %w", err)
	}

	bySeller := analytics.AggregateByCategory(ordersToEvents(orders), "seller_name", analytics.AggregateOptions{
		Include: func(e analytics.Event) bool {
			return e.String("status") == string(core.StatusDelivered)
		},
		Value: func(e analytics.Event) float64 {
			return e.Number("amount_pesos")
		},
	})

	entries := make([]analytics.RankedEntry, 0, len(bySeller))
	for _, o := range orders {
		// Walk orders to keep first-seen ordering deterministic.
		if b, ok := bySeller[o.SellerName]; ok {
			entries = append(entries, analytics.RankedEntry{Label: b.Key, Value: b.Sum})
			delete(bySeller, o.SellerName)
		}
	}

	ranked := analytics.TopN(entries, limit)
	out := make([]RankedEntryView, len(ranked))
	for i, r := range ranked {
		out[i] = RankedEntryView{
			Label: analytics.TruncateLabel(r.Label, sellerLabelMax),
			Value: r.Value,
		}
	}

	view := SellerRankingView{Year: year, Month: month, Entries: out}
	s.rankings.Set(key, view)
	return view, nil
}

// ScanGrades breaks down grading outcomes. month 0 covers the whole year.
func (s *AnalyticsService) ScanGrades(ctx context.Context, year, month int) (GradeBreakdownView, error) {
	key := fmt.Sprintf("grades:%04d-%02d", year, month)
	if v, ok := s.grades.Get(key); ok {
		metrics.ViewCacheHits.Inc()
		return v, nil
	}
	metrics.ViewCacheMisses.Inc()

	var (
		scans []core.Scan
		err   error
	)
	if month == 0 {
		scans, err = s.storage.ListScansByYear(ctx, year)
	} else {
		scans, err = s.storage.ListScansByMonth(ctx, year, month)
	}
	if err != nil {
		return GradeBreakdownView{}, fmt.Errorf("load scans: %w", err)
	}

	byGrade := analytics.AggregateByCategory(scansToEvents(scans), "grade", analytics.AggregateOptions{})

	total := 0
	for _, b := range byGrade {
		total += b.Count
	}

	// Fixed grade order so the view is stable regardless of map iteration.
	slices := make([]GradeSliceView, 0, 3)
	exported := 0
	for _, g := range []core.Grade{core.GradeExport, core.GradeLocal, core.GradeReject} {
		b := byGrade[string(g)]
		share := 0.0
		if total > 0 {
			share = float64(b.Count) / float64(total)
		}
		if g == core.GradeExport {
			exported = b.Count
		}
		slices = append(slices, GradeSliceView{Grade: string(g), Count: b.Count, Share: share})
	}

	exportRate := 0.0
	if total > 0 {
		exportRate = float64(exported) / float64(total)
	}

	view := GradeBreakdownView{
		Year:       year,
		Month:      month,
		Total:      total,
		ExportRate: exportRate,
		Grades:     slices,
	}
	if month == 0 {
		view.Series = gradeSeries(scansToEvents(scans), year)
	}
	s.grades.Set(key, view)
	return view, nil
}

// gradeSeries traces each grade's monthly counts across the year as line
// geometry, all scaled against the busiest grade-month so the lines share
// one axis.
func gradeSeries(events []analytics.Event, year int) []GradeSeriesView {
	grades := []core.Grade{core.GradeExport, core.GradeLocal, core.GradeReject}

	counts := make([][]float64, len(grades))
	for i, g := range grades {
		grade := string(g)
		buckets := analytics.AggregateByMonth(events, year, analytics.AggregateOptions{
			Include: func(e analytics.Event) bool {
				return e.String("grade") == grade
			},
		})
		series := make([]float64, len(buckets))
		for j, b := range buckets {
			series[j] = float64(b.Count)
		}
		counts[i] = series
	}

	maxCount := analytics.MaxValue(counts...)
	out := make([]GradeSeriesView, len(grades))
	for i, g := range grades {
		monthly := make([]int, len(counts[i]))
		for j, v := range counts[i] {
			monthly[j] = int(v)
		}
		out[i] = GradeSeriesView{
			Grade:  string(g),
			Counts: monthly,
			Points: analytics.LinePoints(counts[i], defaultChartBox, maxCount),
		}
	}
	return out
}

// DashboardSummary aggregates the month's headline numbers in one call.
func (s *AnalyticsService) DashboardSummary(ctx context.Context, year, month int) (DashboardSummaryView, error) {
	orders, err := s.storage.ListOrdersByMonth(ctx, year, month)
	if err != nil {
		return DashboardSummaryView{}, fmt.Errorf("load orders: %w", err)
	}
	posts, err := s.storage.ListPostsByMonth(ctx, year, month)
	if err != nil {
		return DashboardSummaryView{}, fmt.Errorf("load posts: %w", err)
	}

	grades, err := s.ScanGrades(ctx, year, month)
	if err != nil {
		return DashboardSummaryView{}, err
	}
	ranking, err := s.TopSellers(ctx, year, month, 5)
	if err != nil {
		return DashboardSummaryView{}, err
	}

	var revenue float64
	delivered := 0
	for _, o := range orders {
		if o.Status == core.StatusDelivered {
			revenue += o.Amount.Pesos()
			delivered++
		}
	}

	summary := DashboardSummaryView{
		Year:          year,
		Month:         month,
		Orders:        len(orders),
		RevenuePesos:  revenue,
		Scans:         grades.Total,
		ExportRate:    grades.ExportRate,
		Posts:         len(posts),
		SellerRanking: ranking.Entries,
	}
	if len(ranking.Entries) > 0 {
		summary.TopSeller = ranking.Entries[0].Label
	}
	return summary, nil
}

// PayoutRows computes the monthly settlement per seller from delivered
// orders. Used by the report worker when a schedule comes due.
func (s *AnalyticsService) PayoutRows(ctx context.Context, year, month int) ([]reports.PayoutRow, error) {
	orders, err := s.storage.ListOrdersByMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	totals := make(map[string]*reports.PayoutRow)
	order := make([]string, 0)
	for _, o := range orders {
		if o.Status != core.StatusDelivered {
			continue
		}
		row, ok := totals[o.SellerID]
		if !ok {
			row = &reports.PayoutRow{SellerID: o.SellerID, SellerName: o.SellerName}
			totals[o.SellerID] = row
			order = append(order, o.SellerID)
		}
		row.Orders++
		row.TotalCentavos += o.Amount.Centavos
	}

	rows := make([]reports.PayoutRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, *totals[id])
	}
	return rows, nil
}

// CacheStats reports combined hit/miss/eviction counters across the view caches.
func (s *AnalyticsService) CacheStats() cache.Stats {
	var total cache.Stats
	for _, st := range []cache.Stats{
		s.calendars.Stats(),
		s.monthly.Stats(),
		s.rankings.Stats(),
		s.grades.Stats(),
	} {
		total.Hits += st.Hits
		total.Misses += st.Misses
		total.Evictions += st.Evictions
	}
	return total
}

func ordersToEvents(orders []core.Order) []analytics.Event {
	events := make([]analytics.Event, len(orders))
	for i, o := range orders {
		events[i] = analytics.Event{
			Time: o.Date.Time,
			Dimensions: map[string]any{
				"status":       string(o.Status),
				"seller_id":    o.SellerID,
				"seller_name":  o.SellerName,
				"fish_type":    o.FishType,
				"amount_pesos": o.Amount.Pesos(),
			},
		}
	}
	return events
}

func postsToEvents(posts []core.Post) []analytics.Event {
	events := make([]analytics.Event, len(posts))
	for i, p := range posts {
		events[i] = analytics.Event{
			Time: p.Date.Time,
			Dimensions: map[string]any{
				"author":   p.Author,
				"category": p.Category,
			},
		}
	}
	return events
}

func scansToEvents(scans []core.Scan) []analytics.Event {
	events := make([]analytics.Event, len(scans))
	for i, sc := range scans {
		events[i] = analytics.Event{
			Time: sc.Date.Time,
			Dimensions: map[string]any{
				"fish_type": sc.FishType,
				"grade":     string(sc.Grade),
				"score":     sc.Score,
			},
		}
	}
	return events
}
