package analytics

import (
	"fmt"
	"time"
)

// Bucket is an aggregated count/sum for one discrete time or category unit.
type Bucket struct {
	Key       string
	Count     int
	Sum       float64
	Breakdown map[string]int
}

// AggregateOptions injects the caller's inclusion and valuation rules so
// one aggregator serves orders, posts, and scans alike. The aggregator
// never reaches into dimension fields by name on its own.
type AggregateOptions struct {
	// Include filters events; nil includes everything.
	Include func(Event) bool

	// Value extracts the amount added to Bucket.Sum; nil leaves sums at 0.
	Value func(Event) float64

	// BreakdownKey, when set, counts events per value of this string
	// dimension inside each bucket (e.g. grade counts per day).
	BreakdownKey string
}

func (o AggregateOptions) includes(e Event) bool {
	return o.Include == nil || o.Include(e)
}

func (o AggregateOptions) addTo(b *Bucket, e Event) {
	b.Count++
	if o.Value != nil {
		b.Sum += o.Value(e)
	}
	if o.BreakdownKey != "" {
		label := e.String(o.BreakdownKey)
		if label != "" {
			if b.Breakdown == nil {
				b.Breakdown = make(map[string]int)
			}
			b.Breakdown[label]++
		}
	}
}

// AggregateByDay buckets qualifying events of the target month by day of
// month. Days with no events are not materialized; MonthGrid fills gaps.
func AggregateByDay(events []Event, year, month int, opts AggregateOptions) map[int]Bucket {
	byDay := make(map[int]Bucket)
	for _, e := range events {
		if e.Time.Year() != year || int(e.Time.Month()) != month {
			continue
		}
		if !opts.includes(e) {
			continue
		}
		day := e.Time.Day()
		b := byDay[day]
		if b.Key == "" {
			b.Key = fmt.Sprintf("%d", day)
		}
		opts.addTo(&b, e)
		byDay[day] = b
	}
	return byDay
}

// AggregateByMonth buckets qualifying events of the target year by month.
// The result always has exactly 12 entries in January..December order,
// zero-initialized, so callers never special-case missing months.
func AggregateByMonth(events []Event, year int, opts AggregateOptions) []Bucket {
	buckets := make([]Bucket, 12)
	for i := range buckets {
		buckets[i].Key = fmt.Sprintf("%04d-%02d", year, i+1)
	}
	for _, e := range events {
		if e.Time.Year() != year {
			continue
		}
		if !opts.includes(e) {
			continue
		}
		opts.addTo(&buckets[e.Time.Month()-time.January], e)
	}
	return buckets
}

// AggregateByCategory groups qualifying events by an arbitrary string
// dimension. A bucket exists only if at least one qualifying event
// produced it; ordering is the ranker's job.
func AggregateByCategory(events []Event, dimension string, opts AggregateOptions) map[string]Bucket {
	byLabel := make(map[string]Bucket)
	for _, e := range events {
		if !opts.includes(e) {
			continue
		}
		label := e.String(dimension)
		if label == "" {
			continue
		}
		b := byLabel[label]
		b.Key = label
		opts.addTo(&b, e)
		byLabel[label] = b
	}
	return byLabel
}
