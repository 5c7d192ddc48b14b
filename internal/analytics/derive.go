package analytics

import (
	"math"
	"sort"
	"time"

	"rfm-dash/internal/ingest"
)

// Totals computes the portfolio-level metrics. Every ratio is defined as 0
// when its denominator is 0, so an empty dataset yields all-zero totals
// instead of NaN.
func Totals(records []ingest.TransactionRecord, customers []CustomerMetrics) Metrics {
	m := Metrics{
		TotalCustomers:    len(customers),
		TotalTransactions: len(records),
	}
	for _, r := range records {
		m.TotalRevenue += r.Amount
	}
	if m.TotalTransactions > 0 {
		m.ConversionRate = float64(m.TotalCustomers) / float64(m.TotalTransactions) * 100
		m.AvgTransactionValue = m.TotalRevenue / float64(m.TotalTransactions)
	}
	return m
}

// CategoryBreakdown sums revenue per category and reports the top 5 by raw
// revenue, each as a rounded integer percentage of total category revenue.
func CategoryBreakdown(records []ingest.TransactionRecord) []CategoryShare {
	revenue := make(map[string]float64)
	var order []string
	for _, r := range records {
		if _, seen := revenue[r.Category]; !seen {
			order = append(order, r.Category)
		}
		revenue[r.Category] += r.Amount
	}

	var total float64
	for _, v := range revenue {
		total += v
	}

	shares := make([]CategoryShare, 0, len(order))
	for _, name := range order {
		share := CategoryShare{Name: name, Revenue: revenue[name]}
		if total > 0 {
			share.Value = int(math.Round(revenue[name] / total * 100))
		}
		shares = append(shares, share)
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Revenue > shares[j].Revenue
	})

	if len(shares) > 5 {
		shares = shares[:5]
	}
	return shares
}

// cohortMonths is the fixed month-name ordering used for cohort sorting.
// Indonesian short names, matching the dashboard's locale.
var cohortMonths = [12]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// CohortRetention groups transactions by calendar month name and reports the
// last 6 months in chronological order. Retention is each month's distinct
// customer count as a percentage of the earliest included month's; revenue is
// reported in millions, rounded.
func CohortRetention(records []ingest.TransactionRecord) []CohortPoint {
	type monthAgg struct {
		customers map[string]bool
		revenue   float64
	}
	byMonth := make(map[string]*monthAgg)

	for _, r := range records {
		t, err := time.Parse(ingest.DateLayout, r.Date)
		if err != nil {
			continue
		}
		name := cohortMonths[int(t.Month())-1]
		agg, ok := byMonth[name]
		if !ok {
			agg = &monthAgg{customers: make(map[string]bool)}
			byMonth[name] = agg
		}
		agg.customers[r.CustomerID] = true
		agg.revenue += r.Amount
	}

	var names []string
	for name := range byMonth {
		names = append(names, name)
	}
	monthIndex := make(map[string]int, len(cohortMonths))
	for i, name := range cohortMonths {
		monthIndex[name] = i
	}
	sort.Slice(names, func(i, j int) bool {
		return monthIndex[names[i]] < monthIndex[names[j]]
	})

	if len(names) > 6 {
		names = names[len(names)-6:]
	}
	if len(names) == 0 {
		return nil
	}

	baseline := len(byMonth[names[0]].customers)
	if baseline == 0 {
		baseline = 1
	}

	points := make([]CohortPoint, 0, len(names))
	for _, name := range names {
		agg := byMonth[name]
		points = append(points, CohortPoint{
			Month:     name,
			Retention: int(math.Round(float64(len(agg.customers)) / float64(baseline) * 100)),
			Revenue:   int(math.Round(agg.revenue / 1_000_000)),
		})
	}
	return points
}

// clvRanges are the five fixed monetary buckets, in base currency units.
var clvRanges = []struct {
	label string
	min   float64
	max   float64
}{
	{"< 1M", 0, 1_000_000},
	{"1-3M", 1_000_000, 3_000_000},
	{"3-5M", 3_000_000, 5_000_000},
	{"5-10M", 5_000_000, 10_000_000},
	{"> 10M", 10_000_000, math.Inf(1)},
}

// CLVDistribution buckets each customer's total monetary value into the five
// fixed ranges. Counts always sum to the customer total.
func CLVDistribution(customers []CustomerMetrics) []CLVBucket {
	buckets := make([]CLVBucket, len(clvRanges))
	for i, r := range clvRanges {
		buckets[i].Range = r.label
		for _, c := range customers {
			if c.Monetary >= r.min && c.Monetary < r.max {
				buckets[i].Count++
			}
		}
	}

	if total := len(customers); total > 0 {
		for i := range buckets {
			buckets[i].Percentage = int(math.Round(float64(buckets[i].Count) / float64(total) * 100))
		}
	}
	return buckets
}

// RFMBySegment averages recency/frequency/monetary across each segment's
// members and normalizes the averages against the dataset-wide maxima onto a
// 0-100 scale. Recency is inverted (higher raw recency scores lower), floored
// at 0. When a maximum is 0 the ratio is defined as 0, so an all-zero-recency
// dataset scores 100 on recency and an all-zero-monetary one scores 0 on
// monetary.
func RFMBySegment(segments []Segment, customers []CustomerMetrics) []RFMScore {
	var maxRecency, maxMonetary float64
	var maxFrequency int
	for _, c := range customers {
		maxRecency = math.Max(maxRecency, float64(c.Recency))
		maxMonetary = math.Max(maxMonetary, c.Monetary)
		if c.Frequency > maxFrequency {
			maxFrequency = c.Frequency
		}
	}

	ratio := func(avg, max float64) float64 {
		if max == 0 {
			return 0
		}
		return avg / max
	}

	scores := make([]RFMScore, 0, len(segments))
	for _, seg := range segments {
		score := RFMScore{Segment: seg.Name, Count: seg.Count}
		if seg.Count > 0 {
			var sumR, sumM float64
			var sumF int
			for _, m := range seg.Members {
				sumR += float64(m.Recency)
				sumF += m.Frequency
				sumM += m.Monetary
			}
			n := float64(seg.Count)
			score.Recency = int(math.Round(math.Max(0, 100-ratio(sumR/n, maxRecency)*100)))
			score.Frequency = int(math.Round(ratio(float64(sumF)/n, float64(maxFrequency)) * 100))
			score.Monetary = int(math.Round(ratio(sumM/n, maxMonetary) * 100))
		}
		scores = append(scores, score)
	}
	return scores
}

// TimeSeries groups transactions by exact date string, sums revenue and count
// per date, and keeps the most recent 30 distinct dates in ascending order.
func TimeSeries(records []ingest.TransactionRecord) []TimeSeriesPoint {
	byDate := make(map[string]*TimeSeriesPoint)
	for _, r := range records {
		p, ok := byDate[r.Date]
		if !ok {
			p = &TimeSeriesPoint{Date: r.Date}
			byDate[r.Date] = p
		}
		p.Revenue += r.Amount
		p.Transactions++
	}

	points := make([]TimeSeriesPoint, 0, len(byDate))
	for _, p := range byDate {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	if len(points) > 30 {
		points = points[len(points)-30:]
	}
	return points
}
