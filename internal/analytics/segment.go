package analytics

import (
	"sort"
)

// The four fixed segment names, in rank order.
const (
	SegmentHighValue   = "High Value"
	SegmentMediumValue = "Medium Value"
	SegmentLowValue    = "Low Value"
	SegmentPotential   = "Potential"

	// SegmentUnknown is the sentinel for lookups that miss every segment.
	SegmentUnknown = "Unknown"
)

var segmentNames = [4]string{SegmentHighValue, SegmentMediumValue, SegmentLowValue, SegmentPotential}

// SegmentCustomers ranks customers descending by monetary value and partitions
// them into the four fixed segments. Despite the "K-Means" label the dashboard
// uses, this is a deterministic rank-and-bucket split, not iterative clustering.
//
// Bucketing is front-loaded: with n customers and size = ceil(n/4), ranks
// [0,size) land in High Value, the next size in Medium Value and so on, so the
// trailing segments may come up empty when n < 4. Ties in monetary value keep
// their original first-seen order, which makes the partition deterministic for
// a given input order.
func SegmentCustomers(customers []CustomerMetrics) []Segment {
	n := len(customers)

	ranked := make([]CustomerMetrics, n)
	copy(ranked, customers)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Monetary > ranked[j].Monetary
	})

	size := (n + 3) / 4

	segments := make([]Segment, 0, 4)
	for rank, name := range segmentNames {
		lo := min(rank*size, n)
		hi := min((rank+1)*size, n)
		if rank == len(segmentNames)-1 {
			hi = n // remainder
		}
		segments = append(segments, buildSegment(name, ranked[lo:hi], n))
	}

	return segments
}

func buildSegment(name string, members []CustomerMetrics, total int) Segment {
	seg := Segment{
		Name:    name,
		Count:   len(members),
		Members: members,
	}

	var sum float64
	for _, m := range members {
		sum += m.Monetary
		seg.Transactions = append(seg.Transactions, m.Transactions...)
	}

	if total > 0 {
		seg.Percentage = float64(seg.Count) / float64(total) * 100
	}
	if seg.Count > 0 {
		seg.AvgValue = sum / float64(seg.Count)
	}

	return seg
}

// SegmentOf scans segment membership for a customer id, returning
// SegmentUnknown when the id is not found. A miss should not occur for
// internally consistent data.
func SegmentOf(segments []Segment, customerID string) string {
	for _, seg := range segments {
		for _, m := range seg.Members {
			if m.CustomerID == customerID {
				return seg.Name
			}
		}
	}
	return SegmentUnknown
}

// ClassifyByThreshold assigns a segment name from fixed monetary cutoffs.
//
// This is the legacy classifier used by the tabular analytics view. It
// disagrees with the canonical rank-based partition above for the same segment
// names: the two algorithms produce different partitions of the same data.
// The rank-based split is canonical; this one is kept for the per-customer
// table it originally fed and must not be mixed into the segment objects.
func ClassifyByThreshold(avgValue float64, frequency int, daysSinceLast int) string {
	switch {
	case avgValue > 300000 && frequency >= 3:
		return SegmentHighValue
	case avgValue > 150000 && frequency >= 2:
		return SegmentMediumValue
	case avgValue < 100000 && daysSinceLast > 30:
		return SegmentLowValue
	default:
		return SegmentPotential
	}
}

// ThresholdSegmentCounts tallies customers per segment under the legacy
// threshold classifier, using each customer's mean per-transaction value.
func ThresholdSegmentCounts(customers []CustomerMetrics) map[string]int {
	counts := map[string]int{
		SegmentHighValue:   0,
		SegmentMediumValue: 0,
		SegmentLowValue:    0,
		SegmentPotential:   0,
	}
	for _, c := range customers {
		avg := 0.0
		if c.Frequency > 0 {
			avg = c.Monetary / float64(c.Frequency)
		}
		counts[ClassifyByThreshold(avg, c.Frequency, c.Recency)]++
	}
	return counts
}

// ClusterPoints projects each customer onto the segmentation scatter chart,
// tagged with its canonical segment.
func ClusterPoints(customers []CustomerMetrics, segments []Segment) []ClusterPoint {
	points := make([]ClusterPoint, 0, len(customers))
	for _, c := range customers {
		points = append(points, ClusterPoint{
			X:          c.NormalizedFrequency * 100,
			Y:          c.NormalizedMonetary / 1000,
			Segment:    SegmentOf(segments, c.CustomerID),
			CustomerID: c.CustomerID,
		})
	}
	return points
}
