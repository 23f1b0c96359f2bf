package analysis

import "github.com/raphaelgruber/commnet/internal/models"

// RoleVector is a per-role value in fixed [TOP, JUG, MID, ADC, SUP] order.
type RoleVector [models.RoleCount]float64

// Centrality sums per-role out and in tallies over every bucket whose real
// time falls inside w. The vectors are raw counts, not normalized.
func Centrality(buckets []models.SummaryBucket, w models.TimeWindow) (out, in RoleVector) {
	for _, b := range buckets {
		if !w.Contains(b.Offset()) {
			continue
		}
		outs := models.ParseRoleCounts(b.OutCounts)
		ins := models.ParseRoleCounts(b.InCounts)
		for _, r := range models.Roles {
			out[r] += float64(outs[r])
			in[r] += float64(ins[r])
		}
	}
	return out, in
}

// Metric names one of the per-bucket series values.
type Metric string

const (
	MetricCount   Metric = "COUNT"
	MetricDensity Metric = "DENSITY"
	MetricCOD     Metric = "COD"
	MetricCID     Metric = "CID"
)

// SeriesPoint is one bucket value positioned on the match timeline.
type SeriesPoint struct {
	RealTimeSec int64   `json:"realTimeSec" yaml:"real_time_sec"`
	Value       float64 `json:"value" yaml:"value"`
}

// Series extracts metric m for the buckets inside w.
func Series(buckets []models.SummaryBucket, w models.TimeWindow, m Metric) []SeriesPoint {
	points := make([]SeriesPoint, 0, len(buckets))
	for _, b := range buckets {
		if !w.Contains(b.Offset()) {
			continue
		}
		var v float64
		switch m {
		case MetricCount:
			v = float64(b.Count)
		case MetricDensity:
			v = b.Density
		case MetricCOD:
			v = b.COD
		case MetricCID:
			v = b.CID
		}
		points = append(points, SeriesPoint{RealTimeSec: b.Offset() / 1000, Value: v})
	}
	return points
}
