package analytics

import (
	"math"
	"slices"
	"time"

	"yt-insights/domain/model"
)

const (
	DefaultAnomalyWindow    = 7
	DefaultAnomalyThreshold = 2.0
)

type AnomalyPoint struct {
	Date      string  `json:"date"`
	Value     float64 `json:"value"`
	ChangePct float64 `json:"changePct"`
	ZScore    float64 `json:"zScore"`
	IsAnomaly bool    `json:"isAnomaly"`
}

// DailyTotals sums the metric per UTC capture date. When a video has several
// snapshots on one date only the last of them counts.
func DailyTotals(history []model.SnapshotPoint, metric model.Metric) ([]time.Time, []float64) {
	type key struct {
		video int64
		day   time.Time
	}
	last := map[key]model.SnapshotPoint{}
	for _, p := range history {
		y, m, d := p.CapturedAt.UTC().Date()
		k := key{video: p.VideoID, day: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
		if cur, ok := last[k]; !ok || !p.CapturedAt.Before(cur.CapturedAt) {
			last[k] = p
		}
	}

	totals := map[time.Time]float64{}
	for k, p := range last {
		totals[k.day] += metric.Of(p.Stats)
	}
	days := make([]time.Time, 0, len(totals))
	for d := range totals {
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	values := make([]float64, len(days))
	for i, d := range days {
		values[i] = totals[d]
	}
	return days, values
}

// DetectAnomalies flags days whose percent change deviates from the rolling
// window by at least threshold standard deviations. Undefined intermediate
// values (first point, division by zero, short window, zero deviation) are 0.
func DetectAnomalies(history []model.SnapshotPoint, metric model.Metric, window int, threshold float64) []AnomalyPoint {
	if window <= 0 {
		window = DefaultAnomalyWindow
	}
	if threshold <= 0 {
		threshold = DefaultAnomalyThreshold
	}
	days, values := DailyTotals(history, metric)
	out := make([]AnomalyPoint, len(days))
	if len(days) == 0 {
		return out
	}

	changes := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		changes[i] = finiteOrZero((values[i] - values[i-1]) / values[i-1])
	}

	for i, d := range days {
		z := 0.0
		if i >= window-1 {
			mean, std := meanStd(changes[i-window+1 : i+1])
			if std > 0 {
				z = finiteOrZero((changes[i] - mean) / std)
			}
		}
		out[i] = AnomalyPoint{
			Date:      d.Format(time.DateOnly),
			Value:     values[i],
			ChangePct: changes[i],
			ZScore:    z,
			IsAnomaly: math.Abs(z) >= threshold,
		}
	}
	return out
}

// meanStd returns the mean and the sample standard deviation (n-1).
func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	if len(xs) < 2 {
		return mean, 0
	}
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sq / float64(len(xs)-1))
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
