package analytics

import (
	"cmp"
	"slices"
	"strings"

	"yt-insights/domain/model"
)

// DefaultCheckpoints are the days-since-publish checkpoints for cohorts.
var DefaultCheckpoints = []int{30, 90}

type CohortPoint struct {
	Cohort     string  `json:"cohort"`
	Days       int     `json:"days"`
	Value      float64 `json:"value"`
	VideoCount int     `json:"videoCount"`
}

// byVideo groups history by video, each group ordered by capture time.
func byVideo(history []model.SnapshotPoint) ([]int64, map[int64][]model.SnapshotPoint) {
	groups := map[int64][]model.SnapshotPoint{}
	var order []int64
	for _, p := range history {
		if _, ok := groups[p.VideoID]; !ok {
			order = append(order, p.VideoID)
		}
		groups[p.VideoID] = append(groups[p.VideoID], p)
	}
	for _, id := range order {
		slices.SortStableFunc(groups[id], func(a, b model.SnapshotPoint) int {
			return a.CapturedAt.Compare(b.CapturedAt)
		})
	}
	slices.Sort(order)
	return order, groups
}

// SnapshotAt returns the last snapshot taken at most days after publish.
func SnapshotAt(points []model.SnapshotPoint, days int) (model.SnapshotPoint, bool) {
	var (
		found bool
		last  model.SnapshotPoint
	)
	for _, p := range points {
		if p.DaysSincePublish() <= days {
			if !found || !p.CapturedAt.Before(last.CapturedAt) {
				last = p
			}
			found = true
		}
	}
	return last, found
}

// CohortPerformance groups videos by publish month and averages, per
// checkpoint, each video's metric as of that many days after publish.
func CohortPerformance(history []model.SnapshotPoint, metric model.Metric, checkpoints []int) []CohortPoint {
	if len(checkpoints) == 0 {
		checkpoints = DefaultCheckpoints
	}
	type key struct {
		cohort string
		days   int
	}
	acc := map[key]*accumulator{}

	order, groups := byVideo(history)
	for _, id := range order {
		points := groups[id]
		cohort := points[0].PublishedAt.UTC().Format("2006-01")
		for _, d := range checkpoints {
			p, ok := SnapshotAt(points, d)
			if !ok {
				continue
			}
			k := key{cohort: cohort, days: d}
			a, ok := acc[k]
			if !ok {
				a = &accumulator{}
				acc[k] = a
			}
			a.sum += metric.Of(p.Stats)
			a.count++
		}
	}

	out := make([]CohortPoint, 0, len(acc))
	for k, a := range acc {
		out = append(out, CohortPoint{Cohort: k.cohort, Days: k.days, Value: a.sum / float64(a.count), VideoCount: a.count})
	}
	slices.SortFunc(out, func(a, b CohortPoint) int {
		if c := strings.Compare(a.Cohort, b.Cohort); c != 0 {
			return c
		}
		return cmp.Compare(a.Days, b.Days)
	})
	return out
}

type GrowthPoint struct {
	DaysSincePublish int     `json:"daysSincePublish"`
	Value            float64 `json:"value"`
}

type GrowthCurve struct {
	VideoID int64         `json:"videoId"`
	Title   string        `json:"title"`
	Points  []GrowthPoint `json:"points"`
}

// GrowthCurves returns the metric over days since publish for each requested video.
// Videos without history are omitted.
func GrowthCurves(history []model.SnapshotPoint, videoIDs []int64, metric model.Metric) []GrowthCurve {
	_, groups := byVideo(history)
	out := make([]GrowthCurve, 0, len(videoIDs))
	for _, id := range videoIDs {
		points, ok := groups[id]
		if !ok {
			continue
		}
		curve := GrowthCurve{VideoID: id, Title: points[0].Title, Points: make([]GrowthPoint, 0, len(points))}
		for _, p := range points {
			curve.Points = append(curve.Points, GrowthPoint{DaysSincePublish: p.DaysSincePublish(), Value: metric.Of(p.Stats)})
		}
		out = append(out, curve)
	}
	return out
}
