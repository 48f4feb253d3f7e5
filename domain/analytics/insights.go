package analytics

import (
	"cmp"
	"slices"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"yt-insights/domain/model"
)

const (
	DefaultInsightCount = 3
	recentWindow        = 30 * 24 * time.Hour
)

var printer = message.NewPrinter(language.English)

// topBy returns the video with the highest metric, keeping input order on ties.
func topBy(videos []model.Video, metric model.Metric) model.Video {
	sorted := slices.Clone(videos)
	slices.SortStableFunc(sorted, func(a, b model.Video) int {
		return cmp.Compare(metric.Of(b.Stats), metric.Of(a.Stats))
	})
	return sorted[0]
}

// AutoInsights derives up to topN short statements from the video table:
// the top performer, the top recent performer and the duration trend.
func AutoInsights(videos []model.Video, metric model.Metric, now time.Time, topN int) []string {
	if len(videos) == 0 {
		return []string{}
	}
	if topN <= 0 {
		topN = DefaultInsightCount
	}
	label := metric.Label()
	insights := make([]string, 0, 3)

	top := topBy(videos, metric)
	insights = append(insights, printer.Sprintf("The video with the most %s is %q with %d.", label, top.Title, int64(metric.Of(top.Stats))))

	threshold := now.Add(-recentWindow)
	var recent []model.Video
	for _, v := range videos {
		if !v.PublishedAt.Before(threshold) {
			recent = append(recent, v)
		}
	}
	if len(recent) > 0 {
		r := topBy(recent, metric)
		insights = append(insights, printer.Sprintf("In the last 30 days %q gained the most %s with %d.", r.Title, label, int64(metric.Of(r.Stats))))
	}

	if shortAvg, longAvg, ok := durationSplit(videos, metric); ok {
		dominant := "Longer"
		if shortAvg > longAvg {
			dominant = "Shorter"
		}
		insights = append(insights, printer.Sprintf("%s videos average more %s (shorter: %.0f / longer: %.0f).", dominant, label, shortAvg, longAvg))
	}

	if len(insights) > topN {
		insights = insights[:topN]
	}
	return insights
}

// durationSplit averages the metric for videos shorter than the median duration
// and for those at or above it. Videos without a duration are ignored.
func durationSplit(videos []model.Video, metric model.Metric) (float64, float64, bool) {
	var durations []float64
	for _, v := range videos {
		if v.DurationSec != nil {
			durations = append(durations, float64(*v.DurationSec))
		}
	}
	if len(durations) == 0 {
		return 0, 0, false
	}
	median := Median(durations)

	var short, long accumulator
	for _, v := range videos {
		if v.DurationSec == nil {
			continue
		}
		if float64(*v.DurationSec) < median {
			short.sum += metric.Of(v.Stats)
			short.count++
		} else {
			long.sum += metric.Of(v.Stats)
			long.count++
		}
	}
	if short.count == 0 || long.count == 0 {
		return 0, 0, false
	}
	return short.sum / float64(short.count), long.sum / float64(long.count), true
}

// Median of xs; xs is not modified.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := slices.Clone(xs)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
