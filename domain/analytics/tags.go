package analytics

import (
	"cmp"
	"slices"
	"strings"

	"yt-insights/domain/model"
)

// DefaultTagCombinationTop is the number of tag pairs returned when none is requested.
const DefaultTagCombinationTop = 20

type TagStat struct {
	Tag        string  `json:"tag"`
	Value      float64 `json:"value"`
	VideoCount int     `json:"videoCount"`
}

type TagPair struct {
	Combination string  `json:"combination"`
	Value       float64 `json:"value"`
	VideoCount  int     `json:"videoCount"`
}

// distinctTags trims, drops blanks and dedupes, returning tags sorted.
func distinctTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

type accumulator struct {
	sum   float64
	count int
}

// TagPerformance averages the metric per tag, highest first.
func TagPerformance(videos []model.Video, metric model.Metric) []TagStat {
	acc := map[string]*accumulator{}
	for _, v := range videos {
		value := metric.Of(v.Stats)
		for _, tag := range distinctTags(v.Tags) {
			a, ok := acc[tag]
			if !ok {
				a = &accumulator{}
				acc[tag] = a
			}
			a.sum += value
			a.count++
		}
	}

	out := make([]TagStat, 0, len(acc))
	for tag, a := range acc {
		out = append(out, TagStat{Tag: tag, Value: a.sum / float64(a.count), VideoCount: a.count})
	}
	slices.SortFunc(out, func(a, b TagStat) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Tag, b.Tag)
	})
	return out
}

// TagCombinations averages the metric over every unordered pair of co-occurring
// tags and returns the topN pairs. Videos with fewer than two tags are skipped.
func TagCombinations(videos []model.Video, metric model.Metric, topN int) []TagPair {
	if topN <= 0 {
		topN = DefaultTagCombinationTop
	}
	acc := map[string]*accumulator{}
	for _, v := range videos {
		tags := distinctTags(v.Tags)
		if len(tags) < 2 {
			continue
		}
		value := metric.Of(v.Stats)
		for i := 0; i < len(tags); i++ {
			for j := i + 1; j < len(tags); j++ {
				key := tags[i] + " + " + tags[j]
				a, ok := acc[key]
				if !ok {
					a = &accumulator{}
					acc[key] = a
				}
				a.sum += value
				a.count++
			}
		}
	}

	out := make([]TagPair, 0, len(acc))
	for key, a := range acc {
		out = append(out, TagPair{Combination: key, Value: a.sum / float64(a.count), VideoCount: a.count})
	}
	slices.SortFunc(out, func(a, b TagPair) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Combination, b.Combination)
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
