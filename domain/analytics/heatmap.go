package analytics

import (
	"cmp"
	"slices"
	"time"

	"yt-insights/domain/model"
)

// Weekdays is the Monday-first row order of the heatmap.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// weekdayIndex maps time.Weekday (Sunday=0) to the Monday-first index.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// HeatmapRow holds one weekday. Hours[h] is nil when nothing was published in that slot.
type HeatmapRow struct {
	Weekday string       `json:"weekday"`
	Hours   [24]*float64 `json:"hours"`
}

type Heatmap struct {
	Metric model.Metric `json:"metric"`
	Rows   []HeatmapRow `json:"rows"`
}

// BuildHeatmap averages the metric per publish weekday and hour in loc.
func BuildHeatmap(videos []model.Video, metric model.Metric, loc *time.Location) Heatmap {
	h := Heatmap{Metric: metric, Rows: []HeatmapRow{}}
	if len(videos) == 0 {
		return h
	}
	if loc == nil {
		loc = time.UTC
	}

	var sums, counts [7][24]float64
	for _, v := range videos {
		t := v.PublishedAt.In(loc)
		d, hr := weekdayIndex(t), t.Hour()
		sums[d][hr] += metric.Of(v.Stats)
		counts[d][hr]++
	}

	h.Rows = make([]HeatmapRow, 7)
	for d := range Weekdays {
		h.Rows[d].Weekday = Weekdays[d]
		for hr := 0; hr < 24; hr++ {
			if counts[d][hr] == 0 {
				continue
			}
			avg := sums[d][hr] / counts[d][hr]
			h.Rows[d].Hours[hr] = &avg
		}
	}
	return h
}

// PublishSlot is one heatmap cell.
type PublishSlot struct {
	Weekday string  `json:"weekday"`
	Hour    int     `json:"hour"`
	Value   float64 `json:"value"`
}

// SuggestPublishSlots flattens the heatmap and returns the topN highest cells.
func SuggestPublishSlots(h Heatmap, topN int) []PublishSlot {
	type cell struct {
		day int
		PublishSlot
	}
	var cells []cell
	for d, row := range h.Rows {
		for hr, v := range row.Hours {
			if v == nil {
				continue
			}
			cells = append(cells, cell{day: d, PublishSlot: PublishSlot{Weekday: row.Weekday, Hour: hr, Value: *v}})
		}
	}
	slices.SortFunc(cells, func(a, b cell) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		if c := cmp.Compare(a.day, b.day); c != 0 {
			return c
		}
		return cmp.Compare(a.Hour, b.Hour)
	})

	if topN > 0 && len(cells) > topN {
		cells = cells[:topN]
	}
	out := make([]PublishSlot, 0, len(cells))
	for _, c := range cells {
		out = append(out, c.PublishSlot)
	}
	return out
}
