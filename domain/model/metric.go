package model

// Metric names an engagement counter used by analytics.
type Metric string

const (
	MetricViews    Metric = "view_count"
	MetricLikes    Metric = "like_count"
	MetricComments Metric = "comment_count"
)

func (m Metric) Valid() bool {
	switch m {
	case MetricViews, MetricLikes, MetricComments:
		return true
	}
	return false
}

// Label is the human readable name used in insight sentences.
func (m Metric) Label() string {
	switch m {
	case MetricLikes:
		return "likes"
	case MetricComments:
		return "comments"
	default:
		return "views"
	}
}

// Of extracts the metric value from a stats record.
func (m Metric) Of(s VideoStats) float64 {
	switch m {
	case MetricLikes:
		return float64(s.LikeCount)
	case MetricComments:
		return float64(s.CommentCount)
	default:
		return float64(s.ViewCount)
	}
}
