package analytics

import (
	"cmp"
	"slices"

	"yt-insights/domain/model"
)

const (
	DefaultRPM       = 1200.0
	revenueTopVideos = 10
	StageViews       = "views"
	StageLikes       = "likes"
	StageComments    = "comments"
)

type FunnelStage struct {
	Stage      string  `json:"stage"`
	Value      int64   `json:"value"`
	Conversion float64 `json:"conversion"`
}

func safeRatio(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Funnel returns views -> likes -> comments with stage-to-stage conversion.
func Funnel(videos []model.Video) []FunnelStage {
	if len(videos) == 0 {
		return []FunnelStage{}
	}
	var views, likes, comments int64
	for _, v := range videos {
		views += v.Stats.ViewCount
		likes += v.Stats.LikeCount
		comments += v.Stats.CommentCount
	}
	return []FunnelStage{
		{Stage: StageViews, Value: views, Conversion: 1.0},
		{Stage: StageLikes, Value: likes, Conversion: safeRatio(likes, views)},
		{Stage: StageComments, Value: comments, Conversion: safeRatio(comments, likes)},
	}
}

type RevenueVideo struct {
	VideoID          int64   `json:"videoId"`
	YouTubeVideoID   string  `json:"youtubeVideoId"`
	Title            string  `json:"title"`
	ViewCount        int64   `json:"viewCount"`
	EstimatedRevenue float64 `json:"estimatedRevenue"`
}

type RevenueSimulation struct {
	RPM            float64        `json:"rpm"`
	TotalViews     int64          `json:"totalViews"`
	TotalEstimated float64        `json:"totalEstimated"`
	PerVideo       []RevenueVideo `json:"perVideo"`
}

// SimulateRevenue projects revenue linearly as views/1000 * rpm.
func SimulateRevenue(videos []model.Video, rpm float64) RevenueSimulation {
	sim := RevenueSimulation{RPM: rpm, PerVideo: []RevenueVideo{}}
	for _, v := range videos {
		sim.TotalViews += v.Stats.ViewCount
	}
	sim.TotalEstimated = float64(sim.TotalViews) / 1000 * rpm

	sorted := slices.Clone(videos)
	slices.SortStableFunc(sorted, func(a, b model.Video) int {
		return cmp.Compare(b.Stats.ViewCount, a.Stats.ViewCount)
	})
	if len(sorted) > revenueTopVideos {
		sorted = sorted[:revenueTopVideos]
	}
	for _, v := range sorted {
		sim.PerVideo = append(sim.PerVideo, RevenueVideo{
			VideoID:          v.ID,
			YouTubeVideoID:   v.YouTubeVideoID,
			Title:            v.Title,
			ViewCount:        v.Stats.ViewCount,
			EstimatedRevenue: float64(v.Stats.ViewCount) / 1000 * rpm,
		})
	}
	return sim
}
