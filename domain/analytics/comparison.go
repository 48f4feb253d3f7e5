package analytics

import (
	"cmp"
	"slices"

	"yt-insights/domain/model"
)

type ChannelComparison struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	SubscriberCount int64  `json:"subscriberCount"`
	ViewCount       int64  `json:"viewCount"`
	VideoCount      int64  `json:"videoCount"`
}

// CompareChannels keeps the selected channels ordered by subscribers, highest first.
func CompareChannels(channels []model.Channel, ids []int64) []ChannelComparison {
	out := []ChannelComparison{}
	if len(ids) == 0 {
		return out
	}
	for _, c := range channels {
		if !slices.Contains(ids, c.ID) {
			continue
		}
		out = append(out, ChannelComparison{
			ID:              c.ID,
			Title:           c.Title,
			SubscriberCount: c.SubscriberCount,
			ViewCount:       c.ViewCount,
			VideoCount:      c.VideoCount,
		})
	}
	slices.SortStableFunc(out, func(a, b ChannelComparison) int {
		return cmp.Compare(b.SubscriberCount, a.SubscriberCount)
	})
	return out
}
