package dto

// AnalyticsQuery holds the query parameters shared by the analytics endpoints.
// Each endpoint reads the subset it needs.
type AnalyticsQuery struct {
	Metric    string `form:"metric" url:"metric,omitempty"`
	TZ        string `form:"tz" url:"tz,omitempty"`
	Days      string `form:"days" url:"days,omitempty"`
	Window    string `form:"window" url:"window,omitempty"`
	Threshold string `form:"threshold" url:"threshold,omitempty"`
	Top       string `form:"top" url:"top,omitempty"`
	RPM       string `form:"rpm" url:"rpm,omitempty"`
	VideoIDs  string `form:"videoIds" url:"videoIds,omitempty"`
}

// CompareQuery holds GET /analytics/compare parameters.
type CompareQuery struct {
	IDs string `form:"ids" url:"ids,omitempty"`
}
