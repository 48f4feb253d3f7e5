package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"yt-insights/domain/dto"
	"yt-insights/usecase"
)

type IAnalyticsHandler interface {
	Heatmap(ctx *gin.Context)
	Tags(ctx *gin.Context)
	TagCombinations(ctx *gin.Context)
	Cohorts(ctx *gin.Context)
	Anomalies(ctx *gin.Context)
	Funnel(ctx *gin.Context)
	Revenue(ctx *gin.Context)
	Insights(ctx *gin.Context)
	PublishSlots(ctx *gin.Context)
	Growth(ctx *gin.Context)
	Compare(ctx *gin.Context)
}

type AnalyticsHandler struct {
	analyticsUseCase usecase.IAnalyticsUseCase
	log              *logrus.Logger
}

func NewAnalyticsHandler(analyticsUseCase usecase.IAnalyticsUseCase, log *logrus.Logger) IAnalyticsHandler {
	return &AnalyticsHandler{analyticsUseCase: analyticsUseCase, log: log}
}

// channelQuery runs fn with the channel id and analytics query of the request
// and writes its result.
func channelQuery(h *AnalyticsHandler, ctx *gin.Context, fn func(id int64, query dto.AnalyticsQuery) (any, error)) {
	id, ok := channelIDParam(ctx)
	if !ok {
		return
	}
	var query dto.AnalyticsQuery
	_ = ctx.ShouldBindQuery(&query)

	res, err := fn(id, query)
	if err != nil {
		respondError(ctx, h.log, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

// Heatmap handles GET /channels/:id/analytics/heatmap
func (h *AnalyticsHandler) Heatmap(ctx *gin.Context) {
	channelQuery(h, ctx, func(id int64, q dto.AnalyticsQuery) (any, error) {
		return h.analyticsUseCase.Heatmap(ctx.Request.Context(), id, q)
	})
}

func (h *AnalyticsHandler) Tags(ctx *gin.Context) {
	channelQuery(h, ctx, func(id int64, q dto.AnalyticsQuery) (any, error) {
		return h.analyticsUseCase.TagPerformance(ctx.Request.Context(), id, q)
	})
}

func (h *AnalyticsHandler) TagCombinations(ctx *gin.Context) {
	channelQuery(h, ctx, func(id int64, q dto.AnalyticsQuery) (any, error) {
		return h.analyticsUseCase.TagCombinations(ctx.Request.Context(), id, q)
	})
}

func (h *AnalyticsHandler) Cohorts(ctx *gin.Context) {
	channelQuery(h, ctx, func(id int64, q dto.AnalyticsQuery) (any, error) {
		return h.analyticsUseCase.Cohorts(ctx.Request.Context(), id, q)
	})
}

func (h *AnalyticsHandler) Anomalies(ctx *gin.Context) {
	channelQuery(h, ctx, func(id int64, q dto.AnalyticsQuery) (any, error) {
		return h.analyticsUseCase.Anomalies(ctx.Request.Context(), id, q)
	})
}

func (h *AnalyticsHandler) Funnel(ctx *gin.Context) {
	channelQuery(h, ctx, func(id int64, _ dto.AnalyticsQuery) (any, error) {
		return h.analyticsUseCase.Funnel(ctx.Request.Context(), id)
	})
}

func (h *AnalyticsHandler) Revenue(ctx *gin.Context) {
	channelQuery(h, ctx, func(id int64, q dto.AnalyticsQuery) (any, error) {
		return h.analyticsUseCase.Revenue(ctx.Request.Context(), id, q)
	})
}

func (h *AnalyticsHandler) Insights(ctx *gin.Context) {
	channelQuery(h, ctx, func(id int64, q dto.AnalyticsQuery) (any, error) {
		insights, err := h.analyticsUseCase.Insights(ctx.Request.Context(), id, q)
		if err != nil {
			return nil, err
		}
		return gin.H{"insights": insights}, nil
	})
}

func (h *AnalyticsHandler) PublishSlots(ctx *gin.Context) {
	channelQuery(h, ctx, func(id int64, q dto.AnalyticsQuery) (any, error) {
		return h.analyticsUseCase.PublishSlots(ctx.Request.Context(), id, q)
	})
}

func (h *AnalyticsHandler) Growth(ctx *gin.Context) {
	channelQuery(h, ctx, func(id int64, q dto.AnalyticsQuery) (any, error) {
		return h.analyticsUseCase.Growth(ctx.Request.Context(), id, q)
	})
}

// Compare handles GET /analytics/compare
func (h *AnalyticsHandler) Compare(ctx *gin.Context) {
	var query dto.CompareQuery
	_ = ctx.ShouldBindQuery(&query)

	res, err := h.analyticsUseCase.Compare(ctx.Request.Context(), query)
	if err != nil {
		respondError(ctx, h.log, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}
