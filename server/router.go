package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"yt-insights/domain/dto"
	"yt-insights/infrastructure/metrics"
	httpHandler "yt-insights/interfaces/http"
	"yt-insights/interfaces/middleware"
)

func InitiateRouter(
	channelHandler httpHandler.IChannelHandler,
	analyticsHandler httpHandler.IAnalyticsHandler,
	healthHandler httpHandler.IHealthHandler,
	m *metrics.Metrics,
	secretKey string,
	log *logrus.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:   []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:          12 * time.Hour,
	}))
	router.Use(middleware.RequestID(log))
	router.Use(middleware.Metrics(m))

	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: dto.ErrorBody{Code: dto.CodeNotFound, Message: "route not found"}})
	})

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	channels := router.Group("/channels")
	channels.POST("/import", middleware.Auth(secretKey, log), channelHandler.Import)
	channels.GET("", channelHandler.ListChannels)
	channels.GET("/:id", channelHandler.GetChannel)
	channels.GET("/:id/videos", channelHandler.ListVideos)

	channelAnalytics := channels.Group("/:id/analytics")
	channelAnalytics.GET("/heatmap", analyticsHandler.Heatmap)
	channelAnalytics.GET("/tags", analyticsHandler.Tags)
	channelAnalytics.GET("/tag-combinations", analyticsHandler.TagCombinations)
	channelAnalytics.GET("/cohorts", analyticsHandler.Cohorts)
	channelAnalytics.GET("/anomalies", analyticsHandler.Anomalies)
	channelAnalytics.GET("/funnel", analyticsHandler.Funnel)
	channelAnalytics.GET("/revenue", analyticsHandler.Revenue)
	channelAnalytics.GET("/insights", analyticsHandler.Insights)
	channelAnalytics.GET("/publish-slots", analyticsHandler.PublishSlots)
	channelAnalytics.GET("/growth", analyticsHandler.Growth)

	router.GET("/analytics/compare", analyticsHandler.Compare)

	return router
}
