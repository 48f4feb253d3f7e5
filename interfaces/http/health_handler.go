package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"yt-insights/domain/repository"
)

const healthTimeout = 3 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type IHealthHandler interface {
	Health(ctx *gin.Context)
}

type HealthHandler struct {
	db        Pinger
	rateLimit repository.IRateLimitStore
	log       *logrus.Logger
}

func NewHealthHandler(db Pinger, rateLimit repository.IRateLimitStore, log *logrus.Logger) IHealthHandler {
	return &HealthHandler{db: db, rateLimit: rateLimit, log: log}
}

// Health reports 503 when the database is down. The rate-limit store is
// fail-open, so its outage only degrades the status.
func (h *HealthHandler) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	overall := "ok"
	checks := gin.H{}

	if h.db == nil {
		checks["database"] = "not configured"
		status, overall = http.StatusServiceUnavailable, "unavailable"
	} else if err := h.db.PingContext(pingCtx); err != nil {
		h.log.WithField("error", err).Warn("Health check: database ping failed")
		checks["database"] = "unavailable"
		status, overall = http.StatusServiceUnavailable, "unavailable"
	} else {
		checks["database"] = "ok"
	}

	if h.rateLimit == nil {
		checks["rateLimit"] = "not configured"
	} else if err := h.rateLimit.Ping(pingCtx); err != nil {
		h.log.WithField("error", err).Warn("Health check: rate limit store ping failed")
		checks["rateLimit"] = "unavailable"
		if status == http.StatusOK {
			overall = "degraded"
		}
	} else {
		checks["rateLimit"] = "ok"
	}

	ctx.JSON(status, gin.H{"status": overall, "checks": checks})
}
