package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yt-insights/domain/dto"
	"yt-insights/infrastructure/metrics"
	"yt-insights/infrastructure/utils"
)

const secret = "s3cret"

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func guarded(secretKey string) *gin.Engine {
	r := gin.New()
	r.POST("/channels/import", Auth(secretKey, quietLogger()), func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString("subject"))
	})
	return r
}

func call(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/channels/import", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_Disabled(t *testing.T) {
	w := call(guarded(""), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_ValidToken(t *testing.T) {
	token, err := utils.GenerateToken("operator", time.Hour, secret)
	require.NoError(t, err)

	w := call(guarded(secret), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "operator", w.Body.String())
}

func TestAuth_Rejected(t *testing.T) {
	wrongKey, err := utils.GenerateToken("operator", time.Hour, "other")
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		wantMessage   string
	}{
		{name: "missing header", authorization: "", wantMessage: "missing bearer token"},
		{name: "not bearer", authorization: "Basic Zm9vOmJhcg==", wantMessage: "missing bearer token"},
		{name: "malformed", authorization: "Bearer not-a-token", wantMessage: "malformed token"},
		{name: "wrong key", authorization: "Bearer " + wrongKey, wantMessage: "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(guarded(secret), tt.authorization)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var res dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Equal(t, dto.CodeUnauthorized, res.Error.Code)
			assert.Equal(t, tt.wantMessage, res.Error.Message)
		})
	}
}

func TestRequestID(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(RequestID(log))
	r.GET("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString(RequestIDKey))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	require.Len(t, hook.Entries, 2)
	entry := hook.LastEntry()
	assert.Equal(t, "abc-123", entry.Data["requestId"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
	assert.Equal(t, "/ping", entry.Data["path"])
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/channels/:id", func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	for _, target := range []string{"/channels/1", "/channels/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestsInFlight))
}
