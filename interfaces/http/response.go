package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"yt-insights/domain/apperror"
	"yt-insights/domain/dto"
)

const genericErrorMessage = "internal server error, please try again later"

func abortWithError(ctx *gin.Context, status int, code, message string) {
	ctx.AbortWithStatusJSON(status, dto.ErrorResponse{Error: dto.ErrorBody{Code: code, Message: message}})
}

// respondError maps an error's kind to the envelope. Upstream and internal
// details are logged, never returned.
func respondError(ctx *gin.Context, log *logrus.Logger, err error) {
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		abortWithError(ctx, http.StatusBadRequest, dto.CodeInvalidParameter, apperror.MessageOf(err))
	case apperror.KindNotFound:
		abortWithError(ctx, http.StatusNotFound, dto.CodeNotFound, apperror.MessageOf(err))
	default:
		log.WithFields(logrus.Fields{
			"error":     err,
			"kind":      apperror.KindOf(err).String(),
			"path":      ctx.FullPath(),
			"requestId": ctx.GetString("request_id"),
		}).Error("Request failed")
		abortWithError(ctx, http.StatusInternalServerError, dto.CodeInternalError, genericErrorMessage)
	}
}
