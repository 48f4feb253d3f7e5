package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"

	"yt-insights/domain/dto"
	"yt-insights/infrastructure/utils"
)

// Auth guards a route with an HS256 bearer token. An empty secretKey
// disables the guard.
func Auth(secretKey string, log *logrus.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if secretKey == "" {
			ctx.Next()
			return
		}

		authorization := ctx.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authorization, "Bearer ")
		if !found || tokenString == "" {
			unauthorized(ctx, "missing bearer token")
			return
		}

		claims, err := utils.ParseToken(tokenString, secretKey)
		if err != nil {
			log.WithFields(logrus.Fields{
				"error":     err,
				"requestId": ctx.GetString(RequestIDKey),
			}).Warn("Rejected bearer token")
			unauthorized(ctx, reason(err))
			return
		}

		ctx.Set("subject", claims.Subject)
		ctx.Next()
	}
}

func reason(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return "malformed token"
		} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			// Token is either expired or not active yet
			return "token expired or not yet valid"
		}
	}
	return "invalid token"
}

func unauthorized(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: dto.ErrorBody{Code: dto.CodeUnauthorized, Message: message},
	})
}
