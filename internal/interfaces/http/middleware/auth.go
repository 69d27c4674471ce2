package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/parcelco/backoffice/internal/infrastructure/auth"
	"github.com/parcelco/backoffice/internal/infrastructure/logger"
	"github.com/parcelco/backoffice/internal/interfaces/http/dto"
)

const claimsKey = "auth_claims"

// TokenVerifier checks admin bearer tokens
type TokenVerifier interface {
	VerifyAdmin(token string) (*auth.Claims, error)
}

// AdminAuth requires a valid identity provider token carrying the admin role
func AdminAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			// browsers cannot set headers on websocket upgrades
			token = c.Query("access_token")
			if token == "" || !isWebsocketUpgrade(c.Request) {
				abortAuth(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Missing authorization header")
				return
			}
		}

		claims, err := verifier.VerifyAdmin(token)
		switch {
		case errors.Is(err, auth.ErrForbidden):
			if claims != nil {
				logger.GetGinLogger(c).Warn("non-admin access denied", zap.String("subject", claims.Subject))
			}
			abortAuth(c, http.StatusForbidden, dto.ErrCodeForbidden, "Admin role required")
			return
		case errors.Is(err, auth.ErrExpiredToken):
			abortAuth(c, http.StatusUnauthorized, dto.ErrCodeTokenExpired, "Token has expired")
			return
		case err != nil:
			abortAuth(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid token")
			return
		}

		c.Set(claimsKey, claims)
		ctx := logger.WithSubject(c.Request.Context(), claims.Subject)
		c.Request = c.Request.WithContext(ctx)
		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.SetAttributes(attribute.String("user_id", claims.Subject))
		}
		c.Next()
	}
}

// GetClaims returns the verified claims set by AdminAuth
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func isWebsocketUpgrade(r *http.Request) bool {
	return r.Header.Get("Upgrade") == "websocket"
}

func abortAuth(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message, GetRequestID(c)))
}
