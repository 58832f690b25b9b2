package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/perlametro/users-service/internal/metrics"
	"github.com/perlametro/users-service/internal/core/domain"
)

// TokenVerifier decodes and validates a raw bearer token.
type TokenVerifier interface {
	Verify(raw string) (*domain.Claims, error)
}

// Auth validates the bearer token and injects the claims into the echo
// context under "user_id", "email" and "role". Every failure, from a missing
// header to an expired token, yields 401.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenExpired):
					metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				default:
					metrics.TokenVerificationsTotal.WithLabelValues("malformed").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
			}

			if !domain.ValidRole(claims.Role) {
				metrics.TokenVerificationsTotal.WithLabelValues("malformed").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)

			return next(c)
		}
	}
}
