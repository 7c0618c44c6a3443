package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trenatra/auth-api/internal/api/metrics"
	"github.com/trenatra/auth-api/internal/core/domain"
	"github.com/trenatra/auth-api/internal/core/ports"
)

// BasicAuth resolves HTTP Basic credentials (username = email) to a user
// before the wrapped handler runs, and stores it on the context under "user".
// Verification failures propagate to the central error handler.
func BasicAuth(credentials ports.CredentialService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, password, ok := c.Request().BasicAuth()
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing basic credentials")
			}

			user, err := credentials.Verify(c.Request().Context(), email, password)
			if err != nil {
				return err
			}

			c.Set("user", user)
			return next(c)
		}
	}
}

// BearerAuth validates the bearer token and stores the resolved user on the
// context under "user". Absent, malformed, unknown, and expired tokens all
// yield 401.
func BearerAuth(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, err := sessions.Validate(c.Request().Context(), parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrInvalidSession) {
					metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				} else {
					metrics.TokenValidationsTotal.WithLabelValues("error").Inc()
				}
				return err
			}

			metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()
			c.Set("user", user)
			return next(c)
		}
	}
}
