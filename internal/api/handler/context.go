package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trenatra/auth-api/internal/core/domain"
)

// ctxUser extracts the user resolved by an auth guard middleware. A missing
// user means the route was wired without its guard; fail with 401 rather
// than panic.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get("user").(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
