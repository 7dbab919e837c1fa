package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sellz/sellz-backend/internal/api/middleware"
	"github.com/sellz/sellz-backend/internal/core/domain"
)

// currentUser extracts the user attached by the RequireAuth middleware.
// Its absence on a protected route means the middleware never ran — treat
// as unauthenticated rather than panicking.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.ContextUserKey).(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
