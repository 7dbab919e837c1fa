package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sellz/sellz-backend/internal/api/metrics"
	"github.com/sellz/sellz-backend/internal/core/domain"
	"github.com/sellz/sellz-backend/internal/core/ports"
	"github.com/sellz/sellz-backend/internal/core/service"
)

// ContextUserKey is where RequireAuth stores the resolved *domain.User.
const ContextUserKey = "currentUser"

// RequireAuth gates a route behind token verification and a permission
// check. One pass per request:
//
//  1. wildcard requirement → allow immediately (public route on a
//     protected router)
//  2. extract "Bearer <token>" from the Authorization header
//  3. verify signature and expiry
//  4. check the token's role against the permission table — a hard gate,
//     nothing below runs on failure
//  5. resolve the user; a token whose subject was deleted is rejected
//  6. reject tokens issued before the user's last password change (the only
//     revocation mechanism; stateless tokens cannot be recalled otherwise)
//  7. attach the user to the request context
func RequireAuth(tokens *service.TokenService, users ports.UserRepository, table domain.PermissionTable, required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, p := range required {
				if p == domain.PermissionAny {
					return next(c)
				}
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No authorization headers.")
			}

			parts := strings.Fields(header)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Malformed token.")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrTokenInvalid.Error())
			}

			if err := table.Check(claims.Role, required...); err != nil {
				if err == domain.ErrNoPermissionSet {
					return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
				}
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			user, err := users.FindByID(c.Request().Context(), claims.Subject)
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("orphaned").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "The user belonging to this token does no longer exist.")
			}

			if claims.IssuedAt == nil || user.ChangedPasswordAfter(claims.IssuedAt.Time) {
				metrics.TokenVerificationsTotal.WithLabelValues("stale").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "User recently changed password! Please log in again.")
			}

			metrics.TokenVerificationsTotal.WithLabelValues("success").Inc()
			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}
