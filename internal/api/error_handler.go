package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sellz/sellz-backend/internal/core/domain"
)

// errorResponse is the canonical error envelope. Status is "fail" for
// caller errors (4xx) and "error" for server errors (5xx).
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns the single error boundary:
//   - Known domain sentinels are operational errors — their message is safe
//     to expose and maps to a deterministic status code.
//   - Anything else is a programmer/integration error: logged with its real
//     cause, surfaced as a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		status := "fail"
		if code >= http.StatusInternalServerError {
			status = "error"
		}
		_ = c.JSON(code, errorResponse{Status: status, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Incorrect email or password"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found!"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "User may already exists"
	case errors.Is(err, domain.ErrWeakPassword):
		return http.StatusBadRequest, "provided password is not strong"
	case errors.Is(err, domain.ErrSamePassword):
		return http.StatusUnauthorized, "New password cannot be same as previous password"
	case errors.Is(err, domain.ErrWrongPassword):
		return http.StatusUnauthorized, "Your current password is wrong"
	case errors.Is(err, domain.ErrResetTokenInvalid):
		return http.StatusBadRequest, "Token is invalid or has expired"
	case errors.Is(err, domain.ErrResetThrottled):
		return http.StatusTooManyRequests, "A reset token was already sent. Check your inbox or retry later."
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, domain.ErrNotAuthorized):
		return http.StatusUnauthorized, "User not authorised to perform this action"
	case errors.Is(err, domain.ErrNoPermissionSet):
		return http.StatusInternalServerError, "Permission not provided."
	case errors.Is(err, domain.ErrMissingPicture):
		return http.StatusBadRequest, "Profile picture not found."
	case errors.Is(err, domain.ErrEmailSend):
		return http.StatusInternalServerError, "There was an error sending the email. Try again later!"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
