package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sellz/sellz-backend/internal/core/domain"
)

func render(t *testing.T, err error) (int, errorResponse) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		status  string
		message string
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "fail", "Incorrect email or password"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "fail", "User not found!"},
		{"user exists", domain.ErrUserExists, http.StatusConflict, "fail", "User may already exists"},
		{"weak password", domain.ErrWeakPassword, http.StatusBadRequest, "fail", "provided password is not strong"},
		{"same password", domain.ErrSamePassword, http.StatusUnauthorized, "fail", "New password cannot be same as previous password"},
		{"wrong password", domain.ErrWrongPassword, http.StatusUnauthorized, "fail", "Your current password is wrong"},
		{"reset token invalid", domain.ErrResetTokenInvalid, http.StatusBadRequest, "fail", "Token is invalid or has expired"},
		{"not authorised", domain.ErrNotAuthorized, http.StatusUnauthorized, "fail", "User not authorised to perform this action"},
		{"no permission set", domain.ErrNoPermissionSet, http.StatusInternalServerError, "error", "Permission not provided."},
		{"missing picture", domain.ErrMissingPicture, http.StatusBadRequest, "fail", "Profile picture not found."},
		{"email send", domain.ErrEmailSend, http.StatusInternalServerError, "error", "There was an error sending the email. Try again later!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := render(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
			if body.Status != tc.status {
				t.Fatalf("expected status %q, got %q", tc.status, body.Status)
			}
			if body.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, body.Message)
			}
		})
	}
}

func TestErrorHandler_WrappedDomainError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), domain.ErrUserNotFound)
	code, body := render(t, wrapped)
	if code != http.StatusNotFound || body.Message != "User not found!" {
		t.Fatalf("wrapped sentinel not resolved: %d %q", code, body.Message)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, body := render(t, echo.NewHTTPError(http.StatusUnauthorized, "Malformed token."))
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if body.Status != "fail" || body.Message != "Malformed token." {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestErrorHandler_UnexpectedErrorIsGeneric(t *testing.T) {
	code, body := render(t, errors.New("pq: connection refused"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.Status != "error" || body.Message != "internal server error" {
		t.Fatalf("internal details leaked: %+v", body)
	}
}
