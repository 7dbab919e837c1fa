package ports

import (
	"context"

	"github.com/sellz/sellz-backend/internal/core/domain"
)

// SignupInput is the validated registration payload. The target role is not
// part of it: roles are assigned by the endpoint, never by the caller.
type SignupInput struct {
	FirstName   string
	LastName    string
	OtherNames  string
	DisplayName string
	Birthdate   string
	Gender      string
	Country     string
	Email       string
	PhoneNumber string
	Address     string
	Password    string
	Picture     *PictureUpload
}

type AuthService interface {
	SignIn(ctx context.Context, email, password string) (string, *domain.User, error)
	SignUp(ctx context.Context, role string, in SignupInput) (string, *domain.User, error)
	// ForgotPassword issues a reset token and emails it embedded in
	// baseURL + "/api/v1/users/resetPassword/{token}".
	ForgotPassword(ctx context.Context, email, baseURL string) error
	ResetPassword(ctx context.Context, token, newPassword string) (string, *domain.User, error)
	UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, *domain.User, error)
}
