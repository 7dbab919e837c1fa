package ports

import (
	"context"

	"github.com/sellz/sellz-backend/internal/core/domain"
)

// UpdateUserInput holds the profile fields a PATCH may change. Nil pointers
// leave the stored value untouched. Credential and role fields are
// deliberately absent: they move only through the auth flows.
type UpdateUserInput struct {
	FirstName   *string
	LastName    *string
	OtherNames  *string
	DisplayName *string
	Country     *string
	PhoneNumber *string
	Address     *string
}

type UserService interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	UpdateProfilePicture(ctx context.Context, id string, pic PictureUpload) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}
