package ports

import (
	"context"
	"time"

	"github.com/sellz/sellz-backend/internal/core/domain"
)

// UserRepository is the credential-store port. Implementations must surface
// domain.ErrUserNotFound / domain.ErrUserExists so the service layer can map
// them without knowing the backing store.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByResetToken matches the stored reset-token hash and requires the
	// stored expiry to be after now. Expired or unknown hashes return
	// domain.ErrUserNotFound.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
