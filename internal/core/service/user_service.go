package service

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/rs/zerolog"

	"github.com/sellz/sellz-backend/internal/core/domain"
	"github.com/sellz/sellz-backend/internal/core/ports"
)

// UserService covers the user-record operations outside the auth flows:
// profile reads, profile updates, picture replacement and account deletion.
type UserService struct {
	repo   ports.UserRepository
	blobs  ports.BlobStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, blobs ports.BlobStore, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, blobs: blobs, logger: logger, now: time.Now}
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(&user.FirstName, in.FirstName)
	apply(&user.LastName, in.LastName)
	apply(&user.OtherNames, in.OtherNames)
	apply(&user.DisplayName, in.DisplayName)
	apply(&user.Country, in.Country)
	apply(&user.PhoneNumber, in.PhoneNumber)
	apply(&user.Address, in.Address)
	user.UpdatedAt = s.now().UTC()

	return s.repo.Update(ctx, user)
}

// UpdateProfilePicture uploads the replacement image first, then swaps the
// reference on the record. The previous object is removed best-effort: a
// stale blob is preferable to a record pointing at a deleted one.
func (s *UserService) UpdateProfilePicture(ctx context.Context, id string, pic ports.PictureUpload) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("profile/user-%s-%d%s", user.ID, s.now().UnixMilli(), path.Ext(pic.Filename))
	url, err := s.blobs.UploadImage(ctx, key, pic)
	if err != nil {
		return nil, fmt.Errorf("upload profile picture: %w", err)
	}

	previous := user.ProfilePicture
	user.ProfilePicture = url
	user.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	if previous != "" && previous != url {
		if delErr := s.blobs.DeleteImage(ctx, previous); delErr != nil {
			s.logger.Warn().Err(delErr).Str("url", previous).Msg("could not delete previous profile picture")
		}
	}

	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return err
	}

	if user.ProfilePicture != "" {
		if delErr := s.blobs.DeleteImage(ctx, user.ProfilePicture); delErr != nil {
			s.logger.Warn().Err(delErr).Str("url", user.ProfilePicture).Msg("could not delete profile picture of removed user")
		}
	}

	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func apply(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
