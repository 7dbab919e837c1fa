package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sellz/sellz-backend/internal/core/domain"
	"github.com/sellz/sellz-backend/internal/core/ports"
)

// resetTokenTTL is how long a password-reset token stays redeemable.
const resetTokenTTL = 10 * time.Minute

// AuthService implements sign-in, role-parameterized registration and the
// password reset/change flows.
type AuthService struct {
	repo     ports.UserRepository
	hasher   *PasswordHasher
	tokens   *TokenService
	blobs    ports.BlobStore
	email    ports.EmailSender
	throttle ports.ResetThrottle
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	repo ports.UserRepository,
	hasher *PasswordHasher,
	tokens *TokenService,
	blobs ports.BlobStore,
	email ports.EmailSender,
	throttle ports.ResetThrottle,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		blobs:    blobs,
		email:    email,
		throttle: throttle,
		logger:   logger,
		now:      time.Now,
	}
}

// SignIn verifies the credentials and issues a session token. Unknown email
// and wrong password both surface as domain.ErrInvalidCredentials so the
// response discloses nothing about which part failed.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user signed in")
	return token, user, nil
}

// SignUp registers a new account with the given role. The profile picture is
// uploaded to the blob store before the record is created; if the create
// then fails, the upload is deleted again.
func (s *AuthService) SignUp(ctx context.Context, role string, in ports.SignupInput) (string, *domain.User, error) {
	if !domain.ValidRole(role) {
		return "", nil, fmt.Errorf("signup: unknown role %q", role)
	}
	if in.Picture == nil {
		return "", nil, domain.ErrMissingPicture
	}
	if len(in.Password) < MinPasswordLength {
		return "", nil, domain.ErrWeakPassword
	}

	// Strict uniqueness pre-check; the unique index on email backs it up
	// against concurrent registrations.
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return "", nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, err
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", nil, err
	}

	now := s.now().UTC()
	id := uuid.New().String()

	key := fmt.Sprintf("profile/user-%s-%d%s", id, now.UnixMilli(), path.Ext(in.Picture.Filename))
	pictureURL, err := s.blobs.UploadImage(ctx, key, *in.Picture)
	if err != nil {
		return "", nil, fmt.Errorf("upload profile picture: %w", err)
	}

	user := &domain.User{
		ID:                id,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		OtherNames:        in.OtherNames,
		DisplayName:       in.DisplayName,
		Birthdate:         in.Birthdate,
		Gender:            in.Gender,
		Country:           in.Country,
		Email:             in.Email,
		PhoneNumber:       in.PhoneNumber,
		Address:           in.Address,
		ProfilePicture:    pictureURL,
		Role:              role,
		PasswordHash:      passwordHash,
		PasswordChangedAt: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if delErr := s.blobs.DeleteImage(ctx, pictureURL); delErr != nil {
			s.logger.Warn().Err(delErr).Str("url", pictureURL).Msg("orphaned profile picture after failed signup")
		}
		return "", nil, err
	}

	token, err := s.tokens.Issue(created.ID, created.Role)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return token, created, nil
}

// ForgotPassword stores a hashed one-time reset token on the user record and
// emails the plaintext token. An email failure rolls the stored token back
// before reporting, so a token the user never received cannot linger.
func (s *AuthService) ForgotPassword(ctx context.Context, email, baseURL string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	ok, err := s.throttle.Reserve(ctx, email)
	if err != nil {
		return fmt.Errorf("reset throttle: %w", err)
	}
	if !ok {
		return domain.ErrResetThrottled
	}

	plaintext, hash, err := newResetToken()
	if err != nil {
		return err
	}

	user.PasswordResetToken = hash
	user.PasswordResetExpires = s.now().UTC().Add(resetTokenTTL)
	if _, err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/resetPassword/%s", baseURL, plaintext)
	message := fmt.Sprintf("Forgot your password? Submit a PATCH request with your new password to: %s.\nIf you didn't forget your password, please ignore this email!", resetURL)

	if err := s.email.Send(ctx, user.Email, "Your password reset token (valid for 10 min)", message); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("reset email failed, rolling token back")

		user.PasswordResetToken = ""
		user.PasswordResetExpires = time.Time{}
		if _, rbErr := s.repo.Update(ctx, user); rbErr != nil {
			s.logger.Error().Err(rbErr).Str("user_id", user.ID).Msg("reset token rollback failed")
		}
		if rbErr := s.throttle.Release(ctx, email); rbErr != nil {
			s.logger.Warn().Err(rbErr).Msg("reset throttle release failed")
		}
		return domain.ErrEmailSend
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password reset token sent")
	return nil
}

// ResetPassword redeems a reset token: the stored hash must match and must
// not be expired, and the new password must differ from the current one.
// On success the reset fields are cleared, password-changed-at is stamped
// and a fresh session token is issued.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (string, *domain.User, error) {
	if len(newPassword) < MinPasswordLength {
		return "", nil, domain.ErrWeakPassword
	}

	user, err := s.repo.FindByResetToken(ctx, hashResetToken(token), s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrResetTokenInvalid
		}
		return "", nil, err
	}

	if s.hasher.Verify(newPassword, user.PasswordHash) {
		return "", nil, domain.ErrSamePassword
	}

	return s.changePassword(ctx, user, newPassword)
}

// UpdatePassword changes the password of an authenticated user after
// verifying the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, *domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return "", nil, domain.ErrWrongPassword
	}
	if len(newPassword) < MinPasswordLength {
		return "", nil, domain.ErrWeakPassword
	}

	return s.changePassword(ctx, user, newPassword)
}

func (s *AuthService) changePassword(ctx context.Context, user *domain.User, newPassword string) (string, *domain.User, error) {
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return "", nil, err
	}

	user.PasswordHash = hash
	user.PasswordResetToken = ""
	user.PasswordResetExpires = time.Time{}
	user.PasswordChangedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(updated.ID, updated.Role)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("user_id", updated.ID).Msg("password changed")
	return token, updated, nil
}

// newResetToken returns a high-entropy plaintext token and its sha256 hex
// hash. Only the hash is ever persisted.
func newResetToken() (plaintext, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("reset token entropy: %w", err)
	}
	plaintext = hex.EncodeToString(buf)
	return plaintext, hashResetToken(plaintext), nil
}

func hashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
