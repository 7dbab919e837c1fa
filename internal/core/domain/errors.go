package domain

import "errors"

// Sentinel errors resolved to HTTP statuses at the API error boundary.
// Anything not in this list is treated as an unexpected server error and
// never has its message exposed to the caller.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrSamePassword       = errors.New("new password cannot be same as previous password")
	ErrWrongPassword      = errors.New("current password is wrong")
	ErrResetTokenInvalid  = errors.New("token is invalid or has expired")
	ErrResetThrottled     = errors.New("a reset token was already issued recently")
	ErrTokenInvalid       = errors.New("invalid or expired token")
	ErrNotAuthorized      = errors.New("user not authorised to perform this action")
	ErrNoPermissionSet    = errors.New("permission not provided")
	ErrMissingPicture     = errors.New("profile picture not found")
	ErrEmailSend          = errors.New("there was an error sending the email")
)
