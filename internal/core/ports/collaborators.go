package ports

import (
	"context"
	"io"
)

// PictureUpload carries an uploaded image from the HTTP layer to the blob
// store without touching the local filesystem.
type PictureUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// BlobStore persists uploaded images and returns a publicly reachable URL.
type BlobStore interface {
	UploadImage(ctx context.Context, key string, pic PictureUpload) (string, error)
	DeleteImage(ctx context.Context, key string) error
}

// EmailSender delivers a plain-text message to a single address.
type EmailSender interface {
	Send(ctx context.Context, to, subject, message string) error
}

// ResetThrottle limits how often a password-reset email may be issued for
// one address. Reserve returns false when a reservation is already held.
type ResetThrottle interface {
	Reserve(ctx context.Context, email string) (bool, error)
	Release(ctx context.Context, email string) error
}
