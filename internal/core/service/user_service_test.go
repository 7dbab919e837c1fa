package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sellz/sellz-backend/internal/core/domain"
	"github.com/sellz/sellz-backend/internal/core/ports"
)

type userFixture struct {
	svc   *UserService
	repo  *stubUserRepo
	blobs *stubBlobStore
}

func newUserFixture(users ...*domain.User) *userFixture {
	repo := newStubUserRepo()
	for _, u := range users {
		repo.users[u.ID] = cloneUser(u)
	}
	blobs := &stubBlobStore{}
	return &userFixture{svc: NewUserService(repo, blobs, zerolog.Nop()), repo: repo, blobs: blobs}
}

func TestUserService_GetUser(t *testing.T) {
	f := newUserFixture(&domain.User{ID: "u1", Email: "a@x.com"})

	user, err := f.svc.GetUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.Email != "a@x.com" {
		t.Fatalf("wrong user returned: %+v", user)
	}

	if _, err := f.svc.GetUser(context.Background(), "ghost"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateUser_PartialFields(t *testing.T) {
	f := newUserFixture(&domain.User{
		ID:          "u1",
		FirstName:   "Ada",
		LastName:    "Mensah",
		Country:     "GH",
		PhoneNumber: "+233200000000",
	})

	newCountry := "NG"
	newPhone := "+2348000000000"
	updated, err := f.svc.UpdateUser(context.Background(), "u1", ports.UpdateUserInput{
		Country:     &newCountry,
		PhoneNumber: &newPhone,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Country != "NG" || updated.PhoneNumber != "+2348000000000" {
		t.Fatalf("provided fields not applied: %+v", updated)
	}
	// Absent fields keep their stored values.
	if updated.FirstName != "Ada" || updated.LastName != "Mensah" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if updated.UpdatedAt.IsZero() {
		t.Fatalf("updated-at not stamped")
	}
}

func TestUserService_UpdateUser_UnknownUser(t *testing.T) {
	f := newUserFixture()

	name := "x"
	if _, err := f.svc.UpdateUser(context.Background(), "ghost", ports.UpdateUserInput{FirstName: &name}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateProfilePicture_SwapsAndCleansUp(t *testing.T) {
	f := newUserFixture(&domain.User{ID: "u1", ProfilePicture: "https://cdn.test/profile/old.png"})

	pic := ports.PictureUpload{Filename: "new.jpg", ContentType: "image/jpeg", Body: strings.NewReader("jpg-bytes"), Size: 9}
	updated, err := f.svc.UpdateProfilePicture(context.Background(), "u1", pic)
	if err != nil {
		t.Fatalf("update picture: %v", err)
	}

	if !strings.HasPrefix(updated.ProfilePicture, "https://cdn.test/profile/user-u1-") {
		t.Fatalf("new picture URL not stored: %s", updated.ProfilePicture)
	}
	if !strings.HasSuffix(updated.ProfilePicture, ".jpg") {
		t.Fatalf("original extension not kept: %s", updated.ProfilePicture)
	}
	if len(f.blobs.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(f.blobs.uploads))
	}
	if len(f.blobs.deletes) != 1 || f.blobs.deletes[0] != "https://cdn.test/profile/old.png" {
		t.Fatalf("previous picture not removed: %v", f.blobs.deletes)
	}
}

func TestUserService_UpdateProfilePicture_UploadFailureKeepsRecord(t *testing.T) {
	f := newUserFixture(&domain.User{ID: "u1", ProfilePicture: "https://cdn.test/profile/old.png"})
	f.blobs.failUpload = true

	pic := ports.PictureUpload{Filename: "new.jpg", Body: strings.NewReader("jpg-bytes"), Size: 9}
	if _, err := f.svc.UpdateProfilePicture(context.Background(), "u1", pic); err == nil {
		t.Fatalf("expected error")
	}

	stored := f.repo.users["u1"]
	if stored.ProfilePicture != "https://cdn.test/profile/old.png" {
		t.Fatalf("record changed despite failed upload: %s", stored.ProfilePicture)
	}
	if len(f.blobs.deletes) != 0 {
		t.Fatalf("previous picture removed despite failed upload")
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	f := newUserFixture(&domain.User{ID: "u1", ProfilePicture: "https://cdn.test/profile/me.png"})

	if err := f.svc.DeleteUser(context.Background(), "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(f.repo.users) != 0 {
		t.Fatalf("record not deleted")
	}
	if len(f.blobs.deletes) != 1 || f.blobs.deletes[0] != "https://cdn.test/profile/me.png" {
		t.Fatalf("profile picture not removed: %v", f.blobs.deletes)
	}

	if err := f.svc.DeleteUser(context.Background(), "u1"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestUserService_UpdateUser_TimestampUsesClock(t *testing.T) {
	f := newUserFixture(&domain.User{ID: "u1"})

	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }

	name := "Ama"
	updated, err := f.svc.UpdateUser(context.Background(), "u1", ports.UpdateUserInput{FirstName: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.UpdatedAt.Equal(fixed) {
		t.Fatalf("expected %v, got %v", fixed, updated.UpdatedAt)
	}
}
