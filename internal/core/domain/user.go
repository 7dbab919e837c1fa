package domain

import "time"

// Role tags. Permission sets are derived from these in permissions.go.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// Genders accepted on registration.
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// ValidRole reports whether role is a member of the known role set.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// User models an account. Credential fields carry `json:"-"` so they can
// never leak through an externally-serialized representation.
type User struct {
	ID             string `json:"userId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	OtherNames     string `json:"otherNames,omitempty"`
	DisplayName    string `json:"displayName"`
	Birthdate      string `json:"birthdate"` // date-only, YYYY-MM-DD
	Gender         string `json:"gender"`
	Country        string `json:"country"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
	Address        string `json:"address"`
	ProfilePicture string `json:"profilePicture"`
	Role           string `json:"role"`

	PasswordHash         string    `json:"-"`
	PasswordResetToken   string    `json:"-"` // sha256 hex of the one-time reset token
	PasswordResetExpires time.Time `json:"-"`
	PasswordChangedAt    time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName assembles the display form "last other first" used in emails.
func (u *User) FullName() string {
	if u.OtherNames == "" {
		return u.LastName + " " + u.FirstName
	}
	return u.LastName + " " + u.OtherNames + " " + u.FirstName
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token issue time. Tokens issued before a password change are stale.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	// Compare at second precision: JWT iat has no sub-second resolution.
	return u.PasswordChangedAt.Unix() > issuedAt.Unix()
}
