package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sellz/sellz-backend/internal/core/domain"
	"github.com/sellz/sellz-backend/internal/core/service"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, _ string, _ time.Time) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) { return u, nil }
func (r *stubUserRepo) Update(_ context.Context, u *domain.User) (*domain.User, error) { return u, nil }
func (r *stubUserRepo) Delete(_ context.Context, _ string) error                       { return nil }

type gateFixture struct {
	e      *echo.Echo
	tokens *service.TokenService
	repo   *stubUserRepo
	table  domain.PermissionTable
}

func newGateFixture(users ...*domain.User) *gateFixture {
	return &gateFixture{
		e:      echo.New(),
		tokens: service.NewTokenService("secret", time.Hour),
		repo:   newStubUserRepo(users...),
		table:  domain.BuildPermissions(),
	}
}

// run sends a request through the gate and reports the response code, the
// message of any rejection, and whether the inner handler ran.
func (f *gateFixture) run(t *testing.T, authHeader string, required ...string) (int, string, bool) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)

	called := false
	mw := RequireAuth(f.tokens, f.repo, f.table, required...)
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)

	if err != nil {
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			t.Fatalf("unexpected error type: %v", err)
		}
		return he.Code, he.Message.(string), called
	}
	return rec.Code, "", called
}

func TestRequireAuth_WildcardSkipsEverything(t *testing.T) {
	f := newGateFixture()

	code, _, called := f.run(t, "", domain.PermissionAny)
	if !called || code != http.StatusOK {
		t.Fatalf("wildcard route rejected: code=%d called=%v", code, called)
	}

	// Even a garbage header is ignored on a wildcard route.
	code, _, called = f.run(t, "Bearer garbage", domain.PermissionAny)
	if !called || code != http.StatusOK {
		t.Fatalf("wildcard route with garbage header rejected: code=%d", code)
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	f := newGateFixture()

	code, msg, called := f.run(t, "", domain.PermGetUserDetails)
	if called || code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", code, called)
	}
	if msg != "No authorization headers." {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	f := newGateFixture()

	// One token after splitting on whitespace.
	code, msg, called := f.run(t, "Bad", domain.PermGetUserDetails)
	if called || code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", code, called)
	}
	if msg != "Malformed token." {
		t.Fatalf("unexpected message: %q", msg)
	}

	// Wrong scheme.
	if code, msg, _ = f.run(t, "Token abc", domain.PermGetUserDetails); code != http.StatusUnauthorized || msg != "Malformed token." {
		t.Fatalf("expected 401 Malformed token., got %d %q", code, msg)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	f := newGateFixture()

	code, _, called := f.run(t, "Bearer not-a-token", domain.PermGetUserDetails)
	if called || code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", code, called)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleUser}
	f := newGateFixture(user)

	expired := service.NewTokenService("secret", time.Nanosecond)
	token, err := expired.Issue(user.ID, user.Role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	code, _, called := f.run(t, "Bearer "+token, domain.PermGetUserDetails)
	if called || code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d (called=%v)", code, called)
	}
}

func TestRequireAuth_InsufficientPermission(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleUser}
	f := newGateFixture(user)

	token, err := f.tokens.Issue(user.ID, user.Role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	code, msg, called := f.run(t, "Bearer "+token, domain.PermCreateAdmin)
	if called {
		t.Fatalf("handler ran despite missing permission")
	}
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if msg != domain.ErrNotAuthorized.Error() {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestRequireAuth_NoPermissionConfigured(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleUser}
	f := newGateFixture(user)

	token, err := f.tokens.Issue(user.ID, user.Role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Route declared a requirement but supplied none: server misconfiguration.
	code, _, called := f.run(t, "Bearer "+token)
	if called || code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d (called=%v)", code, called)
	}
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	f := newGateFixture() // no users stored

	token, err := f.tokens.Issue("gone-user", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	code, msg, called := f.run(t, "Bearer "+token, domain.PermGetUserDetails)
	if called || code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", code, called)
	}
	if msg != "The user belonging to this token does no longer exist." {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestRequireAuth_StaleTokenAfterPasswordChange(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleUser}
	f := newGateFixture(user)

	token, err := f.tokens.Issue(user.ID, user.Role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Password changed after the token was issued.
	user.PasswordChangedAt = time.Now().Add(time.Hour)

	code, msg, called := f.run(t, "Bearer "+token, domain.PermGetUserDetails)
	if called || code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for stale token, got %d (called=%v)", code, called)
	}
	if msg != "User recently changed password! Please log in again." {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestRequireAuth_Success(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleAdmin, Email: "a@x.com"}
	f := newGateFixture(user)

	token, err := f.tokens.Issue(user.ID, user.Role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)

	mw := RequireAuth(f.tokens, f.repo, f.table, domain.PermGetUser)
	err = mw(func(c echo.Context) error {
		got, ok := c.Get(ContextUserKey).(*domain.User)
		if !ok || got.ID != "u1" {
			t.Fatalf("resolved user not attached to context")
		}
		return c.NoContent(http.StatusOK)
	})(c)

	if err != nil {
		t.Fatalf("gate rejected a valid request: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
