package domain

// PermissionAny is the wildcard required-permission. A route gated with it
// is intentionally public and skips token verification entirely.
const PermissionAny = "*"

// Permission strings, grouped by the lowest role that holds them.
const (
	PermCreateUser       = "create:user"
	PermGetUserDetails   = "get:user-details"
	PermPatchUserDetails = "patch:user-details"

	PermGetUser = "get:user"

	PermCreateAdmin     = "create:admin"
	PermGetAdminUser    = "get:admin-user"
	PermPatchAdminUser  = "patch:admin-user"
	PermDeleteAdminUser = "delete:admin-user"
)

// PermissionTable is a flat, immutable role → permission-set mapping.
// Inheritance between roles is composed once in BuildPermissions; lookups
// never chase role chains at request time.
type PermissionTable map[string]map[string]struct{}

// BuildPermissions composes the static permission sets:
//
//	user       — own-account actions
//	admin      — user's set plus user administration reads
//	superadmin — admin's set plus admin-account management
func BuildPermissions() PermissionTable {
	user := []string{PermCreateUser, PermGetUserDetails, PermPatchUserDetails}
	admin := append([]string{PermGetUser}, user...)
	superadmin := append([]string{PermCreateAdmin, PermGetAdminUser, PermPatchAdminUser, PermDeleteAdminUser}, admin...)

	t := make(PermissionTable, 3)
	t[RoleUser] = toSet(user)
	t[RoleAdmin] = toSet(admin)
	t[RoleSuperadmin] = toSet(superadmin)
	return t
}

func toSet(perms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Check verifies that role holds every required permission.
//
//	ErrNoPermissionSet — the route declared a requirement but supplied none
//	                     (server misconfiguration, maps to 500)
//	ErrNotAuthorized   — unknown role, or any required permission missing
//
// The wildcard short-circuits to allow regardless of role.
func (t PermissionTable) Check(role string, required ...string) error {
	if len(required) == 0 {
		return ErrNoPermissionSet
	}
	for _, p := range required {
		if p == PermissionAny {
			return nil
		}
	}

	set, ok := t[role]
	if !ok {
		return ErrNotAuthorized
	}
	for _, p := range required {
		if _, ok := set[p]; !ok {
			return ErrNotAuthorized
		}
	}
	return nil
}
