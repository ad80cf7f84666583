package shared

import "github.com/google/uuid"

// Role is a coarse permission grouping for an actor.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleMember Role = "member"
	RoleGuest  Role = "guest"
)

// Actor describes the identity performing an operation: who they are, their
// role, and the explicit permission set granted to them. Services always
// receive the actor as a parameter; there is no ambient actor state.
type Actor struct {
	ID          uuid.UUID
	Role        Role
	Permissions []string
}

// Anonymous returns the unauthenticated guest actor.
func Anonymous() Actor {
	return Actor{Role: RoleGuest}
}

// IsAnonymous reports whether the actor carries no identity.
func (a Actor) IsAnonymous() bool {
	return a.ID == uuid.Nil
}

// IsAdmin reports whether the actor bypasses permission checks.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// HasPermission reports whether the explicit permission set contains perm.
func (a Actor) HasPermission(perm string) bool {
	for _, p := range a.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
