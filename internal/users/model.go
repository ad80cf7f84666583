// Package users manages platform accounts and the credential check the
// auth module builds actors from.
package users

import (
	"github.com/jackc/pgx/v5"

	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/shared"
)

// User is one platform account. The password hash never serializes.
type User struct {
	entity.Meta
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Role         shared.Role `json:"role"`
	Permissions  []string    `json:"permissions"`
	Active       bool        `json:"active"`
	PasswordHash string      `json:"-"`

	// rawPassword stages a plaintext password between input mapping and
	// the hashing hook. It never reaches the store.
	rawPassword string
}

// Visibility implements entity.Record. Accounts are never public.
func (u *User) Visibility() shared.Visibility {
	return shared.VisibilityPrivate
}

// Table is the relational mapping consumed by the generic store.
var Table = entity.Table[*User]{
	Name:          "users",
	Columns:       []string{"email", "name", "role", "permissions", "active", "password_hash"},
	SearchColumns: []string{"email", "name"},
	DefaultOrder:  "email",
	Scan: func(row pgx.CollectableRow) (*User, error) {
		var u User
		err := row.Scan(
			&u.ID, &u.CreatedAt, &u.CreatedBy, &u.UpdatedAt, &u.UpdatedBy, &u.DeletedAt, &u.DeletedBy,
			&u.Email, &u.Name, &u.Role, &u.Permissions, &u.Active, &u.PasswordHash,
		)
		return &u, err
	},
	Values: func(u *User) []any {
		return []any{u.Email, u.Name, u.Role, u.Permissions, u.Active, u.PasswordHash}
	},
}
