package store

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/rolejoin/pkg/model"
)

// ErrUserRoleNotFound is returned when a link row doesn't exist
var ErrUserRoleNotFound = errors.New("user role not found")

// ErrDuplicateUserRole is returned when a link row with the same
// (user_id, role_id) already exists
var ErrDuplicateUserRole = errors.New("user role already exists")

// ErrUnknownUserOrRole is returned when a link row names a user or role
// that doesn't exist
var ErrUnknownUserOrRole = errors.New("unknown user or role")

// ErrUnknownBackend is returned for a backend name no store is registered for
var ErrUnknownBackend = errors.New("unknown backend")

// Source reads snapshots of the users, roles and user_roles tables.
// Every call returns freshly allocated slices the caller may keep.
type Source interface {
	// Users returns all users ordered by id.
	Users(ctx context.Context) ([]model.User, error)

	// Roles returns all roles ordered by id. UserRoles is not populated.
	Roles(ctx context.Context) ([]model.Role, error)

	// UserRoles returns the link rows of one user ordered by role id.
	UserRoles(ctx context.Context, userID int) ([]model.UserRoles, error)

	// AllUserRoles returns the whole link table ordered by (user_id, role_id).
	AllUserRoles(ctx context.Context) ([]model.UserRoles, error)
}

// Seeder writes users, roles and role assignments.
type Seeder interface {
	// Transaction runs fn against a transactional Seeder.
	// If fn returns an error nothing it wrote is kept.
	Transaction(ctx context.Context, fn func(Seeder) error) error

	// CreateUsers inserts users.
	CreateUsers(ctx context.Context, users ...model.User) error

	// CreateRoles inserts roles. Role.UserRoles is ignored.
	CreateRoles(ctx context.Context, roles ...model.Role) error

	// AssignRole inserts a link row.
	// Returns ErrDuplicateUserRole if the pair is already assigned and
	// ErrUnknownUserOrRole if the user or the role doesn't exist.
	AssignRole(ctx context.Context, link model.UserRoles) error

	// RevokeRole deletes a link row.
	// Returns ErrUserRoleNotFound if the pair is not assigned.
	RevokeRole(ctx context.Context, userID, roleID int) error

	// FindUserRole looks up a link row by its composite key.
	// Returns ErrUserRoleNotFound if it doesn't exist.
	FindUserRole(ctx context.Context, userID, roleID int) (*model.UserRoles, error)

	// Reset removes all link rows, then all roles, then all users.
	Reset(ctx context.Context) error
}

// Store is a complete storage backend.
type Store interface {
	Source
	Seeder

	// Close releases the backend's resources.
	Close() error
}
