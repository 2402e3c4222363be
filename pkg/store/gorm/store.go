package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/rolejoin/pkg/model"
	"github.com/doodlesbykumbi/rolejoin/pkg/store"
)

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// Store implements store.Store using GORM. It works unchanged on the
// sqlite and postgres dialectors.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying GORM handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Users returns all users ordered by id
func (s *Store) Users(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

// Roles returns all roles ordered by id
func (s *Store) Roles(ctx context.Context) ([]model.Role, error) {
	roles := []model.Role{}
	if err := s.db.WithContext(ctx).Order("id").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}
	return roles, nil
}

// UserRoles returns the link rows of one user ordered by role id
func (s *Store) UserRoles(ctx context.Context, userID int) ([]model.UserRoles, error) {
	links := []model.UserRoles{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("role_id").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user roles for user %d: %w", userID, err)
	}
	return links, nil
}

// AllUserRoles returns the whole link table ordered by (user_id, role_id)
func (s *Store) AllUserRoles(ctx context.Context) ([]model.UserRoles, error) {
	links := []model.UserRoles{}
	if err := s.db.WithContext(ctx).Order("user_id, role_id").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch user roles: %w", err)
	}
	return links, nil
}

// Transaction wraps operations in a database transaction
func (s *Store) Transaction(ctx context.Context, fn func(store.Seeder) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// CreateUsers inserts users
func (s *Store) CreateUsers(ctx context.Context, users ...model.User) error {
	if len(users) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&users).Error; err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	return nil
}

// CreateRoles inserts roles. Role.UserRoles is never written.
func (s *Store) CreateRoles(ctx context.Context, roles ...model.Role) error {
	if len(roles) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&roles).Error; err != nil {
		return fmt.Errorf("failed to create roles: %w", err)
	}
	return nil
}

// AssignRole inserts a link row. The duplicate and reference checks run in
// the insert's transaction; a concurrent writer that wins the race still
// surfaces as ErrDuplicateUserRole or ErrUnknownUserOrRole.
func (s *Store) AssignRole(ctx context.Context, link model.UserRoles) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.UserRoles{}).
			Where("user_id = ? AND role_id = ?", link.UserID, link.RoleID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("user %d, role %d: %w", link.UserID, link.RoleID, store.ErrDuplicateUserRole)
		}

		if err := mustExist(tx, &model.User{}, "user", link.UserID); err != nil {
			return err
		}
		if err := mustExist(tx, &model.Role{}, "role", link.RoleID); err != nil {
			return err
		}
		return tx.Create(&link).Error
	})
	return translateError(err, link)
}

func mustExist(tx *gorm.DB, table interface{}, kind string, id int) error {
	var count int64
	if err := tx.Model(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, store.ErrUnknownUserOrRole)
	}
	return nil
}

// RevokeRole deletes a link row
func (s *Store) RevokeRole(ctx context.Context, userID, roleID int) error {
	tx := s.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&model.UserRoles{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("user %d, role %d: %w", userID, roleID, store.ErrUserRoleNotFound)
	}
	return nil
}

// FindUserRole looks up a link row by its composite key
func (s *Store) FindUserRole(ctx context.Context, userID, roleID int) (*model.UserRoles, error) {
	var link model.UserRoles
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserRoleNotFound
		}
		return nil, err
	}
	return &link, nil
}

// Reset removes all link rows, then all roles, then all users
func (s *Store) Reset(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"user_roles", "roles", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}
