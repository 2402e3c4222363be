package gorm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/rolejoin/pkg/model"
	"github.com/doodlesbykumbi/rolejoin/pkg/store"
)

// setupSQLite opens a migrated private in-memory SQLite database
func setupSQLite(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db, dsn))

	s := NewStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedDefault(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.CreateUsers(ctx, model.User{ID: 1, Name: "User 1"}, model.User{ID: 2, Name: "User 2"}))
	require.NoError(t, s.CreateRoles(ctx, model.Role{ID: 1, Name: "Role 1"}, model.Role{ID: 2, Name: "Role 2"}))
}

func TestSQLite_EmptyContext(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	users, err := s.Users(ctx)
	require.NoError(t, err)
	roles, err := s.Roles(ctx)
	require.NoError(t, err)
	links, err := s.AllUserRoles(ctx)
	require.NoError(t, err)

	assert.Empty(t, users)
	assert.Empty(t, roles)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}

func TestSQLite_CreateAndRead(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()
	seedDefault(t, s)

	users, err := s.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.User{{ID: 1, Name: "User 1"}, {ID: 2, Name: "User 2"}}, users)

	roles, err := s.Roles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "Role 1", roles[0].Name)
	assert.Nil(t, roles[0].UserRoles)
}

func TestSQLite_CreateRolesIgnoresNavigation(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.CreateUsers(ctx, model.User{ID: 1, Name: "User 1"}))

	err := s.CreateRoles(ctx, model.Role{
		ID:        1,
		Name:      "Role 1",
		UserRoles: []model.UserRoles{{UserID: 1, RoleID: 1}},
	})
	require.NoError(t, err)

	links, err := s.AllUserRoles(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestSQLite_AssignAndFind(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()
	seedDefault(t, s)

	_, err := s.FindUserRole(ctx, 1, 1)
	assert.ErrorIs(t, err, store.ErrUserRoleNotFound)

	require.NoError(t, s.AssignRole(ctx, model.UserRoles{UserID: 1, RoleID: 1}))

	found, err := s.FindUserRole(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, model.UserRoles{UserID: 1, RoleID: 1}, *found)

	err = s.AssignRole(ctx, model.UserRoles{UserID: 1, RoleID: 1})
	assert.ErrorIs(t, err, store.ErrDuplicateUserRole)
}

func TestSQLite_AssignRole_UnknownUserOrRole(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()
	seedDefault(t, s)

	err := s.AssignRole(ctx, model.UserRoles{UserID: 99, RoleID: 1})
	assert.ErrorIs(t, err, store.ErrUnknownUserOrRole)

	err = s.AssignRole(ctx, model.UserRoles{UserID: 1, RoleID: 99})
	assert.ErrorIs(t, err, store.ErrUnknownUserOrRole)

	links, err := s.AllUserRoles(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestSQLite_TranslateConstraintErrors(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()
	seedDefault(t, s)
	db := s.DB().WithContext(ctx)

	// Raw inserts skip AssignRole's checks, as a concurrent writer would
	link := model.UserRoles{UserID: 1, RoleID: 1}
	require.NoError(t, db.Create(&link).Error)

	err := db.Create(&model.UserRoles{UserID: 1, RoleID: 1}).Error
	require.Error(t, err)
	assert.ErrorIs(t, translateError(err, link), store.ErrDuplicateUserRole)

	dangling := model.UserRoles{UserID: 1, RoleID: 99}
	err = db.Create(&dangling).Error
	require.Error(t, err)
	assert.ErrorIs(t, translateError(err, dangling), store.ErrUnknownUserOrRole)

	other := errors.New("disk full")
	assert.Same(t, other, translateError(other, link))
	assert.NoError(t, translateError(nil, link))
}

func TestSQLite_UserRolesFiltersByUser(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()
	seedDefault(t, s)
	for _, l := range []model.UserRoles{{UserID: 2, RoleID: 2}, {UserID: 1, RoleID: 2}, {UserID: 1, RoleID: 1}} {
		require.NoError(t, s.AssignRole(ctx, l))
	}

	links, err := s.UserRoles(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []model.UserRoles{{UserID: 1, RoleID: 1}, {UserID: 1, RoleID: 2}}, links)

	none, err := s.UserRoles(ctx, 3)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	all, err := s.AllUserRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, model.UserRoles{UserID: 2, RoleID: 2}, all[2])
}

func TestSQLite_RevokeRole(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()
	seedDefault(t, s)
	require.NoError(t, s.AssignRole(ctx, model.UserRoles{UserID: 2, RoleID: 1}))

	require.NoError(t, s.RevokeRole(ctx, 2, 1))
	assert.ErrorIs(t, s.RevokeRole(ctx, 2, 1), store.ErrUserRoleNotFound)
}

func TestSQLite_TransactionRollback(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx store.Seeder) error {
		require.NoError(t, tx.CreateUsers(ctx, model.User{ID: 1, Name: "User 1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	users, err := s.Users(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestSQLite_Reset(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()
	seedDefault(t, s)
	require.NoError(t, s.AssignRole(ctx, model.UserRoles{UserID: 1, RoleID: 1}))

	require.NoError(t, s.Reset(ctx))

	users, _ := s.Users(ctx)
	roles, _ := s.Roles(ctx)
	links, _ := s.AllUserRoles(ctx)
	assert.Empty(t, users)
	assert.Empty(t, roles)
	assert.Empty(t, links)
}

func TestSQLite_MigratorVersion(t *testing.T) {
	s := setupSQLite(t)

	m, err := NewMigrator(s.DB(), "")
	require.NoError(t, err)
	defer func() { _ = m.Close() }()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// already up to date
	assert.NoError(t, m.Up())

	// the GORM pool is still usable after closing the migrator
	require.NoError(t, m.Close())
	_, err = s.Roles(context.Background())
	assert.NoError(t, err)
}
