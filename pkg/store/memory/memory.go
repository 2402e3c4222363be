package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/doodlesbykumbi/rolejoin/pkg/model"
	"github.com/doodlesbykumbi/rolejoin/pkg/store"
)

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

type tables struct {
	users map[int]model.User
	roles map[int]model.Role
	links map[model.UserRoleKey]model.UserRoles
}

func newTables() *tables {
	return &tables{
		users: map[int]model.User{},
		roles: map[int]model.Role{},
		links: map[model.UserRoleKey]model.UserRoles{},
	}
}

func (t *tables) clone() *tables {
	c := &tables{
		users: make(map[int]model.User, len(t.users)),
		roles: make(map[int]model.Role, len(t.roles)),
		links: make(map[model.UserRoleKey]model.UserRoles, len(t.links)),
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.roles {
		c.roles[k] = v
	}
	for k, v := range t.links {
		c.links[k] = v
	}
	return c
}

type database struct {
	mu sync.RWMutex
	t  *tables
}

var (
	databases   = map[string]*database{}
	databasesMu sync.Mutex
)

// Store implements store.Store on process-local maps.
type Store struct {
	db *database
	// tx is set on the Store handed to a Transaction callback. It is a
	// private copy of the tables, already covered by db.mu.
	tx *tables
}

// Open returns a store for the named in-memory database. Stores opened with
// the same name see the same data for the life of the process. An empty
// name opens a fresh database nobody else can reach.
func Open(name string) *Store {
	if name == "" {
		return &Store{db: &database{t: newTables()}}
	}

	databasesMu.Lock()
	defer databasesMu.Unlock()

	db, ok := databases[name]
	if !ok {
		db = &database{t: newTables()}
		databases[name] = db
	}
	return &Store{db: db}
}

// Drop forgets the named database. Stores already open keep working on
// the old data.
func Drop(name string) {
	databasesMu.Lock()
	defer databasesMu.Unlock()
	delete(databases, name)
}

// Close is a no-op; data lives until Drop or process exit.
func (s *Store) Close() error {
	return nil
}

func (s *Store) read(fn func(*tables)) {
	if s.tx != nil {
		fn(s.tx)
		return
	}
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	fn(s.db.t)
}

func (s *Store) write(fn func(*tables) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return fn(s.db.t)
}

// Users returns all users ordered by id.
func (s *Store) Users(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	s.read(func(t *tables) {
		for _, u := range t.users {
			users = append(users, u)
		}
	})
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Roles returns all roles ordered by id.
func (s *Store) Roles(ctx context.Context) ([]model.Role, error) {
	roles := []model.Role{}
	s.read(func(t *tables) {
		for _, r := range t.roles {
			roles = append(roles, r)
		}
	})
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

// UserRoles returns the link rows of one user ordered by role id.
func (s *Store) UserRoles(ctx context.Context, userID int) ([]model.UserRoles, error) {
	links := []model.UserRoles{}
	s.read(func(t *tables) {
		for _, l := range t.links {
			if l.UserID == userID {
				links = append(links, l)
			}
		}
	})
	sort.Slice(links, func(i, j int) bool { return links[i].RoleID < links[j].RoleID })
	return links, nil
}

// AllUserRoles returns every link row ordered by (user_id, role_id).
func (s *Store) AllUserRoles(ctx context.Context) ([]model.UserRoles, error) {
	links := []model.UserRoles{}
	s.read(func(t *tables) {
		for _, l := range t.links {
			links = append(links, l)
		}
	})
	sort.Slice(links, func(i, j int) bool {
		if links[i].UserID != links[j].UserID {
			return links[i].UserID < links[j].UserID
		}
		return links[i].RoleID < links[j].RoleID
	})
	return links, nil
}

// Transaction runs fn on a copy of the tables and publishes the copy only
// if fn succeeds. Other writers are blocked until it returns.
func (s *Store) Transaction(ctx context.Context, fn func(store.Seeder) error) error {
	return s.write(func(t *tables) error {
		working := t.clone()
		if err := fn(&Store{db: s.db, tx: working}); err != nil {
			return err
		}
		*t = *working
		return nil
	})
}

// CreateUsers inserts users.
func (s *Store) CreateUsers(ctx context.Context, users ...model.User) error {
	return s.write(func(t *tables) error {
		for _, u := range users {
			if _, ok := t.users[u.ID]; ok {
				return fmt.Errorf("user %d already exists", u.ID)
			}
		}
		for _, u := range users {
			u.UserRoles = nil
			t.users[u.ID] = u
		}
		return nil
	})
}

// CreateRoles inserts roles.
func (s *Store) CreateRoles(ctx context.Context, roles ...model.Role) error {
	return s.write(func(t *tables) error {
		for _, r := range roles {
			if _, ok := t.roles[r.ID]; ok {
				return fmt.Errorf("role %d already exists", r.ID)
			}
		}
		for _, r := range roles {
			r.UserRoles = nil
			t.roles[r.ID] = r
		}
		return nil
	})
}

// AssignRole inserts a link row. The user and the role must exist, as
// the SQL backends' foreign keys require.
func (s *Store) AssignRole(ctx context.Context, link model.UserRoles) error {
	return s.write(func(t *tables) error {
		if _, ok := t.links[link.Key()]; ok {
			return fmt.Errorf("user %d, role %d: %w", link.UserID, link.RoleID, store.ErrDuplicateUserRole)
		}
		if _, ok := t.users[link.UserID]; !ok {
			return fmt.Errorf("user %d: %w", link.UserID, store.ErrUnknownUserOrRole)
		}
		if _, ok := t.roles[link.RoleID]; !ok {
			return fmt.Errorf("role %d: %w", link.RoleID, store.ErrUnknownUserOrRole)
		}
		t.links[link.Key()] = link
		return nil
	})
}

// RevokeRole deletes a link row.
func (s *Store) RevokeRole(ctx context.Context, userID, roleID int) error {
	key := model.UserRoleKey{UserID: userID, RoleID: roleID}
	return s.write(func(t *tables) error {
		if _, ok := t.links[key]; !ok {
			return fmt.Errorf("user %d, role %d: %w", userID, roleID, store.ErrUserRoleNotFound)
		}
		delete(t.links, key)
		return nil
	})
}

// FindUserRole looks up a link row by its composite key.
func (s *Store) FindUserRole(ctx context.Context, userID, roleID int) (*model.UserRoles, error) {
	var (
		found model.UserRoles
		ok    bool
	)
	s.read(func(t *tables) {
		found, ok = t.links[model.UserRoleKey{UserID: userID, RoleID: roleID}]
	})
	if !ok {
		return nil, store.ErrUserRoleNotFound
	}
	return &found, nil
}

// Reset empties all three tables.
func (s *Store) Reset(ctx context.Context) error {
	return s.write(func(t *tables) error {
		*t = *newTables()
		return nil
	})
}
