package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/rolejoin/pkg/model"
)

// Fixture is a set of users, roles and role assignments to load into a store
type Fixture struct {
	Users     []model.User      `yaml:"users"`
	Roles     []model.Role      `yaml:"roles"`
	UserRoles []model.UserRoles `yaml:"user_roles"`
}

// Default returns the two users and two roles every scenario starts from,
// with no assignments.
func Default() *Fixture {
	return &Fixture{
		Users: []model.User{
			{ID: 1, Name: "User 1"},
			{ID: 2, Name: "User 2"},
		},
		Roles: []model.Role{
			{ID: 1, Name: "Role 1"},
			{ID: 2, Name: "Role 2"},
		},
		UserRoles: []model.UserRoles{},
	}
}

// WithUserRoles returns a copy of f with links as its assignments
func (f *Fixture) WithUserRoles(links ...model.UserRoles) *Fixture {
	c := *f
	c.UserRoles = append([]model.UserRoles{}, links...)
	return &c
}

// Parse decodes a YAML fixture and validates it. Unknown keys are rejected.
func Parse(data []byte) (*Fixture, error) {
	f := &Fixture{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Load reads and parses a YAML fixture file
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Validate checks that ids are unique and that every assignment refers to
// a user and a role of the fixture.
func (f *Fixture) Validate() error {
	users := make(map[int]bool, len(f.Users))
	for _, u := range f.Users {
		if users[u.ID] {
			return fmt.Errorf("duplicate user id %d", u.ID)
		}
		users[u.ID] = true
	}

	roles := make(map[int]bool, len(f.Roles))
	for _, r := range f.Roles {
		if roles[r.ID] {
			return fmt.Errorf("duplicate role id %d", r.ID)
		}
		roles[r.ID] = true
	}

	links := make(map[model.UserRoleKey]bool, len(f.UserRoles))
	for _, l := range f.UserRoles {
		if !users[l.UserID] {
			return fmt.Errorf("user role (%d, %d): unknown user %d", l.UserID, l.RoleID, l.UserID)
		}
		if !roles[l.RoleID] {
			return fmt.Errorf("user role (%d, %d): unknown role %d", l.UserID, l.RoleID, l.RoleID)
		}
		if links[l.Key()] {
			return fmt.Errorf("duplicate user role (%d, %d)", l.UserID, l.RoleID)
		}
		links[l.Key()] = true
	}
	return nil
}
