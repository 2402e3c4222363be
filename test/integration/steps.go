package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/cucumber/godog"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/rolejoin/pkg/config"
	"github.com/doodlesbykumbi/rolejoin/pkg/db"
	"github.com/doodlesbykumbi/rolejoin/pkg/model"
	"github.com/doodlesbykumbi/rolejoin/pkg/rolejoin"
	"github.com/doodlesbykumbi/rolejoin/pkg/seed"
	"github.com/doodlesbykumbi/rolejoin/pkg/server"
	"github.com/doodlesbykumbi/rolejoin/pkg/server/endpoints"
	"github.com/doodlesbykumbi/rolejoin/pkg/store"
	"github.com/doodlesbykumbi/rolejoin/pkg/store/memory"
)

var scenarioSeq atomic.Int64

// StepsContext holds state shared between step definitions
type StepsContext struct {
	postgresURL string

	cfg     db.Config
	cleanup []func()

	writer store.Store
	roles  []model.Role

	response     *http.Response
	responseBody []byte
}

// NewStepsContext creates a new steps context. postgresURL may be empty
// when no PostgreSQL server is available.
func NewStepsContext(postgresURL string) *StepsContext {
	return &StepsContext{postgresURL: postgresURL}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		s.close()
		return ctx, nil
	})

	// Setup steps
	sc.Step(`^an empty "([^"]*)" database$`, s.anEmptyDatabase)
	sc.Step(`^the default users and roles$`, s.theDefaultUsersAndRoles)
	sc.Step(`^user (\d+) has role (\d+)$`, s.userHasRole)

	// Query steps
	sc.Step(`^I list the roles of user (\d+)$`, s.iListTheRolesOfUser)
	sc.Step(`^I request the roles of user (\d+) over HTTP$`, s.iRequestTheRolesOfUserOverHTTP)
	sc.Step(`^I assign role (\d+) to user (\d+) over HTTP$`, s.iAssignRoleToUserOverHTTP)

	// Assertion steps
	sc.Step(`^the database is empty$`, s.theDatabaseIsEmpty)
	sc.Step(`^(\d+) roles are listed$`, s.rolesAreListed)
	sc.Step(`^role (\d+) has no user roles$`, s.roleHasNoUserRoles)
	sc.Step(`^role (\d+) has the user role of user (\d+)$`, s.roleHasTheUserRoleOfUser)
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response lists role (\d+) with (\d+) user roles$`, s.theResponseListsRoleWithUserRoles)
}

func (s *StepsContext) close() {
	if s.writer != nil {
		_ = s.writer.Close()
		s.writer = nil
	}
	for _, fn := range s.cleanup {
		fn()
	}
	s.cleanup = nil
	s.roles = nil
	s.response = nil
	s.responseBody = nil
}

// open returns a new handle on the scenario's database
func (s *StepsContext) open(ctx context.Context) (store.Store, error) {
	return db.Open(ctx, s.cfg)
}

// Setup steps

func (s *StepsContext) anEmptyDatabase(ctx context.Context, name string) error {
	backend, err := config.BackendString(name)
	if err != nil {
		return err
	}
	seq := scenarioSeq.Add(1)
	s.cfg = db.Config{Backend: backend, Logger: zap.NewNop()}

	switch backend {
	case config.BackendMemory:
		dbName := fmt.Sprintf("scenario-%d", seq)
		s.cfg.URL = dbName
		s.cleanup = append(s.cleanup, func() { memory.Drop(dbName) })
	case config.BackendSQLite:
		dir, err := os.MkdirTemp("", "rolejoin")
		if err != nil {
			return err
		}
		s.cfg.URL = "file:" + filepath.Join(dir, "rolejoin.db")
		s.cleanup = append(s.cleanup, func() { _ = os.RemoveAll(dir) })
	case config.BackendPostgres:
		if s.postgresURL == "" {
			return godog.ErrPending
		}
		s.cfg.URL = s.postgresURL
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}

	writer, err := s.open(ctx)
	if err != nil {
		return err
	}
	s.writer = writer

	// A shared server may hold rows from an earlier scenario
	return s.writer.Reset(ctx)
}

func (s *StepsContext) theDefaultUsersAndRoles(ctx context.Context) error {
	return seed.Apply(ctx, s.writer, seed.Default(), false)
}

func (s *StepsContext) userHasRole(ctx context.Context, userID, roleID int) error {
	_, err := s.writer.FindUserRole(ctx, userID, roleID)
	if !errors.Is(err, store.ErrUserRoleNotFound) {
		return fmt.Errorf("expected user role (%d, %d) to be absent before assigning, got %v", userID, roleID, err)
	}

	if err := s.writer.AssignRole(ctx, model.UserRoles{UserID: userID, RoleID: roleID}); err != nil {
		return err
	}

	found, err := s.writer.FindUserRole(ctx, userID, roleID)
	if err != nil {
		return fmt.Errorf("expected user role (%d, %d) after assigning: %w", userID, roleID, err)
	}
	if found.UserID != userID || found.RoleID != roleID {
		return fmt.Errorf("found user role (%d, %d), expected (%d, %d)", found.UserID, found.RoleID, userID, roleID)
	}
	return nil
}

// Query steps

func (s *StepsContext) iListTheRolesOfUser(ctx context.Context, userID int) error {
	// Read through a second handle to prove the writes are visible to it
	reader, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	s.roles, err = rolejoin.NewService(reader, nil).RolesByUser(ctx, userID)
	return err
}

func (s *StepsContext) iRequestTheRolesOfUserOverHTTP(userID int) error {
	return s.request(http.MethodGet, fmt.Sprintf("/users/%d/roles", userID))
}

func (s *StepsContext) iAssignRoleToUserOverHTTP(roleID, userID int) error {
	return s.request(http.MethodPut, fmt.Sprintf("/users/%d/roles/%d", userID, roleID))
}

// request sends one request to a server over the scenario's store
func (s *StepsContext) request(method, path string) error {
	srv := server.NewServer(s.writer, nil, "127.0.0.1", "0")
	endpoints.RegisterAll(srv)
	ts := httptest.NewServer(srv.Router)
	defer ts.Close()

	req, err := http.NewRequest(method, ts.URL+path, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

// Assertion steps

func (s *StepsContext) theDatabaseIsEmpty(ctx context.Context) error {
	users, err := s.writer.Users(ctx)
	if err != nil {
		return err
	}
	roles, err := s.writer.Roles(ctx)
	if err != nil {
		return err
	}
	links, err := s.writer.AllUserRoles(ctx)
	if err != nil {
		return err
	}
	if len(users)+len(roles)+len(links) != 0 {
		return fmt.Errorf("expected an empty database, got %d users, %d roles, %d user roles", len(users), len(roles), len(links))
	}
	return nil
}

func (s *StepsContext) rolesAreListed(n int) error {
	if len(s.roles) != n {
		return fmt.Errorf("expected %d roles, got %d", n, len(s.roles))
	}
	return nil
}

func (s *StepsContext) role(id int) (model.Role, error) {
	for _, r := range s.roles {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Role{}, fmt.Errorf("role %d was not listed", id)
}

func (s *StepsContext) roleHasNoUserRoles(id int) error {
	r, err := s.role(id)
	if err != nil {
		return err
	}
	if r.UserRoles == nil {
		return fmt.Errorf("role %d has a nil user role list", id)
	}
	if len(r.UserRoles) != 0 {
		return fmt.Errorf("expected role %d to have no user roles, got %v", id, r.UserRoles)
	}
	return nil
}

func (s *StepsContext) roleHasTheUserRoleOfUser(id, userID int) error {
	r, err := s.role(id)
	if err != nil {
		return err
	}
	want := model.UserRoles{UserID: userID, RoleID: id}
	if len(r.UserRoles) != 1 || r.UserRoles[0] != want {
		return fmt.Errorf("expected role %d to have exactly %v, got %v", id, want, r.UserRoles)
	}
	return nil
}

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseListsRoleWithUserRoles(id, n int) error {
	var roles []model.Role
	if err := json.Unmarshal(s.responseBody, &roles); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	for _, r := range roles {
		if r.ID == id {
			if len(r.UserRoles) != n {
				return fmt.Errorf("expected role %d to have %d user roles, got %d", id, n, len(r.UserRoles))
			}
			return nil
		}
	}
	return fmt.Errorf("role %d not in response", id)
}
