package endpoints

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/doodlesbykumbi/rolejoin/pkg/model"
	"github.com/doodlesbykumbi/rolejoin/pkg/seed"
	"github.com/doodlesbykumbi/rolejoin/pkg/server"
	"github.com/doodlesbykumbi/rolejoin/pkg/store"
	"github.com/doodlesbykumbi/rolejoin/pkg/store/memory"
)

// failingStore fails role listing and assignment
type failingStore struct {
	store.Store
}

func (failingStore) Roles(context.Context) ([]model.Role, error) {
	return nil, assert.AnError
}

func (failingStore) AssignRole(context.Context, model.UserRoles) error {
	return assert.AnError
}

func newTestServer(t *testing.T, s store.Store) *server.Server {
	t.Helper()
	srv := server.NewServer(s, zaptest.NewLogger(t), "127.0.0.1", "0")
	RegisterAll(srv)
	return srv
}

func seededStore(t *testing.T, links ...model.UserRoles) store.Store {
	t.Helper()
	s := memory.Open("")
	require.NoError(t, seed.Apply(context.Background(), s, seed.Default().WithUserRoles(links...), false))
	return s
}

func do(srv *server.Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)
	return w
}

func TestListRoles(t *testing.T) {
	srv := newTestServer(t, seededStore(t,
		model.UserRoles{UserID: 1, RoleID: 1},
		model.UserRoles{UserID: 2, RoleID: 2},
	))

	w := do(srv, "GET", "/users/1/roles")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `[
		{"id":1,"name":"Role 1","user_roles":[{"user_id":1,"role_id":1}]},
		{"id":2,"name":"Role 2","user_roles":[]}
	]`, w.Body.String())
}

func TestListRoles_UnknownUser(t *testing.T) {
	srv := newTestServer(t, seededStore(t, model.UserRoles{UserID: 1, RoleID: 1}))

	w := do(srv, "GET", "/users/42/roles")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"id":1,"name":"Role 1","user_roles":[]},
		{"id":2,"name":"Role 2","user_roles":[]}
	]`, w.Body.String())
}

func TestListRoles_BadUserID(t *testing.T) {
	srv := newTestServer(t, seededStore(t))

	w := do(srv, "GET", "/users/abc/roles")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"user id must be an integer"}`, w.Body.String())
}

func TestListRoles_StoreError(t *testing.T) {
	srv := newTestServer(t, failingStore{Store: memory.Open("")})

	w := do(srv, "GET", "/users/1/roles")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestUserRoleLifecycle(t *testing.T) {
	srv := newTestServer(t, seededStore(t))

	w := do(srv, "GET", "/users/1/roles/2")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(srv, "PUT", "/users/1/roles/2")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"user_id":1,"role_id":2}`, w.Body.String())

	w = do(srv, "PUT", "/users/1/roles/2")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(srv, "GET", "/users/1/roles/2")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":1,"role_id":2}`, w.Body.String())

	w = do(srv, "DELETE", "/users/1/roles/2")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(srv, "DELETE", "/users/1/roles/2")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignRole_UnknownUserOrRole(t *testing.T) {
	s := seededStore(t)
	srv := newTestServer(t, s)

	for _, path := range []string{"/users/99/roles/1", "/users/1/roles/99"} {
		w := do(srv, "PUT", path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"error":"user or role not found"}`, w.Body.String(), path)
	}

	links, err := s.AllUserRoles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestAssignRole_StoreError(t *testing.T) {
	srv := newTestServer(t, failingStore{Store: memory.Open("")})

	w := do(srv, "PUT", "/users/1/roles/1")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"failed to assign role"}`, w.Body.String())
}

func TestUserRole_BadRoleID(t *testing.T) {
	srv := newTestServer(t, seededStore(t))

	w := do(srv, "PUT", "/users/1/roles/x")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"role id must be an integer"}`, w.Body.String())
}

func TestServerHandler_LogsAndRoutes(t *testing.T) {
	srv := newTestServer(t, seededStore(t))

	req := httptest.NewRequest("GET", "/users/2/roles", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
