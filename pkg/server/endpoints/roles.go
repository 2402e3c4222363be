package endpoints

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/rolejoin/pkg/model"
	"github.com/doodlesbykumbi/rolejoin/pkg/rolejoin"
	"github.com/doodlesbykumbi/rolejoin/pkg/server"
	"github.com/doodlesbykumbi/rolejoin/pkg/store"
)

// RegisterRolesEndpoints registers the user role endpoints
func RegisterRolesEndpoints(s *server.Server) {
	users := s.Router.PathPrefix("/users").Subrouter()

	// GET /users/{id}/roles - Every role with the user's assignments
	users.HandleFunc("/{id}/roles", handleListRoles(s.Service, s.Logger)).Methods("GET")

	// GET /users/{id}/roles/{role_id} - Show one assignment
	users.HandleFunc("/{id}/roles/{role_id}", handleShowUserRole(s.Store, s.Logger)).Methods("GET")

	// PUT /users/{id}/roles/{role_id} - Assign a role
	users.HandleFunc("/{id}/roles/{role_id}", handleAssignRole(s.Store, s.Logger)).Methods("PUT")

	// DELETE /users/{id}/roles/{role_id} - Revoke a role
	users.HandleFunc("/{id}/roles/{role_id}", handleRevokeRole(s.Store, s.Logger)).Methods("DELETE")
}

func handleListRoles(svc *rolejoin.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := intVar(r, "id")
		if !ok {
			respondWithError(w, http.StatusBadRequest, "user id must be an integer")
			return
		}

		roles, err := svc.RolesByUser(r.Context(), userID)
		if err != nil {
			log.Error("failed to list roles", zap.Int("user_id", userID), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to list roles")
			return
		}

		respondWithJSON(w, http.StatusOK, roles)
	}
}

// userRoleVars reads both ids of an assignment path, answering 400 if
// either is malformed
func userRoleVars(w http.ResponseWriter, r *http.Request) (model.UserRoles, bool) {
	userID, ok := intVar(r, "id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "user id must be an integer")
		return model.UserRoles{}, false
	}
	roleID, ok := intVar(r, "role_id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "role id must be an integer")
		return model.UserRoles{}, false
	}
	return model.UserRoles{UserID: userID, RoleID: roleID}, true
}

func handleShowUserRole(s store.Seeder, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := userRoleVars(w, r)
		if !ok {
			return
		}

		link, err := s.FindUserRole(r.Context(), key.UserID, key.RoleID)
		if errors.Is(err, store.ErrUserRoleNotFound) {
			respondWithError(w, http.StatusNotFound, "role not assigned")
			return
		}
		if err != nil {
			log.Error("failed to find user role", zap.Int("user_id", key.UserID), zap.Int("role_id", key.RoleID), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to find user role")
			return
		}

		respondWithJSON(w, http.StatusOK, link)
	}
}

func handleAssignRole(s store.Seeder, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link, ok := userRoleVars(w, r)
		if !ok {
			return
		}

		err := s.AssignRole(r.Context(), link)
		if errors.Is(err, store.ErrDuplicateUserRole) {
			respondWithError(w, http.StatusConflict, "role already assigned")
			return
		}
		if errors.Is(err, store.ErrUnknownUserOrRole) {
			respondWithError(w, http.StatusNotFound, "user or role not found")
			return
		}
		if err != nil {
			log.Error("failed to assign role", zap.Int("user_id", link.UserID), zap.Int("role_id", link.RoleID), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to assign role")
			return
		}

		log.Info("role assigned", zap.Int("user_id", link.UserID), zap.Int("role_id", link.RoleID))
		respondWithJSON(w, http.StatusCreated, link)
	}
}

func handleRevokeRole(s store.Seeder, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := userRoleVars(w, r)
		if !ok {
			return
		}

		err := s.RevokeRole(r.Context(), key.UserID, key.RoleID)
		if errors.Is(err, store.ErrUserRoleNotFound) {
			respondWithError(w, http.StatusNotFound, "role not assigned")
			return
		}
		if err != nil {
			log.Error("failed to revoke role", zap.Int("user_id", key.UserID), zap.Int("role_id", key.RoleID), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to revoke role")
			return
		}

		log.Info("role revoked", zap.Int("user_id", key.UserID), zap.Int("role_id", key.RoleID))
		w.WriteHeader(http.StatusNoContent)
	}
}
