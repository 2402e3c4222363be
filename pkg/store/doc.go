// Package store provides storage abstractions for rolejoin.
//
// This package defines the interfaces the group join reads its tables from,
// so the query path is decoupled from the backend holding the data.
//
// # Available Backends
//
//   - memory: process-local maps, optionally shared by database name
//   - gorm: SQLite or PostgreSQL through GORM
//
// # Usage
//
//	s := memory.Open("demo")
//	err := s.AssignRole(ctx, model.UserRoles{UserID: 1, RoleID: 1})
//	if err != nil {
//	    if errors.Is(err, store.ErrDuplicateUserRole) {
//	        // Already assigned
//	    }
//	}
package store
