// Package server provides the HTTP server for the rolejoin API.
//
// It uses gorilla/mux for routing and gorilla/handlers for access logs.
//
// # Server Setup
//
//	srv := server.NewServer(store, log, "0.0.0.0", "8000")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Router: HTTP request router
//   - Store: the backend holding users, roles and assignments
//   - Service: the role query over Store
//   - Logger: structured application log
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - GET / - Status
//   - GET /users/{id}/roles - Every role with the user's assignments
//   - GET, PUT, DELETE /users/{id}/roles/{role_id} - One assignment
package server
