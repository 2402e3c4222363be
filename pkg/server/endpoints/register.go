package endpoints

import (
	"github.com/doodlesbykumbi/rolejoin/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterRolesEndpoints(srv)
}
