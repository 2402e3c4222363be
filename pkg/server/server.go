package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/rolejoin/pkg/rolejoin"
	"github.com/doodlesbykumbi/rolejoin/pkg/store"
)

type Server struct {
	Router  *mux.Router
	Store   store.Store
	Service *rolejoin.Service
	Logger  *zap.Logger
	srv     *http.Server
}

func NewServer(
	s store.Store,
	log *zap.Logger,
	host string,
	port string,
) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    net.JoinHostPort(host, port),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:  router,
		Store:   s,
		Service: rolejoin.NewService(s, log),
		Logger:  log,
		srv:     srv,
	}
}

// Handler returns the server's root handler including request logging
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start() error {
	s.Logger.Info("server listening", zap.String("addr", s.srv.Addr))
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for active requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
