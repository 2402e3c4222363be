package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/rolejoin/pkg/seed"
	"github.com/doodlesbykumbi/rolejoin/pkg/server"
	"github.com/doodlesbykumbi/rolejoin/pkg/server/endpoints"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the rolejoin HTTP server",
	Long: `Run the rolejoin HTTP server.

The configured seed_file, if any, is loaded on start. With --watch the
file is loaded again, replacing all data, every time it changes.

Example:
  rolejoinctl server --port 8080
  rolejoinctl server --watch fixture.yml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		watch := cmd.Flags().Lookup("watch").Changed

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := openRuntime(ctx, cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		apply := func(f *seed.Fixture) error {
			return seed.Apply(ctx, rt.store, f, true)
		}

		if path := rt.cfg.SeedFile; path != "" {
			f, err := seed.Load(path)
			if err != nil {
				return err
			}
			if err := apply(f); err != nil {
				return err
			}
			rt.log.Info("seed file applied", zap.String("path", path))

			if watch {
				w, err := seed.NewWatcher(path, rt.log)
				if err != nil {
					return err
				}
				go func() {
					if err := w.Run(ctx, apply); err != nil {
						rt.log.Error("seed watcher stopped", zap.Error(err))
					}
				}()
			}
		}

		s := server.NewServer(rt.store, rt.log, rt.cfg.BindAddress, strconv.Itoa(rt.cfg.Port))
		endpoints.RegisterAll(s)

		errCh := make(chan error, 1)
		go func() { errCh <- s.Start() }()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		rt.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", "", "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address")
	serverCmd.Flags().String("watch", "", "seed file to load and reload on change")
}
