package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/VictoriaMetrics/metrics"
	"github.com/dfryer1193/agenda/internal/rest"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the contact API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contacts, err := env.open(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			gin.SetMode(gin.ReleaseMode)
			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", env.cfg.Server.Port),
				Handler: rest.NewRouter(contacts, metrics.NewSet()),
			}

			serveErr := make(chan error, 1)
			go func() {
				log.Info().Int("port", env.cfg.Server.Port).Msg("Starting server")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-serveErr:
				if err != nil {
					return fmt.Errorf("failed to start server: %w", err)
				}
				return nil
			case <-quit:
			}

			log.Info().Msg("Shutting down server...")
			ctx, cancel := context.WithTimeout(context.Background(), env.cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("failed to shutdown server: %w", err)
			}

			log.Info().Msg("Server stopped")
			return nil
		},
	}
	cmd.Flags().Int("port", 0, "Port to listen on (defaults to server.port).")
	_ = env.viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))

	return cmd
}
