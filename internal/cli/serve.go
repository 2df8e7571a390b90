package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/ru-menu/internal/api"
	"github.com/pfrederiksen/ru-menu/internal/config"
	"github.com/pfrederiksen/ru-menu/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the menu over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService(true)
			if err != nil {
				return err
			}

			if logger.ParseLevel(a.cfg.LogLevel) != logger.LevelDebug {
				gin.SetMode(gin.ReleaseMode)
			}

			srv := &http.Server{
				Addr:              a.cfg.Listen,
				Handler:           api.NewRouter(svc),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				logger.Info("HTTP server listening", logger.Fields{"addr": srv.Addr})
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			if err := g.Wait(); err != nil {
				return err
			}
			logger.Info("HTTP server stopped", nil)
			return nil
		},
	}

	cmd.Flags().String("listen", config.DefaultListen, "Address to listen on")
	a.bindFlags(cmd, map[string]string{"listen": "listen"}, false)

	return cmd
}
