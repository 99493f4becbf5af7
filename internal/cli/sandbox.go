package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"heartbids/internal/repository"
	"heartbids/internal/server"
	"heartbids/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewSandbox builds the in-memory auction store and its router from the sandbox settings.
func NewSandbox(a *App) (*repository.MemoryRepo, *gin.Engine, error) {
	sb := a.cfg.Sandbox
	issuer, err := repository.NewTokenIssuer(sb.Secret, sb.TokenTTL, a.clock)
	if err != nil {
		return nil, nil, err
	}

	repo := repository.NewMemoryRepo(a.clock, issuer)
	if sb.Seed {
		if err := repository.Seed(repo); err != nil {
			return nil, nil, err
		}
	}
	return repo, server.SetupRouter(repo, sb.APIKey), nil
}

func newSandboxCommand(app func() *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run a local auction API for development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if addr == "" {
				addr = a.cfg.Sandbox.Addr
			}

			gin.SetMode(gin.ReleaseMode)
			_, router, err := NewSandbox(a)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Sandbox auction API on "+addr))
			fmt.Fprintln(out, helpStyle.Render(fmt.Sprintf("API key %q. Seeded accounts use password %q.", a.cfg.Sandbox.APIKey, repository.SeedPassword)))

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("sandbox: %w", err)
			case <-cmd.Context().Done():
			}

			utils.Info("sandbox: shutting down", map[string]any{"addr": addr})
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from sandbox.addr)")
	return cmd
}
