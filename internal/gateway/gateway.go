// ABOUTME: Gateway assembly and lifecycle
// ABOUTME: Wires store, facade, registry, dispatcher, and MCP transport; owns the HTTP server

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/carelog/carelog-gateway/internal/auth"
	"github.com/carelog/carelog-gateway/internal/config"
	"github.com/carelog/carelog-gateway/internal/dispatcher"
	"github.com/carelog/carelog-gateway/internal/facade"
	"github.com/carelog/carelog-gateway/internal/mcp"
	"github.com/carelog/carelog-gateway/internal/registry"
	"github.com/carelog/carelog-gateway/internal/store"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// Gateway owns the assembled components and the HTTP server.
type Gateway struct {
	cfg    *config.Config
	logger *slog.Logger
	store  store.Store
	server *http.Server
}

// New connects to the database and wires the full stack. The returned
// Gateway is ready to Run.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	st, err := store.NewPostgresStore(ctx, cfg.Database.URL, cfg.Database.Password, logger)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	f := facade.New(st, logger)
	reg := registry.Build(f)
	disp := dispatcher.New(reg, f, logger, cfg.Dispatcher.Timeout)

	var verifier auth.TokenVerifier
	if cfg.Auth.JWTSecret != "" {
		verifier = auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret), "carelog-gateway")
	}

	tokens := mcp.NewTokenStore()
	for _, t := range cfg.Auth.StaticTokens {
		tokens.Register(t.Token, t.Agent)
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Dispatcher:    disp,
		Logger:        logger,
		TokenVerifier: verifier,
		TokenStore:    tokens,
		RequireAuth:   cfg.Auth.Require,
	})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}

	mux := http.NewServeMux()
	mcpServer.RegisterRoutes(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	return &Gateway{
		cfg:    cfg,
		logger: logger,
		store:  st,
		server: &http.Server{
			Addr:              cfg.Server.HTTPAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run serves until the context is cancelled, then shuts down gracefully and
// closes the store.
func (g *Gateway) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("HTTP server listening", "addr", g.cfg.Server.HTTPAddr)
		if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		g.logger.Info("shutting down")
	case err := <-errCh:
		g.store.Close()
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := g.server.Shutdown(shutdownCtx); err != nil {
		g.logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	<-errCh

	if err := g.store.Close(); err != nil {
		g.logger.Warn("store close failed", "error", err)
	}
	g.logger.Info("shutdown complete")
	return nil
}
