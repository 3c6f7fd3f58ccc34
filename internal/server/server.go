// Package server wires configuration, storage, and handlers into the
// attendance HTTP service.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq" // postgres driver
	"github.com/modelcontextprotocol/go-sdk/mcp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/kintaihq/kintai/internal/apidocs" // register swagger docs
	"github.com/kintaihq/kintai/pkg/api"
	"github.com/kintaihq/kintai/pkg/attendance"
	attendancepg "github.com/kintaihq/kintai/pkg/attendance/postgres"
	"github.com/kintaihq/kintai/pkg/auth"
	"github.com/kintaihq/kintai/pkg/config"
	"github.com/kintaihq/kintai/pkg/database/migrate"
	"github.com/kintaihq/kintai/pkg/health"
	"github.com/kintaihq/kintai/pkg/mcptools"
	"github.com/kintaihq/kintai/pkg/middleware"
	"github.com/kintaihq/kintai/pkg/user"
	userpg "github.com/kintaihq/kintai/pkg/user/postgres"
)

const shutdownTimeout = 10 * time.Second

// Server is the assembled attendance service.
type Server struct {
	cfg     *config.Config
	db      *sql.DB
	handler http.Handler
	checker *health.Checker
}

// New assembles a server from the given configuration. With an empty
// database DSN it falls back to in-memory stores, which is useful for
// local development but loses all state on restart.
func New(cfg *config.Config) (*Server, error) {
	s := &Server{cfg: cfg}

	store, users, err := s.openStores()
	if err != nil {
		return nil, err
	}
	engine := attendance.NewEngine(store, cfg.Time.Offset())

	chain := buildAuthChain(cfg)
	requireUser := auth.RequireUser(chain)
	requireAdmin := auth.RequireAdmin(chain)

	var ping func(ctx context.Context) error
	if s.db != nil {
		ping = s.db.PingContext
	}
	s.checker = health.NewChecker(ping)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", api.NewHandler(engine, users, requireUser, requireAdmin, nil))
	mux.Handle("GET /healthz", s.checker.LivenessHandler())
	mux.Handle("GET /readyz", s.checker.ReadinessHandler())
	mux.Handle("GET /swagger/", httpSwagger.Handler())
	mux.Handle("/mcp", requireAdmin(newMCPHandler(engine, users)))

	s.handler = middleware.RequestLog(mux)
	return s, nil
}

// openStores opens the session store and user directory, backed by
// postgres when a DSN is configured.
func (s *Server) openStores() (attendance.Store, user.Directory, error) {
	if s.cfg.Database.DSN == "" {
		slog.Warn("no database configured, using in-memory stores")
		return attendance.NewMemoryStore(), user.NewMemoryDirectory(), nil
	}

	db, err := sql.Open("postgres", s.cfg.Database.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(s.cfg.Database.MaxOpenConns)

	if err := migrate.Run(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	s.db = db
	return attendancepg.New(db), userpg.New(db), nil
}

// buildAuthChain builds the authenticator chain from configuration.
// JWT bearer tokens are tried first, then static API keys.
func buildAuthChain(cfg *config.Config) auth.Chain {
	var chain auth.Chain
	if cfg.Auth.JWT.SigningKey != "" {
		chain = append(chain, auth.NewJWTAuthenticator(auth.JWTConfig{
			SigningKey: []byte(cfg.Auth.JWT.SigningKey),
			Issuer:     cfg.Auth.JWT.Issuer,
		}))
	}
	if len(cfg.Auth.APIKeys) > 0 {
		chain = append(chain, auth.NewAPIKeyAuthenticator(cfg.Auth.APIKeys))
	}
	return chain
}

// newMCPHandler builds the streamable HTTP handler exposing the
// reporting tools. Every request shares one MCP server instance.
func newMCPHandler(engine *attendance.Engine, users user.Directory) http.Handler {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "kintai",
		Version: Version,
	}, nil)
	mcptools.New(engine, users, nil).Register(mcpServer)

	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves HTTP until the context is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.cfg.Server.Address,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"address", s.cfg.Server.Address,
			"version", Version,
			"tls", s.cfg.Server.TLS.Enabled)
		if s.cfg.Server.TLS.Enabled {
			errCh <- httpSrv.ListenAndServeTLS(s.cfg.Server.TLS.CertFile, s.cfg.Server.TLS.KeyFile)
			return
		}
		errCh <- httpSrv.ListenAndServe()
	}()
	s.checker.SetReady()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.checker.SetDraining()
	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Close releases the server's resources.
func (s *Server) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
