// Package api provides the HTTP REST API and WebSocket server for the
// inventory service.
//
// It exposes authentication, role-scoped device and room views, admin
// CRUD for every entity, and device state mutations with post-mutation
// redirect targets.
//
// The server follows the same lifecycle as the other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hollis-dev/homeinv-core/internal/audit"
	"github.com/hollis-dev/homeinv-core/internal/guard"
	"github.com/hollis-dev/homeinv-core/internal/history"
	"github.com/hollis-dev/homeinv-core/internal/infrastructure/config"
	"github.com/hollis-dev/homeinv-core/internal/infrastructure/logging"
	"github.com/hollis-dev/homeinv-core/internal/infrastructure/mqtt"
	"github.com/hollis-dev/homeinv-core/internal/inventory"
	"github.com/hollis-dev/homeinv-core/internal/scope"
)

// gracefulShutdownTimeout is the maximum wait for in-flight requests
// during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Security config.SecurityConfig
	Logger   *logging.Logger

	People  inventory.PersonRepository
	Rooms   inventory.RoomRepository
	Types   inventory.DeviceTypeRepository
	Devices inventory.DeviceRepository

	Guard    *guard.Guard
	Resolver *scope.Resolver
	Router   *scope.Router

	AuditRepo audit.Repository   // optional: audit list endpoint disabled when nil
	MQTT      *mqtt.Client       // optional: state announcements disabled when nil
	History   *history.Recorder  // optional: time-series recording disabled when nil
	Version   string
}

// Server is the HTTP API server.
type Server struct {
	cfg     config.APIConfig
	wsCfg   config.WebSocketConfig
	secCfg  config.SecurityConfig
	logger  *logging.Logger
	version string

	people  inventory.PersonRepository
	rooms   inventory.RoomRepository
	types   inventory.DeviceTypeRepository
	devices inventory.DeviceRepository

	guard    *guard.Guard
	resolver *scope.Resolver
	routes   *scope.Router

	auditRepo audit.Repository
	trail     *audit.Trail
	mqtt      *mqtt.Client
	history   *history.Recorder

	server  *http.Server
	hub     *Hub
	tickets *ticketStore
	cancel  context.CancelFunc
}

// New creates an API server. It is not listening until Start is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.People == nil || deps.Rooms == nil || deps.Types == nil || deps.Devices == nil {
		return nil, fmt.Errorf("inventory repositories are required")
	}
	if deps.Guard == nil || deps.Resolver == nil || deps.Router == nil {
		return nil, fmt.Errorf("guard, resolver, and router are required")
	}

	s := &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		secCfg:    deps.Security,
		logger:    deps.Logger,
		version:   deps.Version,
		people:    deps.People,
		rooms:     deps.Rooms,
		types:     deps.Types,
		devices:   deps.Devices,
		guard:     deps.Guard,
		resolver:  deps.Resolver,
		routes:    deps.Router,
		auditRepo: deps.AuditRepo,
		mqtt:      deps.MQTT,
		history:   deps.History,
		tickets:   newTicketStore(),
	}

	if deps.AuditRepo != nil {
		s.trail = audit.NewTrail(deps.AuditRepo, deps.Logger.Logger)
	}

	return s, nil
}

// Start builds the router and begins listening in a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)
	go s.tickets.cleanLoop(srvCtx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the server, waiting for in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
