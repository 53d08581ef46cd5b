// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

// Package httpapi exposes the JobDesk API over HTTP: the onboarding steps,
// sign-in, profile management, and the job-board resources. Sessions ride in
// an HttpOnly cookie; handlers stay thin and push all rules into the domain
// services.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/jobdesk/jobdesk/internal/auth"
	"github.com/jobdesk/jobdesk/internal/category"
	"github.com/jobdesk/jobdesk/internal/job"
	"github.com/jobdesk/jobdesk/internal/notification"
	"github.com/jobdesk/jobdesk/internal/observability"
	"github.com/jobdesk/jobdesk/internal/onboarding"
	"github.com/jobdesk/jobdesk/internal/session"
	"github.com/jobdesk/jobdesk/internal/user"
)

// Deps carries everything the API server needs. All fields are required
// except Metrics, which may be nil in tests.
type Deps struct {
	Logger        *slog.Logger
	Sessions      session.Store
	Onboarding    *onboarding.Service
	Auth          *auth.Service
	Users         user.Repository
	Categories    category.Repository
	Jobs          job.Repository
	Notifications notification.Repository
	Metrics       *observability.Metrics
	SessionTTL    time.Duration
}

// Server is the JobDesk HTTP API server.
type Server struct {
	addr       string
	logger     *slog.Logger
	sessions   session.Store
	onboarding *onboarding.Service
	auth       *auth.Service
	users      user.Repository
	categories category.Repository
	jobs       job.Repository
	notifs     notification.Repository
	metrics    *observability.Metrics
	sessionTTL time.Duration

	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates the API server. addr is the listen address in
// "host:port" format.
func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	if deps.Sessions == nil {
		return nil, oops.Errorf("session store is required")
	}
	if deps.Onboarding == nil {
		return nil, oops.Errorf("onboarding service is required")
	}
	if deps.Auth == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if deps.Users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if deps.Categories == nil {
		return nil, oops.Errorf("category repository is required")
	}
	if deps.Jobs == nil {
		return nil, oops.Errorf("job repository is required")
	}
	if deps.Notifications == nil {
		return nil, oops.Errorf("notification repository is required")
	}

	ttl := deps.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Server{
		addr:       addr,
		logger:     deps.Logger,
		sessions:   deps.Sessions,
		onboarding: deps.Onboarding,
		auth:       deps.Auth,
		users:      deps.Users,
		categories: deps.Categories,
		jobs:       deps.Jobs,
		notifs:     deps.Notifications,
		metrics:    deps.Metrics,
		sessionTTL: ttl,
	}, nil
}

// Handler builds the full route table. Exposed so tests can drive the API
// through httptest without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, s.instrument(pattern, h))
	}

	route("POST /onboarding/step1", s.withSession(s.handleStep1))
	route("POST /onboarding/step2", s.withSession(s.handleStep2))
	route("POST /onboarding/step3", s.withSession(s.handleStep3))
	route("POST /onboarding/step4", s.withSession(s.handleStep4))

	route("POST /signin", s.withSession(s.handleSignIn))
	route("POST /signout", s.requireAuth(s.handleSignOut))

	route("GET /profile", s.requireAuth(s.handleGetProfile))
	route("PATCH /profile", s.requireAuth(s.handlePatchProfile))
	route("PATCH /change-password", s.requireAuth(s.handleChangePassword))

	route("GET /admin/users", s.requireRole(user.RoleAdmin, s.handleListUsers))
	route("DELETE /admin/delete/{userId}", s.requireRole(user.RoleAdmin, s.handleDeleteUser))

	route("GET /categories", s.withSession(s.handleListCategories))
	route("GET /categories/{id}", s.withSession(s.handleGetCategory))
	route("POST /categories", s.requireRole(user.RoleAdmin, s.handleCreateCategory))
	route("PATCH /categories/{id}", s.requireRole(user.RoleAdmin, s.handleUpdateCategory))
	route("DELETE /categories/{id}", s.requireRole(user.RoleAdmin, s.handleDeleteCategory))

	route("GET /jobs", s.withSession(s.handleListJobs))
	route("GET /jobs/{id}", s.withSession(s.handleGetJob))
	route("POST /jobs", s.requireAuth(s.handleCreateJob))
	route("PATCH /jobs/{id}", s.requireRole(user.RoleAdmin, s.handleUpdateJob))
	route("DELETE /jobs/{id}", s.requireRole(user.RoleAdmin, s.handleDeleteJob))

	route("GET /notifications", s.requireAuth(s.handleListNotifications))
	route("POST /notifications", s.requireAuth(s.handleCreateNotification))
	route("DELETE /notifications", s.requireAuth(s.handleClearNotifications))
	route("DELETE /notifications/{id}", s.requireAuth(s.handleDeleteNotification))

	return mux
}

// Start begins serving the API. It returns an error channel that receives
// any error from the HTTP server after startup; the channel is closed when
// the server stops gracefully.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	s.logger.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on, or "" if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
