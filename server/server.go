// Package server is the broker's HTTP surface: routing, middleware,
// session cookies, and the JSON handlers over the flow dispatcher.
package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/contraptionco/trivet/auth"
	"github.com/contraptionco/trivet/ghost"
	"github.com/contraptionco/trivet/internal/config"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	auth       *auth.Service
	repos      auth.Repos
	httpClient *http.Client // for onboarding blog probes
	newGhost   auth.GhostClientFactory
}

// ServerOption modifies a Server instance.
type ServerOption func(*Server)

// WithHTTPClient overrides the client used for blog probes (primarily
// for testing).
func WithHTTPClient(httpClient *http.Client) ServerOption {
	return func(s *Server) {
		s.httpClient = httpClient
	}
}

// WithGhostClientFactory overrides how Admin API clients are built for
// admin key validation (primarily for testing).
func WithGhostClientFactory(factory auth.GhostClientFactory) ServerOption {
	return func(s *Server) {
		s.newGhost = factory
	}
}

func New(config config.Config, repos auth.Repos, authService *auth.Service, options ...ServerOption) (*Server, error) {
	if authService == nil {
		return nil, fmt.Errorf("[Server New] auth service is required")
	}

	s := &Server{
		mux:        http.NewServeMux(),
		config:     config,
		repos:      repos,
		auth:       authService,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		newGhost: func(adminHost, adminAPIKey string) *ghost.Client {
			return ghost.NewClient(adminHost, adminAPIKey)
		},
	}
	s.env = config.GetEnv()

	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
