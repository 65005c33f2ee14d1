package server

import (
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-discord-auth/commands"
	"github.com/jrsteele09/go-discord-auth/discord"
	"github.com/jrsteele09/go-discord-auth/internal/config"
	"github.com/jrsteele09/go-discord-auth/kvstore"
	"github.com/jrsteele09/go-discord-auth/oauthflow"
	"github.com/jrsteele09/go-discord-auth/signin"
	"github.com/jrsteele09/go-discord-auth/userstate"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	flow     *oauthflow.Flow
	commands *commands.Handler
}

// New wires the sign-in flow and command handler over store. keySet holds the
// identity provider's ID token signing keys; members performs Discord REST calls.
func New(cfg config.Config, store kvstore.Store, members discord.Members, keySet oidc.KeySet) *Server {
	requests := signin.NewManager(store)
	states := userstate.NewRepo(store)

	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		flow:     oauthflow.NewFlow(cfg, keySet, requests, states, members),
		commands: commands.NewHandler(cfg, requests, states, members),
	}

	s.initRoutes()
	s.logRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		log.Info().Str("method", method).Str("path", path).Msg("route")
	}
}

// origin is the public base URL for links sent to users: BASE_URL when set,
// otherwise derived from the request
func (s *Server) origin(r *http.Request) string {
	if base := s.config.GetBaseURL(); base != "" {
		return base
	}
	return getScheme(r) + "://" + r.Host
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
