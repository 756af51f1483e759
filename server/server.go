package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-mock-auth-server/auth"
	"github.com/jrsteele09/go-mock-auth-server/internal/config"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env         string // Environment (e.g., "DEV", "CI")
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	authOptions auth.Options
	metrics     *Metrics
	contentRoot string
	fileServer  http.Handler
}

// New builds the request router. It fails when the static content root does
// not resolve to an existing directory.
func New(config config.Config, metrics *Metrics) (*Server, error) {
	contentRoot, err := ResolveContentRoot(config.GetStaticRoot())
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = NewMetrics()
	}

	s := &Server{
		env:    config.GetEnv(),
		mux:    http.NewServeMux(),
		config: config,
		authOptions: auth.Options{
			EchoAPIKeyOnUnknownRefresh: config.GetEchoAPIKeyOnUnknownRefresh(),
		},
		metrics:     metrics,
		contentRoot: contentRoot,
		fileServer:  FileServerHandler(contentRoot),
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

// ContentRoot is the resolved static content directory.
func (s *Server) ContentRoot() string {
	return s.contentRoot
}

func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) logRoutes() {
	for _, route := range s.routes {
		method, path := splitPattern(route)
		log.Debug().Str("method", method).Str("path", path).Msg("route registered")
	}
}

// PrintRoutes writes a coloured route table. Only DEV environments get one.
func (s *Server) PrintRoutes(out io.Writer) {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		method, path := splitPattern(route)
		color, ok := methodColors[method]
		if !ok {
			color = Red
		}
		fmt.Fprintf(out, "[%s %-7s%s] %s\n", color, method, ResetColor, path)
	}
}

func splitPattern(route string) (method, path string) {
	parts := strings.SplitN(route, " ", 2)
	if len(parts) > 1 {
		return parts[0], parts[1]
	}
	return "*", parts[0]
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
