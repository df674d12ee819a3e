// Package web serves folding frames over HTTP: JSON frames, file dumps,
// scene script evaluation and a websocket that pushes frames as the client
// scrolls.
package web

import (
	"log"
	"net/http"
	"os"

	"github.com/chazu/foldnet/pkg/config"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Server holds the settings shared by every handler. Handlers keep no
// state between requests.
type Server struct {
	cfg *config.Config
}

// NewServer returns a server using cfg, or the defaults when cfg is nil.
func NewServer(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Server{cfg: cfg}
}

// Router builds the route table. webPath, when not empty, is served as
// static files under /.
func (s *Server) Router(webPath string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/families", s.HandlerFamilies).Methods(http.MethodGet)
	r.HandleFunc("/json/frame/{family}", s.HandlerFrame).Methods(http.MethodGet)
	r.HandleFunc("/json/frames/{family}", s.HandlerFrames).Methods(http.MethodGet)
	r.HandleFunc("/json/script", s.HandlerScript).Methods(http.MethodPost)
	r.HandleFunc("/dump/gltf/{family}", s.HandlerDumpGltf).Methods(http.MethodGet)
	r.HandleFunc("/dump/yaml/{family}", s.HandlerDumpYaml).Methods(http.MethodGet)
	r.HandleFunc("/dump/stl/{family}", s.HandlerDumpStl).Methods(http.MethodGet)
	r.HandleFunc("/dump/png/{family}", s.HandlerDumpPng).Methods(http.MethodGet)
	r.HandleFunc("/ws/fold/{family}", s.HandlerFoldSocket)

	if webPath != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(webPath)))
	}
	return r
}

// Handler wraps the router with panic recovery and access logging.
func (s *Server) Handler(webPath string) http.Handler {
	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(s.Router(webPath))
	return handlers.LoggingHandler(os.Stdout, h)
}

// StartServer listens on addr until the listener fails.
func StartServer(addr string, cfg *config.Config, webPath string) error {
	s := NewServer(cfg)
	log.Printf("[web] Starting server %v", addr)
	return http.ListenAndServe(addr, s.Handler(webPath))
}
