// Package server exposes the bookmark tree as a small JSON API for
// local integrations such as browser extensions and scripts.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nikbrunner/bmark/internal/bridge"
	"github.com/nikbrunner/bmark/internal/logging"
)

var log = logging.GetLogger("API")

const (
	DefaultAddr = "127.0.0.1:7171"

	defaultSearchLimit = 50
	maxBodyBytes       = 1 << 20
)

// Server serves the bookmark API over a bridge.
type Server struct {
	http.Handler
	b *bridge.Bridge
}

// New builds the router. Requests are logged unless quiet is set.
func New(b *bridge.Bridge, quiet bool) *Server {
	s := &Server{b: b}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	if !quiet {
		router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  log.StandardLog(),
			NoColor: true,
		}))
	}
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	api := chi.NewRouter()
	api.Get("/folders", s.listFolders)
	api.Get("/search", s.search)
	api.Post("/undo", s.undo)
	api.Post("/reading-list", s.addToReadingList)
	api.Route("/bookmarks", func(r chi.Router) {
		r.Post("/", s.addBookmark)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getBookmark)
			r.Patch("/", s.updateBookmark)
			r.Delete("/", s.deleteBookmark)
			r.Get("/children", s.listChildren)
			r.Post("/move", s.moveBookmark)
		})
	})
	router.Mount("/api", api)

	s.Handler = router
	return s
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:         addr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
		Handler:      s.Handler,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}
