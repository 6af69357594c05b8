package api

import (
	"fmt"
	"net/http"
	"time"

	"chatwrapped-go/internal/logger"
	"chatwrapped-go/internal/processor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type Server struct {
	router    *chi.Mux
	proc      *processor.Processor
	log       *logger.Logger
	maxUpload int64
}

func NewServer(proc *processor.Processor, log *logger.Logger, maxUpload int64) *Server {
	if log == nil {
		log = logger.New()
	}
	router := chi.NewRouter()
	s := &Server{
		router:    router,
		proc:      proc,
		log:       log,
		maxUpload: maxUpload,
	}

	router.Use(middleware.RealIP)
	router.Use(s.requestLogger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", s.health)
	router.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.analyze)
		r.Post("/create-video", s.createVideo)
		r.Get("/video/{filename}", s.video)
		r.Post("/report", s.report)
	})

	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// NewHTTPServer wraps the router with the service's timeouts. Writes get a
// long deadline because video rendering is synchronous.
func (s *Server) NewHTTPServer(port int, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}
}

// requestLogger tags every request with an id and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := logger.RequestID(r)
		r.Header.Set("X-Request-ID", id)
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.WithRequest(r).WithFields(logrus.Fields{
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request handled")
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "ok")
}
