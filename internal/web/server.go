package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/vbonduro/travelwish/internal/auth"
	"github.com/vbonduro/travelwish/internal/service"
)

// authenticator gates handlers that need a known user.
type authenticator interface {
	Require(next http.Handler) http.Handler
}

type Server struct {
	service   *service.PlaceService
	templates embed.FS
	authn     authenticator
	sessions  sessions.Store
	mux       *http.ServeMux
	logger    *slog.Logger
}

func NewServer(svc *service.PlaceService, tmpl embed.FS, authn authenticator, store sessions.Store, logger *slog.Logger) *Server {
	s := &Server{
		service:   svc,
		templates: tmpl,
		authn:     authn,
		sessions:  store,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	protected := func(h http.HandlerFunc) http.Handler {
		return s.authn.Require(h)
	}

	s.mux.Handle("GET /{$}", protected(s.handleWishlist))
	s.mux.Handle("POST /{$}", protected(s.handleCreatePlace))
	s.mux.Handle("GET /visited/{$}", protected(s.handleVisited))
	s.mux.Handle("/place/{id}/was_visited/{$}", protected(s.handleMarkVisited))
	s.mux.Handle("GET /place/{id}/{$}", protected(s.handlePlaceDetail))
	s.mux.Handle("POST /place/{id}/{$}", protected(s.handleSubmitReview))
	s.mux.Handle("POST /place/{id}/delete/{$}", protected(s.handleDeletePlace))
	s.mux.Handle("GET /place/{id}/photo", protected(s.handleGetPhoto))
	s.mux.HandleFunc("GET /about/{$}", s.handleAbout)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data:; "+
				"form-action 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// renderPage parses and executes a full-page template set. The requesting
// user and any pending notices are added to data; notices are consumed.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data map[string]any, files ...string) error {
	tmpl, err := template.New("").ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}

	data["User"] = auth.UserFrom(r.Context())
	data["Notices"] = s.takeNotices(w, r)
	if _, ok := data["ActiveNav"]; !ok {
		data["ActiveNav"] = ""
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "base", data)
}

// pageFiles returns the template files for a page: the layout, the shared
// partials and the page itself.
func pageFiles(page string) []string {
	return []string{"base.html", "partials/*.html", "pages/" + page}
}
