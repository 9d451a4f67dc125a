// Package fixture serves a local replica of the site under test: the three
// routes and the landmarks the page objects look for. It lets the suite run
// without reaching the public site.
package fixture

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/valpere/PrismCheck/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page titles served by the fixture.
const (
	HomeTitle    = "Prism Software Solutions"
	AboutTitle   = "About | Prism Software Solutions"
	ContactTitle = "Contact | Prism Software Solutions"
)

// Submission is one contact form post received by the fixture.
type Submission struct {
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Server is the fixture site.
type Server struct {
	router *mux.Router
	pages  map[string]*template.Template
	log    utils.Logger

	mu          sync.Mutex
	submissions []Submission
}

// Option configures a Server.
type Option func(*Server)

// WithLogger logs every request to log.
func WithLogger(log utils.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// New builds the fixture site.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		log: utils.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	pages, err := parsePages("home", "about", "contact", "thanks")
	if err != nil {
		return nil, err
	}
	s.pages = pages
	s.router = s.setupRoutes()
	return s, nil
}

func parsePages(names ...string) (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func (s *Server) setupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.StrictSlash(true)
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/", s.page("home", HomeTitle)).Methods(http.MethodGet)
	r.HandleFunc("/about", s.page("about", AboutTitle)).Methods(http.MethodGet)
	r.HandleFunc("/contact", s.page("contact", ContactTitle)).Methods(http.MethodGet)
	r.HandleFunc("/contact/submit", s.submitHandler).Methods(http.MethodPost)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet, http.MethodHead)

	return r
}

// Handler returns the site's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Submissions returns the contact form posts received so far.
func (s *Server) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.submissions...)
}

// ListenAndServe serves the site on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.log.Infof("Fixture site listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type pageData struct {
	Title string
	Name  string
}

func (s *Server) page(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, name, pageData{Title: title})
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data pageData) {
	var b strings.Builder
	if err := s.pages[name].ExecuteTemplate(&b, "layout", data); err != nil {
		s.log.Errorf("rendering %s: %v", name, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}

func (s *Server) submitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	// No validation: the real form accepts whatever the browser lets through.
	sub := Submission{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Message: r.PostForm.Get("message"),
		At:      time.Now(),
	}
	s.mu.Lock()
	s.submissions = append(s.submissions, sub)
	s.mu.Unlock()

	s.log.WithField("name", sub.Name).Info("Contact form received")
	s.render(w, "thanks", pageData{Title: ContactTitle, Name: sub.Name})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Debug("fixture request")
	})
}
