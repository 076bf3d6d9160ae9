package site

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"video-gallery/shared/embed"
)

// HealthReporter reports whether the background jobs feeding the gallery are
// healthy.
type HealthReporter interface {
	IsHealthy() bool
	GetStatusSummary() string
}

// ServerConfig configures a gallery Server.
type ServerConfig struct {
	Renderer *Renderer
	Gallery  *Gallery
	AssetDir string
	Health   HealthReporter
	Now      func() time.Time
}

// Server serves the gallery with embeds resolved per request.
type Server struct {
	router   chi.Router
	renderer *Renderer
	health   HealthReporter
	now      func() time.Time

	mu      sync.RWMutex
	gallery *Gallery
}

// NewServer builds the gallery router.
func NewServer(cfg ServerConfig) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	s := &Server{
		router:   r,
		renderer: cfg.Renderer,
		health:   cfg.Health,
		now:      cfg.Now,
		gallery:  cfg.Gallery,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.gallery == nil {
		s.gallery = NewGallery(nil)
	}

	s.routes(cfg.AssetDir)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetGallery swaps the gallery being served.
func (s *Server) SetGallery(g *Gallery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gallery = g
}

func (s *Server) currentGallery() *Gallery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gallery
}

func (s *Server) routes(assetDir string) {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/months/{key}", s.handleMonth)
	s.router.Get("/months/{key}/", s.handleMonth)
	s.router.Get("/go", s.handleGo)
	s.router.Get("/go/{key}", s.handleGo)
	s.router.Get("/go/{key}/", s.handleGo)
	s.router.Get("/api/embed", s.handleEmbed)
	s.router.Get("/api/health", s.handleHealth)

	if assetDir != "" {
		s.router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(assetDir))))
	}
}

// requestBuilder resolves embeds against the host and clock of the request.
func (s *Server) requestBuilder(r *http.Request) *embed.Builder {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	} else if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}
	base := s.renderer.Builder
	if base == nil {
		base = &embed.Builder{Expiry: embed.DefaultExpiryPolicy}
	}
	return base.WithRequest(scheme, r.Host, s.now())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	g := s.currentGallery()
	newest, err := g.Newest()
	if err != nil {
		newest = ""
	}
	s.renderPage(w, r, g, newest)
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	g := s.currentGallery()
	key := chi.URLParam(r, "key")
	if _, ok := g.Month(key); !ok {
		http.NotFound(w, r)
		return
	}
	s.renderPage(w, r, g, key)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, g *Gallery, key string) {
	var buf bytes.Buffer
	if err := s.renderer.RenderMonth(&buf, g, key, s.requestBuilder(r)); err != nil {
		log.Printf("Failed to render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleGo(w http.ResponseWriter, r *http.Request) {
	selected := chi.URLParam(r, "key")
	if selected == "" {
		selected = strings.TrimSpace(r.URL.Query().Get("month"))
	}

	target, ok := s.currentGallery().Resolve(selected)
	if !ok {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, MonthPath(target), http.StatusFound)
}

func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	link := q.Get("url")
	if strings.TrimSpace(link) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}
	target := s.requestBuilder(r).Build(link, q.Get("mediaType"), q.Get("date"))
	writeJSON(w, http.StatusOK, target)
}

type healthResponse struct {
	Status  string `json:"status"`
	Summary string `json:"summary,omitempty"`
	Months  int    `json:"months"`
	Videos  int    `json:"videos"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	g := s.currentGallery()
	resp := healthResponse{Status: "ok", Months: len(g.Keys()), Videos: g.VideoCount()}
	status := http.StatusOK
	if s.health != nil {
		resp.Summary = s.health.GetStatusSummary()
		if !s.health.IsHealthy() {
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
