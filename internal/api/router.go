package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// RouterConfig holds settings for the API router.
type RouterConfig struct {
	// CorsAllowedOrigins is a comma-separated list of allowed origins.
	// If empty, defaults to "*".
	CorsAllowedOrigins string

	// PublicDir is served at the root (landing page).
	PublicDir string

	// OutputDir holds generated audio, served under /outputs/.
	OutputDir string
}

func NewRouter(h *Handler, cfg RouterConfig, log logrus.FieldLogger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)

	// CORS: restrict origins when configured, otherwise allow all
	allowedOrigins := []string{"*"}
	if cfg.CorsAllowedOrigins != "" {
		origins := strings.Split(cfg.CorsAllowedOrigins, ",")
		trimmed := make([]string, 0, len(origins))
		for _, o := range origins {
			if s := strings.TrimSpace(o); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			allowedOrigins = trimmed
		}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Post("/generate-script", h.GenerateScript)
		r.Post("/generate-voice", h.GenerateVoice)
		r.Post("/generate", h.Generate)
		r.Post("/payment/checkout", h.Checkout)
	})

	// Generated audio, no access control
	if cfg.OutputDir != "" {
		r.Handle("/outputs/*", http.StripPrefix("/outputs/", http.FileServer(noListingFS{http.Dir(cfg.OutputDir)})))
	}

	// Static landing page
	if cfg.PublicDir != "" {
		r.Handle("/*", http.FileServer(noListingFS{http.Dir(cfg.PublicDir)}))
	}

	return r
}

// noListingFS serves files but hides directory listings. Directories
// resolve only when they contain an index.html.
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if stat.IsDir() {
		index, err := n.fs.Open(strings.TrimSuffix(name, "/") + "/index.html")
		if err != nil {
			f.Close()
			return nil, os.ErrNotExist
		}
		index.Close()
	}

	return f, nil
}
