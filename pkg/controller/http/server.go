package http

import (
	"net/http"
	"time"

	"github.com/biogas-ops/gutboard/pkg/usecase"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultMaxUploadSize bounds attachment uploads
const DefaultMaxUploadSize = 32 << 20

// IdentityHeader carries the caller e-mail set by the identity-aware proxy
const IdentityHeader = "X-Goog-Authenticated-User-Email"

type Server struct {
	router        *chi.Mux
	uc            *usecase.UseCases
	maxUploadSize int64
}

type Options func(*Server)

func WithMaxUploadSize(size int64) Options {
	return func(s *Server) {
		s.maxUploadSize = size
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:        r,
		uc:            uc,
		maxUploadSize: DefaultMaxUploadSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(identityMiddleware(uc.User))

		r.Get("/me", s.getMe)
		r.Get("/dashboard", s.getDashboard)
		r.Post("/suggest", s.postSuggest)

		r.Route("/risks", func(r chi.Router) {
			r.Get("/", s.listRisks)
			r.Post("/", s.createRisk)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getRisk)
				r.Put("/", s.updateRisk)
				r.Delete("/", s.deleteRisk)
				r.Put("/status", s.updateRiskStatus)
				r.Put("/factors", s.updateRiskFactors)
				r.Post("/resolve", s.resolveRisk)
				r.Post("/suggest", s.suggestForRisk)
				r.Post("/attachments", s.attachFile)
				r.Delete("/attachments", s.detachFile)
			})
		})

		r.Route("/areas", func(r chi.Router) {
			r.Get("/", s.listAreas)
			r.Post("/", s.createArea)
			r.Put("/{id}", s.renameArea)
			r.Delete("/{id}", s.deleteArea)
		})

		r.Route("/equipment", func(r chi.Router) {
			r.Get("/", s.listEquipment)
			r.Post("/", s.createEquipment)
			r.Delete("/{id}", s.deleteEquipment)
			r.Get("/{id}/readings", s.listReadings)
			r.Post("/{id}/readings", s.recordReading)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.listUsers)
			r.Put("/", s.putUser)
			r.Delete("/{id}", s.deleteUser)
		})

		r.Get("/reports/risks", s.exportRisks)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
