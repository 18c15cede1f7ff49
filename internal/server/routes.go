package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"topocad/internal/config"
)

// NewRouter wires the REST contract the viewer and CLI consume
func NewRouter(store *Store, cfg *config.Config, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.ServeOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	h := NewHandler(store, log)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		if err != nil {
			return
		}
	})

	r.Route("/projects", func(r chi.Router) {
		r.Post("/", h.CreateProject)
		r.Get("/user/{userId}", h.GetUserProjects)
		r.Get("/{id}", h.GetProject)
		r.Delete("/{id}", h.DeleteProject)
	})

	r.Route("/points", func(r chi.Router) {
		r.Post("/", h.CreatePoint)
		r.Get("/project/{projectId}", h.GetProjectPoints)
		r.Patch("/{id}", h.PatchPoint)
		r.Delete("/{id}", h.DeletePoint)
	})

	r.Route("/stations", func(r chi.Router) {
		r.Post("/", h.CreateStation)
		r.Get("/project/{projectId}", h.GetProjectStations)
	})

	r.Post("/observations", h.CreateObservation)

	r.Route("/layers", func(r chi.Router) {
		r.Post("/", h.CreateLayer)
		r.Get("/project/{projectId}", h.GetProjectLayers)
		r.Patch("/{id}", h.PatchLayer)
		r.Delete("/{id}", h.DeleteLayer)
	})

	r.Route("/leveling", func(r chi.Router) {
		r.Get("/project/{projectId}", h.GetProjectLevelingRuns)
		r.Post("/run", h.CreateLevelingRun)
		r.Get("/run/{id}", h.GetLevelingRun)
		r.Post("/reading", h.AddLevelingReading)
	})

	r.Route("/surfaces", func(r chi.Router) {
		r.Post("/", h.CreateSurface)
		r.Get("/project/{projectId}", h.GetProjectSurfaces)
		r.Post("/{id}/points", h.AddSurfacePoints)
	})

	return r
}
