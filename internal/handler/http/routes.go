package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Route("/api", func(r chi.Router) {
		r.Get("/version", h.getServerVersion)

		r.Post("/session", h.signIn)
		r.Delete("/session", h.signOut)
		r.Get("/session", h.session)

		r.Route("/records/{collection}", func(r chi.Router) {
			r.Get("/", h.listRecords)
			r.Post("/", h.createRecord)
			r.Post("/refresh", h.refreshCollection)

			r.Get("/{id}", h.getRecord)
			r.Patch("/{id}", h.updateRecord)
			r.Delete("/{id}", h.deleteRecord)
		})
	})

	return router
}
