// Package httpapi serves computed reports, the ledger, party stats and CSV exports over
// HTTP, plus reading and saving company settings.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(Timeout)

	r.Get("/healthz", handler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/reports/gstr1", handler.GSTR1)
		r.Get("/reports/gstr3b", handler.GSTR3B)
		r.Get("/reports/hsn", handler.HSN)

		r.Get("/ledger", handler.Ledger)
		r.Get("/summary", handler.Summary)
		r.Get("/parties", handler.Parties)
		r.Get("/buyers", handler.Buyers)

		r.Get("/exports/{name}.csv", handler.ExportCSV)

		r.Get("/settings", handler.GetSettings)
		r.Put("/settings", handler.SaveSettings)
	})

	return r
}
