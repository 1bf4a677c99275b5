// internal/app/features/impact/routes.go
package impact

import (
	"github.com/go-chi/chi/v5"
	"github.com/onecuponetree/onecup/internal/app/system/auth"
)

// Routes wires the impact feature. Mounted at "/impact".
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/public", h.ServePublic)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireStaff)
		pr.Get("/", h.ServeDashboard)
		pr.Get("/donations.csv", h.ServeDonationsCSV)
		pr.Get("/export.xlsx", h.ServeExportXLSX)
	})

	return r
}
