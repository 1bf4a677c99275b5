// internal/app/features/errors/handler.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/onecuponetree/onecup/internal/app/system/viewdata"
)

// NotFound renders the 404 page. Mounted as the router's NotFound handler.
func NotFound(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Page not found", "/"),
		Status:  http.StatusNotFound,
		Message: "We couldn't find that page.",
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	templates.Render(w, r, "error_page", data)
}
