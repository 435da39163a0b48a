package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hangrmap/hangrmap-backend/api/responses"
	"github.com/hangrmap/hangrmap-backend/internal/leads"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
	"github.com/hangrmap/hangrmap-backend/pkg/logger"
)

// Scan resolves a QR token from a door hanger, records the lead, and
// redirects the anonymous scanner to the company's landing page. The token
// never requires authentication.
func Scan(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lead service unavailable"))
			return
		}

		token := chi.URLParam(r, "qrToken")
		result, err := svc.RecordScan(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.Redirect(w, r, result.RedirectURL, http.StatusFound)
	}
}
