package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/hangrmap/hangrmap-backend/api/responses"
	"github.com/hangrmap/hangrmap-backend/internal/analytics"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
	"github.com/hangrmap/hangrmap-backend/pkg/logger"
)

// AnalyticsDashboard computes the aggregate view. The optional tz query
// parameter shifts the today/this-month windows into the crew's local time.
func AnalyticsDashboard(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		_, companyID, err := actorIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := time.Now().UTC()
		if tz := strings.TrimSpace(r.URL.Query().Get("tz")); tz != "" {
			loc, locErr := time.LoadLocation(tz)
			if locErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, locErr, "invalid timezone"))
				return
			}
			now = now.In(loc)
		}

		result, err := svc.Dashboard(r.Context(), companyID, now)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
