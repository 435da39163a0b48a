package controllers

import (
	"net/http"

	"github.com/hangrmap/hangrmap-backend/api/responses"
	"github.com/hangrmap/hangrmap-backend/internal/appstate"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
	"github.com/hangrmap/hangrmap-backend/pkg/logger"
)

// Bootstrap returns the full application snapshot for the session.
func Bootstrap(svc appstate.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "app state service unavailable"))
			return
		}

		userID, companyID, err := actorIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.Bootstrap(r.Context(), userID, companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, snapshot)
	}
}
