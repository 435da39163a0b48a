package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hangrmap/hangrmap-backend/api/responses"
	"github.com/hangrmap/hangrmap-backend/api/validators"
	"github.com/hangrmap/hangrmap-backend/internal/drops"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
	"github.com/hangrmap/hangrmap-backend/pkg/logger"
)

// Lat/Lng are pointers so the zero coordinate (equator, Greenwich meridian)
// survives the required check.
type dropRecordRequest struct {
	Lat      *float64 `json:"lat" validate:"required,latitude"`
	Lng      *float64 `json:"lng" validate:"required,longitude"`
	Status   string   `json:"status" validate:"required"`
	Address  string   `json:"address" validate:"required,min=1"`
	ImageURL *string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

// DropRecord stamps a GPS drop against the crew member's current campaign.
func DropRecord(svc drops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "drop service unavailable"))
			return
		}

		userID, companyID, err := actorIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body dropRecordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseDropStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid drop status"))
			return
		}

		result, err := svc.Record(r.Context(), companyID, userID, drops.RecordInput{
			Lat:      *body.Lat,
			Lng:      *body.Lng,
			Status:   status,
			Address:  body.Address,
			ImageURL: body.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// DropList returns the company's drops, optionally filtered by campaign.
func DropList(svc drops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "drop service unavailable"))
			return
		}

		_, companyID, err := actorIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var campaignID *uuid.UUID
		if raw := strings.TrimSpace(r.URL.Query().Get("campaign_id")); raw != "" {
			id, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid campaign id"))
				return
			}
			campaignID = &id
		}

		result, err := svc.List(r.Context(), companyID, campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
