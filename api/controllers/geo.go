package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/hangrmap/hangrmap-backend/api/responses"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
	"github.com/hangrmap/hangrmap-backend/pkg/logger"
	"github.com/hangrmap/hangrmap-backend/pkg/maps"
)

// Geocoder resolves coordinates to a formatted street address.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, loc maps.LatLng) (string, error)
}

type reverseGeocodeResponse struct {
	Address string `json:"address"`
}

// ReverseGeocode resolves lat/lng query params to the nearest address so
// crews can confirm a door before recording the drop.
func ReverseGeocode(geocoder Geocoder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if geocoder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "geocoding not configured"))
			return
		}

		lat, err := parseCoordinate(r.URL.Query().Get("lat"), -90, 90)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lat"))
			return
		}
		lng, err := parseCoordinate(r.URL.Query().Get("lng"), -180, 180)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lng"))
			return
		}

		address, err := geocoder.ReverseGeocode(r.Context(), maps.LatLng{Latitude: lat, Longitude: lng})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, reverseGeocodeResponse{Address: address})
	}
}

func parseCoordinate(raw string, min, max float64) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if value < min || value > max {
		return 0, strconv.ErrRange
	}
	return value, nil
}
