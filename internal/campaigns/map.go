package campaigns

import (
	"context"

	"github.com/google/uuid"

	"github.com/hangrmap/hangrmap-backend/pkg/enums"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
)

// Default viewport when a campaign has no drops yet.
const (
	fallbackCenterLat = 34.0522
	fallbackCenterLng = -118.2437

	defaultMapZoom   = 15
	defaultMapWidth  = 640
	defaultMapHeight = 400
)

var statusMarkerColors = map[enums.DropStatus]string{
	enums.DropStatusDropped:        "0x10b981",
	enums.DropStatusSkipped:        "0xf59e0b",
	enums.DropStatusNoSoliciting:   "0xf43f5e",
	enums.DropStatusExistingClient: "0x0ea5e9",
}

// MapMarkerDTO is one colored pin on the campaign map.
type MapMarkerDTO struct {
	Lat    float64          `json:"lat"`
	Lng    float64          `json:"lng"`
	Status enums.DropStatus `json:"status"`
	Color  string           `json:"color"`
}

// MapSpecDTO describes the rendered campaign map: viewport, pins, and a
// keyed provider image URL.
type MapSpecDTO struct {
	CampaignID uuid.UUID      `json:"campaign_id"`
	CenterLat  float64        `json:"center_lat"`
	CenterLng  float64        `json:"center_lng"`
	Zoom       int            `json:"zoom"`
	Markers    []MapMarkerDTO `json:"markers"`
	ImageURL   string         `json:"image_url,omitempty"`
}

// MapSpec builds the static map render for a campaign's drops. The center is
// the first (newest) drop, or a fixed fallback when the campaign is empty.
func (s *service) MapSpec(ctx context.Context, companyID, id uuid.UUID) (*MapSpecDTO, error) {
	if _, err := s.loadCampaign(ctx, companyID, id); err != nil {
		return nil, err
	}

	drops, err := s.drops.ListByCampaign(ctx, companyID, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list campaign drops")
	}

	spec := &MapSpecDTO{
		CampaignID: id,
		CenterLat:  fallbackCenterLat,
		CenterLng:  fallbackCenterLng,
		Zoom:       defaultMapZoom,
		Markers:    make([]MapMarkerDTO, 0, len(drops)),
	}
	if len(drops) > 0 {
		spec.CenterLat = drops[0].Latitude
		spec.CenterLng = drops[0].Longitude
	}

	for _, d := range drops {
		spec.Markers = append(spec.Markers, MapMarkerDTO{
			Lat:    d.Latitude,
			Lng:    d.Longitude,
			Status: d.Status,
			Color:  statusMarkerColors[d.Status],
		})
	}

	if s.renderer != nil {
		imageURL, err := s.renderer.StaticMapURL(spec.CenterLat, spec.CenterLng, spec.Zoom, defaultMapWidth, defaultMapHeight, spec.Markers)
		if err != nil {
			return nil, err
		}
		spec.ImageURL = imageURL
	}

	return spec, nil
}
