package campaigns

import (
	"fmt"

	"github.com/hangrmap/hangrmap-backend/pkg/maps"
)

// GoogleMapRenderer adapts the Google static map client to the service's
// marker shape.
type GoogleMapRenderer struct {
	client *maps.Client
}

// NewGoogleMapRenderer wraps a configured maps client.
func NewGoogleMapRenderer(client *maps.Client) (*GoogleMapRenderer, error) {
	if client == nil {
		return nil, fmt.Errorf("maps client is required")
	}
	return &GoogleMapRenderer{client: client}, nil
}

func (g *GoogleMapRenderer) StaticMapURL(lat, lng float64, zoom, width, height int, markers []MapMarkerDTO) (string, error) {
	req := maps.StaticMapRequest{
		Center:  maps.LatLng{Latitude: lat, Longitude: lng},
		Zoom:    zoom,
		Width:   width,
		Height:  height,
		Markers: make([]maps.Marker, 0, len(markers)),
	}
	for _, m := range markers {
		req.Markers = append(req.Markers, maps.Marker{
			Location: maps.LatLng{Latitude: m.Lat, Longitude: m.Lng},
			Color:    m.Color,
		})
	}
	return g.client.StaticMapURL(req)
}
