package drops

import (
	"time"

	"github.com/google/uuid"

	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
)

// DropDTO is the transport shape for a recorded drop. CampaignID is the
// empty string for unattributed drops.
type DropDTO struct {
	ID         uuid.UUID        `json:"id"`
	CompanyID  uuid.UUID        `json:"company_id"`
	UserID     uuid.UUID        `json:"user_id"`
	CampaignID string           `json:"campaign_id"`
	Lat        float64          `json:"lat"`
	Lng        float64          `json:"lng"`
	Status     enums.DropStatus `json:"status"`
	Address    string           `json:"address"`
	ImageURL   *string          `json:"image_url,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// CreateDropDTO holds the data required by the repo to persist a drop.
type CreateDropDTO struct {
	CompanyID  uuid.UUID
	UserID     uuid.UUID
	CampaignID *uuid.UUID
	Latitude   float64
	Longitude  float64
	Status     enums.DropStatus
	Address    string
	ImageURL   *string
}

func FromModel(d *models.Drop) *DropDTO {
	if d == nil {
		return nil
	}

	campaignID := ""
	if d.CampaignID != nil {
		campaignID = d.CampaignID.String()
	}

	return &DropDTO{
		ID:         d.ID,
		CompanyID:  d.CompanyID,
		UserID:     d.UserID,
		CampaignID: campaignID,
		Lat:        d.Latitude,
		Lng:        d.Longitude,
		Status:     d.Status,
		Address:    d.Address,
		ImageURL:   d.ImageURL,
		Timestamp:  d.CreatedAt,
	}
}

// FromModels maps a slice preserving order.
func FromModels(rows []models.Drop) []DropDTO {
	out := make([]DropDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (c CreateDropDTO) ToModel() *models.Drop {
	var campaignID *uuid.UUID
	if c.CampaignID != nil {
		id := *c.CampaignID
		campaignID = &id
	}

	return &models.Drop{
		CompanyID:  c.CompanyID,
		UserID:     c.UserID,
		CampaignID: campaignID,
		Latitude:   c.Latitude,
		Longitude:  c.Longitude,
		Status:     c.Status,
		Address:    c.Address,
		ImageURL:   c.ImageURL,
	}
}
