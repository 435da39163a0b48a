package leads

import (
	"time"

	"github.com/google/uuid"

	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
)

// LeadDTO is the transport shape for a lead.
type LeadDTO struct {
	ID         uuid.UUID        `json:"id"`
	CompanyID  uuid.UUID        `json:"company_id"`
	CampaignID uuid.UUID        `json:"campaign_id"`
	Status     enums.LeadStatus `json:"status"`
	SourceQR   string           `json:"source_qr"`
	Name       *string          `json:"name,omitempty"`
	Phone      *string          `json:"phone,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// CreateLeadDTO holds the data required by the repo to persist a lead.
type CreateLeadDTO struct {
	CompanyID  uuid.UUID
	CampaignID uuid.UUID
	SourceQR   string
}

func FromModel(l *models.Lead) *LeadDTO {
	if l == nil {
		return nil
	}

	return &LeadDTO{
		ID:         l.ID,
		CompanyID:  l.CompanyID,
		CampaignID: l.CampaignID,
		Status:     l.Status,
		SourceQR:   l.SourceQR,
		Name:       l.Name,
		Phone:      l.Phone,
		Notes:      l.Notes,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

// FromModels maps a slice preserving order.
func FromModels(rows []models.Lead) []LeadDTO {
	out := make([]LeadDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (c CreateLeadDTO) ToModel() *models.Lead {
	return &models.Lead{
		CompanyID:  c.CompanyID,
		CampaignID: c.CampaignID,
		Status:     enums.LeadStatusNew,
		SourceQR:   c.SourceQR,
	}
}
