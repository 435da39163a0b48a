package campaigns

import (
	"time"

	"github.com/google/uuid"

	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	dbtypes "github.com/hangrmap/hangrmap-backend/pkg/db/types"
)

// CampaignStatsDTO mirrors the jsonb counters on the row.
type CampaignStatsDTO struct {
	TotalDrops int64 `json:"total_drops"`
	Scans      int64 `json:"scans"`
	Leads      int64 `json:"leads"`
}

// CampaignDTO is the transport shape for a campaign.
type CampaignDTO struct {
	ID                 uuid.UUID        `json:"id"`
	CompanyID          uuid.UUID        `json:"company_id"`
	Name               string           `json:"name"`
	StartDate          time.Time        `json:"start_date"`
	TargetNeighborhood string           `json:"target_neighborhood"`
	QRCodeURL          string           `json:"qr_code_url"`
	AssignedCrewIDs    []uuid.UUID      `json:"assigned_crew_ids"`
	Stats              CampaignStatsDTO `json:"stats"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// CreateCampaignDTO holds the data required by the repo to persist a campaign.
type CreateCampaignDTO struct {
	CompanyID          uuid.UUID
	Name               string
	StartDate          time.Time
	TargetNeighborhood string
	QRToken            string
	QRCodeURL          string
	AssignedCrewIDs    []uuid.UUID
}

func FromModel(c *models.Campaign) *CampaignDTO {
	if c == nil {
		return nil
	}

	return &CampaignDTO{
		ID:                 c.ID,
		CompanyID:          c.CompanyID,
		Name:               c.Name,
		StartDate:          c.StartDate,
		TargetNeighborhood: c.TargetNeighborhood,
		QRCodeURL:          c.QRCodeURL,
		AssignedCrewIDs:    append([]uuid.UUID{}, []uuid.UUID(c.AssignedCrewIDs)...),
		Stats: CampaignStatsDTO{
			TotalDrops: c.Stats.TotalDrops,
			Scans:      c.Stats.Scans,
			Leads:      c.Stats.Leads,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// FromModels maps a slice preserving order.
func FromModels(rows []models.Campaign) []CampaignDTO {
	out := make([]CampaignDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (c CreateCampaignDTO) ToModel() *models.Campaign {
	crew := c.AssignedCrewIDs
	if crew == nil {
		crew = []uuid.UUID{}
	} else {
		crew = append([]uuid.UUID(nil), crew...)
	}

	return &models.Campaign{
		CompanyID:          c.CompanyID,
		Name:               c.Name,
		StartDate:          c.StartDate,
		TargetNeighborhood: c.TargetNeighborhood,
		QRToken:            c.QRToken,
		QRCodeURL:          c.QRCodeURL,
		AssignedCrewIDs:    dbtypes.UUIDArray(crew),
		Stats:              dbtypes.CampaignStats{},
	}
}
