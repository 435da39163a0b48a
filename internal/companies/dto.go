package companies

import (
	"time"

	"github.com/google/uuid"

	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
)

// CompanyDTO is the transport shape for a tenant.
type CompanyDTO struct {
	ID                 uuid.UUID                `json:"id"`
	Name               string                   `json:"name"`
	PlanType           enums.PlanType           `json:"plan_type"`
	SubscriptionStatus enums.SubscriptionStatus `json:"subscription_status"`
	LandingURL         *string                  `json:"landing_url,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// CreateCompanyDTO holds the data required to persist a new tenant.
type CreateCompanyDTO struct {
	Name               string
	PlanType           enums.PlanType
	SubscriptionStatus enums.SubscriptionStatus
}

func FromModel(c *models.Company) *CompanyDTO {
	if c == nil {
		return nil
	}

	return &CompanyDTO{
		ID:                 c.ID,
		Name:               c.Name,
		PlanType:           c.PlanType,
		SubscriptionStatus: c.SubscriptionStatus,
		LandingURL:         c.LandingURL,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func (c CreateCompanyDTO) ToModel() *models.Company {
	plan := c.PlanType
	if plan == "" {
		plan = enums.PlanTypeSolo
	}
	status := c.SubscriptionStatus
	if status == "" {
		status = enums.SubscriptionStatusTrialing
	}

	return &models.Company{
		Name:               c.Name,
		PlanType:           plan,
		SubscriptionStatus: status,
	}
}
