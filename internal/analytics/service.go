package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hangrmap/hangrmap-backend/internal/drops"
	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
)

// DashboardDTO aggregates the derived numbers the admin dashboard shows.
// Everything is recomputed per call; nothing is cached.
type DashboardDTO struct {
	StatusCounts   map[enums.DropStatus]int `json:"status_counts"`
	DropsToday     int                      `json:"drops_today"`
	DropsThisMonth int                      `json:"drops_this_month"`
	TotalDrops     int                      `json:"total_drops"`
	TotalLeads     int                      `json:"total_leads"`
	ConversionRate string                   `json:"conversion_rate"`
	MapCenterLat   float64                  `json:"map_center_lat"`
	MapCenterLng   float64                  `json:"map_center_lng"`
}

// Service computes the dashboard aggregate.
type Service interface {
	Dashboard(ctx context.Context, companyID uuid.UUID, now time.Time) (*DashboardDTO, error)
}

type dropLister interface {
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Drop, error)
}

type leadLister interface {
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Lead, error)
}

type service struct {
	drops dropLister
	leads leadLister
}

// NewService builds the analytics service with the provided repositories.
func NewService(dropRepo dropLister, leadRepo leadLister) (Service, error) {
	if dropRepo == nil {
		return nil, fmt.Errorf("drop repository is required")
	}
	if leadRepo == nil {
		return nil, fmt.Errorf("lead repository is required")
	}
	return &service{drops: dropRepo, leads: leadRepo}, nil
}

func (s *service) Dashboard(ctx context.Context, companyID uuid.UUID, now time.Time) (*DashboardDTO, error) {
	dropRows, err := s.drops.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list drops")
	}
	leadRows, err := s.leads.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list leads")
	}

	dropDTOs := drops.FromModels(dropRows)
	lat, lng := MapCenter(dropDTOs, "")

	return &DashboardDTO{
		StatusCounts:   StatusCounts(dropDTOs),
		DropsToday:     DropsToday(dropDTOs, now),
		DropsThisMonth: DropsThisMonth(dropDTOs, now),
		TotalDrops:     len(dropDTOs),
		TotalLeads:     len(leadRows),
		ConversionRate: ConversionRate(len(leadRows), len(dropDTOs)),
		MapCenterLat:   lat,
		MapCenterLng:   lng,
	}, nil
}
