package appstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hangrmap/hangrmap-backend/internal/campaigns"
	"github.com/hangrmap/hangrmap-backend/internal/companies"
	"github.com/hangrmap/hangrmap-backend/internal/drops"
	"github.com/hangrmap/hangrmap-backend/internal/leads"
	"github.com/hangrmap/hangrmap-backend/internal/users"
	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
)

// SnapshotDTO is the full application state handed to a client at session
// start. CurrentCampaignID is the empty string when nothing is selectable.
type SnapshotDTO struct {
	User              *users.UserDTO          `json:"user"`
	Company           *companies.CompanyDTO   `json:"company"`
	Campaigns         []campaigns.CampaignDTO `json:"campaigns"`
	Drops             []drops.DropDTO         `json:"drops"`
	Leads             []leads.LeadDTO         `json:"leads"`
	CurrentCampaignID string                  `json:"current_campaign_id"`
}

// Service assembles the bootstrap snapshot.
type Service interface {
	Bootstrap(ctx context.Context, userID, companyID uuid.UUID) (*SnapshotDTO, error)
}

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type companyReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

type campaignLister interface {
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Campaign, error)
}

type dropLister interface {
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Drop, error)
}

type leadLister interface {
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Lead, error)
}

type selectionReader interface {
	Get(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
}

type service struct {
	users     userReader
	companies companyReader
	campaigns campaignLister
	drops     dropLister
	leads     leadLister
	selection selectionReader
}

// ServiceParams bundles the dependencies required to build the app state service.
type ServiceParams struct {
	Users     userReader
	Companies companyReader
	Campaigns campaignLister
	Drops     dropLister
	Leads     leadLister
	Selection selectionReader
}

// NewService builds the app state service with the provided repositories.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Companies == nil {
		return nil, fmt.Errorf("company repository is required")
	}
	if params.Campaigns == nil {
		return nil, fmt.Errorf("campaign repository is required")
	}
	if params.Drops == nil {
		return nil, fmt.Errorf("drop repository is required")
	}
	if params.Leads == nil {
		return nil, fmt.Errorf("lead repository is required")
	}
	if params.Selection == nil {
		return nil, fmt.Errorf("selection store is required")
	}
	return &service{
		users:     params.Users,
		companies: params.Companies,
		campaigns: params.Campaigns,
		drops:     params.Drops,
		leads:     params.Leads,
		selection: params.Selection,
	}, nil
}

// Bootstrap loads the whole snapshot or nothing. Any repo failure aborts the
// call so a client never starts from a partial view.
func (s *service) Bootstrap(ctx context.Context, userID, companyID uuid.UUID) (*SnapshotDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load company")
	}

	campaignRows, err := s.campaigns.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list campaigns")
	}
	dropRows, err := s.drops.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list drops")
	}
	leadRows, err := s.leads.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list leads")
	}

	stored, err := s.selection.Get(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read selection")
	}

	return &SnapshotDTO{
		User:              users.FromModel(user),
		Company:           companies.FromModel(company),
		Campaigns:         campaigns.FromModels(campaignRows),
		Drops:             drops.FromModels(dropRows),
		Leads:             leads.FromModels(leadRows),
		CurrentCampaignID: resolveSelection(stored, campaignRows),
	}, nil
}

// resolveSelection maps the stored selection onto the live campaign list.
// A stale selection falls back to the newest campaign, same as no selection.
func resolveSelection(stored *uuid.UUID, rows []models.Campaign) string {
	if stored != nil {
		for i := range rows {
			if rows[i].ID == *stored {
				return stored.String()
			}
		}
	}
	if len(rows) > 0 {
		return rows[0].ID.String()
	}
	return ""
}
