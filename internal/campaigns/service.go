package campaigns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
	"github.com/hangrmap/hangrmap-backend/pkg/qr"
)

// CreateInput captures the fields required to launch a campaign.
type CreateInput struct {
	Name               string
	TargetNeighborhood string
	AssignedCrewIDs    []uuid.UUID
}

// UpdateInput captures the allowed campaign fields for mutation.
type UpdateInput struct {
	Name               *string
	TargetNeighborhood *string
}

// Service exposes campaign operations.
type Service interface {
	Create(ctx context.Context, companyID, userID uuid.UUID, input CreateInput) (*CampaignDTO, error)
	List(ctx context.Context, companyID uuid.UUID) ([]CampaignDTO, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*CampaignDTO, error)
	Update(ctx context.Context, companyID, id uuid.UUID, input UpdateInput) (*CampaignDTO, error)
	Select(ctx context.Context, companyID, userID uuid.UUID, campaignID *uuid.UUID) error
	Delete(ctx context.Context, companyID, userID, id uuid.UUID) error
	MapSpec(ctx context.Context, companyID, id uuid.UUID) (*MapSpecDTO, error)
}

type campaignRepository interface {
	Create(ctx context.Context, dto CreateCampaignDTO) (*models.Campaign, error)
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Campaign, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	DeleteCascadeWithTx(tx *gorm.DB, companyID, id uuid.UUID) error
}

type dropsRepository interface {
	ListByCampaign(ctx context.Context, companyID, campaignID uuid.UUID) ([]models.Drop, error)
}

type selectionStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
	Set(ctx context.Context, userID, campaignID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type mapRenderer interface {
	StaticMapURL(lat, lng float64, zoom, width, height int, markers []MapMarkerDTO) (string, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      campaignRepository
	drops     dropsRepository
	selection selectionStore
	renderer  mapRenderer
	qrGen     *qr.Generator
	tx        txRunner
}

// ServiceParams bundles the dependencies required to build a campaign service.
type ServiceParams struct {
	Repo      campaignRepository
	Drops     dropsRepository
	Selection selectionStore
	Renderer  mapRenderer
	QRGen     *qr.Generator
	DB        txRunner
}

// NewService builds a campaign service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("campaign repository is required")
	}
	if params.Drops == nil {
		return nil, fmt.Errorf("drops repository is required")
	}
	if params.Selection == nil {
		return nil, fmt.Errorf("selection store is required")
	}
	if params.QRGen == nil {
		return nil, fmt.Errorf("qr generator is required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{
		repo:      params.Repo,
		drops:     params.Drops,
		selection: params.Selection,
		renderer:  params.Renderer,
		qrGen:     params.QRGen,
		tx:        params.DB,
	}, nil
}

func (s *service) Create(ctx context.Context, companyID, userID uuid.UUID, input CreateInput) (*CampaignDTO, error) {
	name := strings.TrimSpace(input.Name)
	neighborhood := strings.TrimSpace(input.TargetNeighborhood)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if neighborhood == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target_neighborhood is required")
	}

	token, err := qr.NewToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate qr token")
	}

	campaign, err := s.repo.Create(ctx, CreateCampaignDTO{
		CompanyID:          companyID,
		Name:               name,
		StartDate:          time.Now().UTC(),
		TargetNeighborhood: neighborhood,
		QRToken:            token,
		QRCodeURL:          s.qrGen.ImageURL(token),
		AssignedCrewIDs:    input.AssignedCrewIDs,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create campaign")
	}

	// First campaign becomes the caller's working selection.
	current, err := s.selection.Get(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read selection")
	}
	if current == nil {
		if err := s.selection.Set(ctx, userID, campaign.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store selection")
		}
	}

	return FromModel(campaign), nil
}

func (s *service) List(ctx context.Context, companyID uuid.UUID) ([]CampaignDTO, error) {
	rows, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list campaigns")
	}
	return FromModels(rows), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id uuid.UUID) (*CampaignDTO, error) {
	campaign, err := s.loadCampaign(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(campaign), nil
}

func (s *service) Update(ctx context.Context, companyID, id uuid.UUID, input UpdateInput) (*CampaignDTO, error) {
	campaign, err := s.loadCampaign(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		campaign.Name = name
	}
	if input.TargetNeighborhood != nil {
		neighborhood := strings.TrimSpace(*input.TargetNeighborhood)
		if neighborhood == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "target_neighborhood cannot be empty")
		}
		campaign.TargetNeighborhood = neighborhood
	}

	if err := s.repo.Update(ctx, campaign); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update campaign")
	}
	return FromModel(campaign), nil
}

// Select stores the caller's working campaign. A nil campaignID clears the
// selection; a campaign outside the caller's company is rejected and the
// stored selection stays untouched.
func (s *service) Select(ctx context.Context, companyID, userID uuid.UUID, campaignID *uuid.UUID) error {
	if campaignID == nil {
		if err := s.selection.Clear(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear selection")
		}
		return nil
	}

	if _, err := s.loadCampaign(ctx, companyID, *campaignID); err != nil {
		return err
	}

	if err := s.selection.Set(ctx, userID, *campaignID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store selection")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, companyID, userID, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.DeleteCascadeWithTx(tx, companyID, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete campaign")
	}

	// Selection cleanup happens after commit so a failed delete never
	// drops the caller's working campaign.
	current, err := s.selection.Get(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read selection")
	}
	if current != nil && *current == id {
		if err := s.selection.Clear(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear selection")
		}
	}
	return nil
}

func (s *service) loadCampaign(ctx context.Context, companyID, id uuid.UUID) (*models.Campaign, error) {
	campaign, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load campaign")
	}
	return campaign, nil
}
