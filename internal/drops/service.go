package drops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
)

// RecordInput captures one door visit as reported from the field.
type RecordInput struct {
	Lat      float64
	Lng      float64
	Status   enums.DropStatus
	Address  string
	ImageURL *string
}

// Service exposes drop operations.
type Service interface {
	Record(ctx context.Context, companyID, userID uuid.UUID, input RecordInput) (*DropDTO, error)
	List(ctx context.Context, companyID uuid.UUID, campaignID *uuid.UUID) ([]DropDTO, error)
}

type dropRepository interface {
	CreateWithTx(tx *gorm.DB, dto CreateDropDTO) (*models.Drop, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Drop, error)
	ListByCampaign(ctx context.Context, companyID, campaignID uuid.UUID) ([]models.Drop, error)
}

type statsBumper interface {
	BumpStatsWithTx(tx *gorm.DB, id uuid.UUID, drops, scans, leads int64) error
}

type selectionStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type campaignReader interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Campaign, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      dropRepository
	stats     statsBumper
	campaigns campaignReader
	selection selectionStore
	tx        txRunner
}

// ServiceParams bundles the dependencies required to build a drop service.
type ServiceParams struct {
	Repo      dropRepository
	Stats     statsBumper
	Campaigns campaignReader
	Selection selectionStore
	DB        txRunner
}

// NewService builds a drop service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("drop repository is required")
	}
	if params.Stats == nil {
		return nil, fmt.Errorf("stats bumper is required")
	}
	if params.Campaigns == nil {
		return nil, fmt.Errorf("campaign reader is required")
	}
	if params.Selection == nil {
		return nil, fmt.Errorf("selection store is required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{
		repo:      params.Repo,
		stats:     params.Stats,
		campaigns: params.Campaigns,
		selection: params.Selection,
		tx:        params.DB,
	}, nil
}

// Record persists a drop stamped with the caller's current campaign
// selection at call time. The drop insert and the campaign counter bump
// commit together.
func (s *service) Record(ctx context.Context, companyID, userID uuid.UUID, input RecordInput) (*DropDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid drop status")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}

	campaignID, err := s.selection.Get(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read selection")
	}

	// A selection can outlive its campaign when another admin deletes it;
	// the drop falls back to unattributed and the stale key is cleared.
	if campaignID != nil {
		if _, findErr := s.campaigns.FindByID(ctx, companyID, *campaignID); findErr != nil {
			if !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "validate selection")
			}
			_ = s.selection.Clear(ctx, userID)
			campaignID = nil
		}
	}

	var drop *models.Drop
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.CreateWithTx(tx, CreateDropDTO{
			CompanyID:  companyID,
			UserID:     userID,
			CampaignID: campaignID,
			Latitude:   input.Lat,
			Longitude:  input.Lng,
			Status:     input.Status,
			Address:    strings.TrimSpace(input.Address),
			ImageURL:   input.ImageURL,
		})
		if err != nil {
			return err
		}
		drop = created

		if campaignID != nil {
			if err := s.stats.BumpStatsWithTx(tx, *campaignID, 1, 0, 0); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record drop")
	}

	return FromModel(drop), nil
}

func (s *service) List(ctx context.Context, companyID uuid.UUID, campaignID *uuid.UUID) ([]DropDTO, error) {
	var (
		rows []models.Drop
		err  error
	)
	if campaignID != nil {
		rows, err = s.repo.ListByCampaign(ctx, companyID, *campaignID)
	} else {
		rows, err = s.repo.ListByCompany(ctx, companyID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list drops")
	}
	return FromModels(rows), nil
}
