package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hangrmap/hangrmap-backend/pkg/config"
	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
)

// UpdateInput captures the allowed lead fields for mutation.
type UpdateInput struct {
	Status *enums.LeadStatus
	Name   *string
	Phone  *string
	Notes  *string
}

// ScanResult is the outcome of resolving a scanned QR token.
type ScanResult struct {
	Lead        *LeadDTO
	RedirectURL string
}

// Service exposes lead operations.
type Service interface {
	RecordScan(ctx context.Context, qrToken string) (*ScanResult, error)
	List(ctx context.Context, companyID uuid.UUID) ([]LeadDTO, error)
	Update(ctx context.Context, companyID, id uuid.UUID, input UpdateInput) (*LeadDTO, error)
}

type leadRepository interface {
	CreateWithTx(tx *gorm.DB, dto CreateLeadDTO) (*models.Lead, error)
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Lead, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Lead, error)
	Update(ctx context.Context, lead *models.Lead) error
}

type campaignResolver interface {
	FindByQRToken(ctx context.Context, token string) (*models.Campaign, error)
	BumpStatsWithTx(tx *gorm.DB, id uuid.UUID, drops, scans, leads int64) error
}

type companyReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      leadRepository
	campaigns campaignResolver
	companies companyReader
	tx        txRunner
	scanCfg   config.ScanConfig
}

// ServiceParams bundles the dependencies required to build a lead service.
type ServiceParams struct {
	Repo      leadRepository
	Campaigns campaignResolver
	Companies companyReader
	DB        txRunner
	ScanCfg   config.ScanConfig
}

// NewService builds a lead service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("lead repository is required")
	}
	if params.Campaigns == nil {
		return nil, fmt.Errorf("campaign resolver is required")
	}
	if params.Companies == nil {
		return nil, fmt.Errorf("company reader is required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{
		repo:      params.Repo,
		campaigns: params.Campaigns,
		companies: params.Companies,
		tx:        params.DB,
		scanCfg:   params.ScanCfg,
	}, nil
}

// RecordScan resolves the token, records a fresh lead, and bumps the
// campaign's scan and lead counters in the same transaction.
func (s *service) RecordScan(ctx context.Context, qrToken string) (*ScanResult, error) {
	token := strings.TrimSpace(qrToken)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qr token is required")
	}

	campaign, err := s.campaigns.FindByQRToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve qr token")
	}

	var lead *models.Lead
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.CreateWithTx(tx, CreateLeadDTO{
			CompanyID:  campaign.CompanyID,
			CampaignID: campaign.ID,
			SourceQR:   token,
		})
		if err != nil {
			return err
		}
		lead = created
		return s.campaigns.BumpStatsWithTx(tx, campaign.ID, 0, 1, 1)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record scan")
	}

	return &ScanResult{
		Lead:        FromModel(lead),
		RedirectURL: s.redirectTarget(ctx, campaign.CompanyID),
	}, nil
}

func (s *service) redirectTarget(ctx context.Context, companyID uuid.UUID) string {
	company, err := s.companies.FindByID(ctx, companyID)
	if err == nil && company.LandingURL != nil && strings.TrimSpace(*company.LandingURL) != "" {
		return *company.LandingURL
	}
	return s.scanCfg.RedirectBaseURL
}

func (s *service) List(ctx context.Context, companyID uuid.UUID) ([]LeadDTO, error) {
	rows, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list leads")
	}
	return FromModels(rows), nil
}

func (s *service) Update(ctx context.Context, companyID, id uuid.UUID, input UpdateInput) (*LeadDTO, error) {
	lead, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load lead")
	}

	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid lead status")
		}
		lead.Status = *input.Status
	}
	if input.Name != nil {
		lead.Name = input.Name
	}
	if input.Phone != nil {
		lead.Phone = input.Phone
	}
	if input.Notes != nil {
		lead.Notes = input.Notes
	}

	if err := s.repo.Update(ctx, lead); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update lead")
	}
	return FromModel(lead), nil
}
