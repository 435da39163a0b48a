package leads

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hangrmap/hangrmap-backend/pkg/config"
	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
)

type stubLeadRepo struct {
	created []CreateLeadDTO
	byID    *models.Lead
	rows    []models.Lead
	updated []*models.Lead
}

func (s *stubLeadRepo) CreateWithTx(tx *gorm.DB, dto CreateLeadDTO) (*models.Lead, error) {
	s.created = append(s.created, dto)
	lead := dto.ToModel()
	lead.ID = uuid.New()
	return lead, nil
}

func (s *stubLeadRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Lead, error) {
	if s.byID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.byID, nil
}

func (s *stubLeadRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Lead, error) {
	return s.rows, nil
}

func (s *stubLeadRepo) Update(ctx context.Context, lead *models.Lead) error {
	s.updated = append(s.updated, lead)
	return nil
}

type stubCampaignResolver struct {
	campaign *models.Campaign
	bumps    []struct {
		id                  uuid.UUID
		drops, scans, leads int64
	}
}

func (s *stubCampaignResolver) FindByQRToken(ctx context.Context, token string) (*models.Campaign, error) {
	if s.campaign == nil || s.campaign.QRToken != token {
		return nil, gorm.ErrRecordNotFound
	}
	return s.campaign, nil
}

func (s *stubCampaignResolver) BumpStatsWithTx(tx *gorm.DB, id uuid.UUID, drops, scans, leads int64) error {
	s.bumps = append(s.bumps, struct {
		id                  uuid.UUID
		drops, scans, leads int64
	}{id, drops, scans, leads})
	return nil
}

type stubCompanyReader struct {
	company *models.Company
}

func (s *stubCompanyReader) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if s.company == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.company, nil
}

type stubTxRunner struct{}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo *stubLeadRepo, campaigns *stubCampaignResolver, companies *stubCompanyReader) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Campaigns: campaigns,
		Companies: companies,
		DB:        &stubTxRunner{},
		ScanCfg:   config.ScanConfig{RedirectBaseURL: "https://hangrmap.app/offer"},
	})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}
	return svc
}

func TestService_RecordScanCreatesLeadAndBumpsCounters(t *testing.T) {
	companyID := uuid.New()
	campaign := &models.Campaign{ID: uuid.New(), CompanyID: companyID, QRToken: "tok123"}
	repo := &stubLeadRepo{}
	campaigns := &stubCampaignResolver{campaign: campaign}
	landing := "https://acmehangers.com/offer"
	companies := &stubCompanyReader{company: &models.Company{ID: companyID, LandingURL: &landing}}
	svc := newTestService(t, repo, campaigns, companies)

	result, err := svc.RecordScan(context.Background(), " tok123 ")
	if err != nil {
		t.Fatalf("record scan: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one lead created")
	}
	created := repo.created[0]
	if created.CompanyID != companyID || created.CampaignID != campaign.ID || created.SourceQR != "tok123" {
		t.Fatalf("unexpected lead dto: %+v", created)
	}
	if result.Lead.Status != enums.LeadStatusNew {
		t.Fatalf("expected new lead status, got %s", result.Lead.Status)
	}

	if len(campaigns.bumps) != 1 {
		t.Fatalf("expected one stats bump")
	}
	bump := campaigns.bumps[0]
	if bump.id != campaign.ID || bump.drops != 0 || bump.scans != 1 || bump.leads != 1 {
		t.Fatalf("unexpected stats bump: %+v", bump)
	}

	if result.RedirectURL != landing {
		t.Fatalf("expected company landing url, got %q", result.RedirectURL)
	}
}

func TestService_RecordScanRedirectFallback(t *testing.T) {
	companyID := uuid.New()
	campaign := &models.Campaign{ID: uuid.New(), CompanyID: companyID, QRToken: "tok123"}
	svc := newTestService(t, &stubLeadRepo{}, &stubCampaignResolver{campaign: campaign}, &stubCompanyReader{})

	result, err := svc.RecordScan(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("record scan: %v", err)
	}
	if result.RedirectURL != "https://hangrmap.app/offer" {
		t.Fatalf("expected configured fallback redirect, got %q", result.RedirectURL)
	}
}

func TestService_RecordScanUnknownToken(t *testing.T) {
	svc := newTestService(t, &stubLeadRepo{}, &stubCampaignResolver{}, &stubCompanyReader{})

	_, err := svc.RecordScan(context.Background(), "nope")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = svc.RecordScan(context.Background(), "   ")
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank token, got %v", err)
	}
}

func TestService_UpdateAppliesFields(t *testing.T) {
	companyID := uuid.New()
	lead := &models.Lead{ID: uuid.New(), CompanyID: companyID, Status: enums.LeadStatusNew}
	repo := &stubLeadRepo{byID: lead}
	svc := newTestService(t, repo, &stubCampaignResolver{}, &stubCompanyReader{})

	status := enums.LeadStatusContacted
	name := "Dana"
	out, err := svc.Update(context.Background(), companyID, lead.ID, UpdateInput{
		Status: &status,
		Name:   &name,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.Status != enums.LeadStatusContacted {
		t.Fatalf("expected contacted status, got %s", out.Status)
	}
	if out.Name == nil || *out.Name != "Dana" {
		t.Fatalf("expected name applied, got %v", out.Name)
	}
	if len(repo.updated) != 1 {
		t.Fatalf("expected update persisted")
	}
}

func TestService_UpdateRejectsInvalidStatus(t *testing.T) {
	lead := &models.Lead{ID: uuid.New(), Status: enums.LeadStatusNew}
	svc := newTestService(t, &stubLeadRepo{byID: lead}, &stubCampaignResolver{}, &stubCompanyReader{})

	bad := enums.LeadStatus("bogus")
	_, err := svc.Update(context.Background(), uuid.New(), lead.ID, UpdateInput{Status: &bad})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_UpdateNotFound(t *testing.T) {
	svc := newTestService(t, &stubLeadRepo{}, &stubCampaignResolver{}, &stubCompanyReader{})

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateInput{})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
