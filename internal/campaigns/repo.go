package campaigns

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
)

// Repository handles campaign persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to campaign operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new campaign row.
func (r *Repository) Create(ctx context.Context, dto CreateCampaignDTO) (*models.Campaign, error) {
	campaign := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(campaign).Error; err != nil {
		return nil, err
	}
	return campaign, nil
}

// FindByID loads a campaign scoped to the owning company.
func (r *Repository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&campaign).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// FindByQRToken resolves a campaign from a scanned token. Not company-scoped:
// the scanner is anonymous.
func (r *Repository) FindByQRToken(ctx context.Context, token string) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.WithContext(ctx).
		Where("qr_token = ?", token).
		First(&campaign).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// ListByCompany returns the company's campaigns, newest first.
func (r *Repository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Campaign, error) {
	var out []models.Campaign
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update saves the provided campaign.
func (r *Repository) Update(ctx context.Context, campaign *models.Campaign) error {
	if campaign == nil {
		return fmt.Errorf("campaign is required")
	}
	return r.db.WithContext(ctx).Save(campaign).Error
}

// BumpStats atomically adjusts the jsonb counters on the campaign row.
func (r *Repository) BumpStats(ctx context.Context, id uuid.UUID, drops, scans, leads int64) error {
	return bumpStats(r.db.WithContext(ctx), id, drops, scans, leads)
}

// BumpStatsWithTx adjusts the counters inside the provided transaction.
func (r *Repository) BumpStatsWithTx(tx *gorm.DB, id uuid.UUID, drops, scans, leads int64) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return bumpStats(tx, id, drops, scans, leads)
}

func bumpStats(db *gorm.DB, id uuid.UUID, drops, scans, leads int64) error {
	return db.Exec(`
		UPDATE campaigns SET stats = jsonb_build_object(
			'total_drops', COALESCE((stats->>'total_drops')::bigint, 0) + ?,
			'scans',       COALESCE((stats->>'scans')::bigint, 0) + ?,
			'leads',       COALESCE((stats->>'leads')::bigint, 0) + ?
		), updated_at = now()
		WHERE id = ?`, drops, scans, leads, id).Error
}

// DeleteCascadeWithTx removes the campaign with its drops and leads inside
// one transaction.
func (r *Repository) DeleteCascadeWithTx(tx *gorm.DB, companyID, id uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}

	if err := tx.Where("campaign_id = ? AND company_id = ?", id, companyID).
		Delete(&models.Drop{}).Error; err != nil {
		return err
	}

	if err := tx.Where("campaign_id = ? AND company_id = ?", id, companyID).
		Delete(&models.Lead{}).Error; err != nil {
		return err
	}

	res := tx.Where("id = ? AND company_id = ?", id, companyID).
		Delete(&models.Campaign{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
