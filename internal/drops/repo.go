package drops

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
)

// Repository handles drop persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to drop operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx persists a drop inside the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, dto CreateDropDTO) (*models.Drop, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	drop := dto.ToModel()
	if err := tx.Create(drop).Error; err != nil {
		return nil, err
	}
	return drop, nil
}

// ListByCompany returns the company's drops, newest first.
func (r *Repository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Drop, error) {
	var out []models.Drop
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListByCampaign returns a single campaign's drops, newest first.
func (r *Repository) ListByCampaign(ctx context.Context, companyID, campaignID uuid.UUID) ([]models.Drop, error) {
	var out []models.Drop
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND campaign_id = ?", companyID, campaignID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
