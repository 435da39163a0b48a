package leads

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
)

// Repository handles lead persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to lead operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx persists a lead inside the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, dto CreateLeadDTO) (*models.Lead, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	lead := dto.ToModel()
	if err := tx.Create(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}

// FindByID loads a lead scoped to the owning company.
func (r *Repository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// ListByCompany returns the company's leads, newest first.
func (r *Repository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Lead, error) {
	var out []models.Lead
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update saves the provided lead.
func (r *Repository) Update(ctx context.Context, lead *models.Lead) error {
	if lead == nil {
		return fmt.Errorf("lead is required")
	}
	return r.db.WithContext(ctx).Save(lead).Error
}
