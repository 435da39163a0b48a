package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hangrmap/hangrmap-backend/pkg/enums"
)

// Lead is created when a recipient scans a campaign QR code.
type Lead struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID  uuid.UUID        `gorm:"column:company_id;type:uuid;not null;index"`
	CampaignID uuid.UUID        `gorm:"column:campaign_id;type:uuid;not null;index"`
	Status     enums.LeadStatus `gorm:"column:status;type:text;not null;default:'new'"`
	SourceQR   string           `gorm:"column:source_qr;not null"`
	Name       *string          `gorm:"column:name"`
	Phone      *string          `gorm:"column:phone"`
	Notes      *string          `gorm:"column:notes"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
