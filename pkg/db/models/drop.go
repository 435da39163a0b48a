package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hangrmap/hangrmap-backend/pkg/enums"
)

// Drop records one door visit. CampaignID is nullable: a drop recorded with
// no campaign selected is kept and reported unattributed.
type Drop struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID  uuid.UUID        `gorm:"column:company_id;type:uuid;not null;index"`
	UserID     uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	CampaignID *uuid.UUID       `gorm:"column:campaign_id;type:uuid;index"`
	Latitude   float64          `gorm:"column:latitude;not null"`
	Longitude  float64          `gorm:"column:longitude;not null"`
	Status     enums.DropStatus `gorm:"column:status;type:text;not null"`
	Address    string           `gorm:"column:address;not null"`
	ImageURL   *string          `gorm:"column:image_url"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
