package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/hangrmap/hangrmap-backend/pkg/db/types"
)

// Campaign represents a door-hanger distribution campaign. Stats counters are
// maintained server-side alongside drop/scan writes.
type Campaign struct {
	ID                 uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID          uuid.UUID             `gorm:"column:company_id;type:uuid;not null;index"`
	Name               string                `gorm:"column:name;not null"`
	StartDate          time.Time             `gorm:"column:start_date;not null"`
	TargetNeighborhood string                `gorm:"column:target_neighborhood;not null"`
	QRToken            string                `gorm:"column:qr_token;not null;uniqueIndex"`
	QRCodeURL          string                `gorm:"column:qr_code_url;not null"`
	AssignedCrewIDs    dbtypes.UUIDArray     `gorm:"type:uuid[];column:assigned_crew_ids;not null;default:ARRAY[]::uuid[]"`
	Stats              dbtypes.CampaignStats `gorm:"column:stats;type:jsonb;not null;default:'{\"total_drops\":0,\"scans\":0,\"leads\":0}'"`
	CreatedAt          time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
