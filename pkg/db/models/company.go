package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hangrmap/hangrmap-backend/pkg/enums"
)

// Company represents the canonical tenant model.
type Company struct {
	ID                   uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string                   `gorm:"column:name;not null"`
	PlanType             enums.PlanType           `gorm:"column:plan_type;type:text;not null;default:'solo'"`
	SubscriptionStatus   enums.SubscriptionStatus `gorm:"column:subscription_status;type:text;not null;default:'trialing'"`
	StripeCustomerID     *string                  `gorm:"column:stripe_customer_id;uniqueIndex"`
	StripeSubscriptionID *string                  `gorm:"column:stripe_subscription_id"`
	LandingURL           *string                  `gorm:"column:landing_url"`
	CreatedAt            time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
