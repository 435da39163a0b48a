package billing

import (
	"github.com/shopspring/decimal"

	"github.com/hangrmap/hangrmap-backend/pkg/config"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
)

// PlanDTO describes one purchasable subscription tier.
type PlanDTO struct {
	Type         enums.PlanType  `json:"type"`
	Name         string          `json:"name"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	MaxCrewUsers int             `json:"max_crew_users"`
	PriceID      string          `json:"-"`
}

// Catalog is the fixed plan lineup. Stripe price IDs come from configuration
// so test and live environments can point at different prices.
func Catalog(cfg config.StripeConfig) []PlanDTO {
	return []PlanDTO{
		{
			Type:         enums.PlanTypeSolo,
			Name:         "Solo",
			MonthlyPrice: decimal.NewFromInt(29),
			MaxCrewUsers: 1,
			PriceID:      cfg.PriceIDSolo,
		},
		{
			Type:         enums.PlanTypeCrew,
			Name:         "Crew",
			MonthlyPrice: decimal.NewFromInt(79),
			MaxCrewUsers: 10,
			PriceID:      cfg.PriceIDCrew,
		},
		{
			Type:         enums.PlanTypeAgency,
			Name:         "Agency",
			MonthlyPrice: decimal.NewFromInt(199),
			MaxCrewUsers: 50,
			PriceID:      cfg.PriceIDAgency,
		},
	}
}

// PlanByType looks up a catalog entry, returning false when the plan type is
// unknown.
func PlanByType(cfg config.StripeConfig, plan enums.PlanType) (PlanDTO, bool) {
	for _, p := range Catalog(cfg) {
		if p.Type == plan {
			return p, true
		}
	}
	return PlanDTO{}, false
}
