package insights

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hangrmap/hangrmap-backend/internal/analytics"
	"github.com/hangrmap/hangrmap-backend/internal/drops"
	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
)

// InsightDTO is the model-generated read on a campaign's numbers.
type InsightDTO struct {
	CampaignID      string   `json:"campaign_id"`
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// Service generates AI-written campaign insights.
type Service interface {
	CampaignInsights(ctx context.Context, companyID, campaignID uuid.UUID) (*InsightDTO, error)
}

type campaignReader interface {
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*models.Campaign, error)
}

type dropLister interface {
	ListByCampaign(ctx context.Context, companyID, campaignID uuid.UUID) ([]models.Drop, error)
}

type llmClient interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (*insightPayload, error)
}

type service struct {
	campaigns campaignReader
	drops     dropLister
	llm       llmClient
}

// ServiceParams bundles the dependencies required to build the insight service.
type ServiceParams struct {
	Campaigns campaignReader
	Drops     dropLister
	LLM       llmClient
}

// NewService builds the insight service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Campaigns == nil {
		return nil, fmt.Errorf("campaign reader is required")
	}
	if params.Drops == nil {
		return nil, fmt.Errorf("drop lister is required")
	}
	if params.LLM == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	return &service{campaigns: params.Campaigns, drops: params.Drops, llm: params.LLM}, nil
}

// CampaignInsights summarizes a campaign's performance through the model.
// Without a configured API key the call fails as a dependency error rather
// than fabricating output.
func (s *service) CampaignInsights(ctx context.Context, companyID, campaignID uuid.UUID) (*InsightDTO, error) {
	if !s.llm.Configured() {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "insights are not configured")
	}

	campaign, err := s.campaigns.FindByID(ctx, companyID, campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load campaign")
	}

	dropRows, err := s.drops.ListByCampaign(ctx, companyID, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list drops")
	}

	prompt := buildPrompt(campaign, drops.FromModels(dropRows))
	reply, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate insights")
	}

	return &InsightDTO{
		CampaignID:      campaign.ID.String(),
		Summary:         reply.Summary,
		Recommendations: reply.Recommendations,
	}, nil
}

func buildPrompt(campaign *models.Campaign, dropDTOs []drops.DropDTO) string {
	counts := analytics.StatusCounts(dropDTOs)
	conversion := analytics.ConversionRate(int(campaign.Stats.Leads), int(campaign.Stats.TotalDrops))

	prompt := fmt.Sprintf(
		"Campaign %q targeting %q.\nTotal drops: %d\nQR scans: %d\nLeads: %d\nConversion rate: %s%%\n",
		campaign.Name, campaign.TargetNeighborhood,
		campaign.Stats.TotalDrops, campaign.Stats.Scans, campaign.Stats.Leads, conversion,
	)
	order := []enums.DropStatus{
		enums.DropStatusDropped,
		enums.DropStatusSkipped,
		enums.DropStatusNoSoliciting,
		enums.DropStatusExistingClient,
	}
	for _, status := range order {
		prompt += fmt.Sprintf("Drops with status %s: %d\n", status, counts[status])
	}
	return prompt
}
