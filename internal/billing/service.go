package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/hangrmap/hangrmap-backend/pkg/config"
	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
)

// CheckoutDTO carries the hosted checkout redirect back to the caller.
type CheckoutDTO struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// SubscriptionDTO is the company's current billing state as stored locally.
// Stripe remains the source of truth; webhooks keep this in sync.
type SubscriptionDTO struct {
	PlanType             enums.PlanType           `json:"plan_type"`
	Status               enums.SubscriptionStatus `json:"status"`
	Entitled             bool                     `json:"entitled"`
	StripeCustomerID     string                   `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string                   `json:"stripe_subscription_id,omitempty"`
}

// Service exposes billing operations.
type Service interface {
	Plans() []PlanDTO
	CreateCheckout(ctx context.Context, companyID uuid.UUID, plan enums.PlanType) (*CheckoutDTO, error)
	Subscription(ctx context.Context, companyID uuid.UUID) (*SubscriptionDTO, error)
}

type companyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
}

type service struct {
	companies companyRepository
	stripe    StripeCheckoutClient
	cfg       config.StripeConfig
}

// ServiceParams bundles the dependencies required to build a billing service.
type ServiceParams struct {
	Companies companyRepository
	Stripe    StripeCheckoutClient
	Cfg       config.StripeConfig
}

// NewService builds a billing service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Companies == nil {
		return nil, fmt.Errorf("company repository is required")
	}
	if params.Stripe == nil {
		return nil, fmt.Errorf("stripe client is required")
	}
	return &service{
		companies: params.Companies,
		stripe:    params.Stripe,
		cfg:       params.Cfg,
	}, nil
}

func (s *service) Plans() []PlanDTO {
	return Catalog(s.cfg)
}

// CreateCheckout opens a Stripe-hosted subscription checkout for the company.
// The company ID rides along as the client reference so the webhook can
// attribute the completed session.
func (s *service) CreateCheckout(ctx context.Context, companyID uuid.UUID, plan enums.PlanType) (*CheckoutDTO, error) {
	entry, ok := PlanByType(s.cfg, plan)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown plan type")
	}
	if entry.PriceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "plan is not purchasable in this environment")
	}

	company, err := s.loadCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	customerID, err := s.ensureCustomer(ctx, company)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:          stripe.String(customerID),
		ClientReferenceID: stripe.String(company.ID.String()),
		SuccessURL:        stripe.String(s.cfg.SuccessURL),
		CancelURL:         stripe.String(s.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(entry.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"company_id": company.ID.String(),
				"plan_type":  plan.String(),
			},
		},
	}

	session, err := s.stripe.CreateCheckoutSession(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}

	return &CheckoutDTO{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}

// ensureCustomer returns the company's Stripe customer, creating and
// persisting one on first checkout.
func (s *service) ensureCustomer(ctx context.Context, company *models.Company) (string, error) {
	if company.StripeCustomerID != nil && *company.StripeCustomerID != "" {
		return *company.StripeCustomerID, nil
	}

	created, err := s.stripe.CreateCustomer(ctx, &stripe.CustomerParams{
		Name: stripe.String(company.Name),
		Metadata: map[string]string{
			"company_id": company.ID.String(),
		},
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stripe customer")
	}

	company.StripeCustomerID = &created.ID
	if err := s.companies.Update(ctx, company); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist stripe customer id")
	}
	return created.ID, nil
}

func (s *service) Subscription(ctx context.Context, companyID uuid.UUID) (*SubscriptionDTO, error) {
	company, err := s.loadCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	dto := &SubscriptionDTO{
		PlanType: company.PlanType,
		Status:   company.SubscriptionStatus,
		Entitled: company.SubscriptionStatus.IsEntitled(),
	}
	if company.StripeCustomerID != nil {
		dto.StripeCustomerID = *company.StripeCustomerID
	}
	if company.StripeSubscriptionID != nil {
		dto.StripeSubscriptionID = *company.StripeSubscriptionID
	}
	return dto, nil
}

func (s *service) loadCompany(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load company")
	}
	return company, nil
}
