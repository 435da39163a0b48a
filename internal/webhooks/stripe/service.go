package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/hangrmap/hangrmap-backend/internal/billing"
	"github.com/hangrmap/hangrmap-backend/pkg/config"
	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
)

type companyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
}

// ServiceParams bundles the dependencies required to build the webhook service.
type ServiceParams struct {
	Companies companyRepository
	StripeCfg config.StripeConfig
}

// Service applies Stripe subscription lifecycle events to the owning company
// row. Companies carry billing state directly; there is no separate
// subscriptions table.
type Service struct {
	companies companyRepository
	cfg       config.StripeConfig
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Companies == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "company repo required")
	}
	return &Service{companies: params.Companies, cfg: params.StripeCfg}, nil
}

// HandleEvent routes a verified event. Unknown event types are acknowledged
// without action so the endpoint can subscribe broadly.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
		}
		return s.applyCheckoutCompleted(ctx, &session)
	case stripe.EventTypeCustomerSubscriptionCreated,
		stripe.EventTypeCustomerSubscriptionUpdated,
		stripe.EventTypeCustomerSubscriptionDeleted:
		var stripeSub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode subscription event")
		}
		return s.syncSubscription(ctx, &stripeSub, event.Type == stripe.EventTypeCustomerSubscriptionDeleted)
	default:
		return nil
	}
}

// applyCheckoutCompleted pins the Stripe customer and subscription IDs onto
// the company named by the checkout's client reference.
func (s *Service) applyCheckoutCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	if session.ClientReferenceID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "client reference id missing")
	}
	companyID, err := uuid.Parse(session.ClientReferenceID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse client reference id")
	}

	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load company")
	}

	if session.Customer != nil && session.Customer.ID != "" {
		id := session.Customer.ID
		company.StripeCustomerID = &id
	}
	if session.Subscription != nil && session.Subscription.ID != "" {
		id := session.Subscription.ID
		company.StripeSubscriptionID = &id
	}

	if err := s.companies.Update(ctx, company); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist checkout result")
	}
	return nil
}

// syncSubscription copies the subscription's plan and status onto the owning
// company. Deleted subscriptions force canceled regardless of the payload's
// status field.
func (s *Service) syncSubscription(ctx context.Context, stripeSub *stripe.Subscription, deleted bool) error {
	if stripeSub == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "subscription is required")
	}

	company, err := s.resolveCompany(ctx, stripeSub)
	if err != nil {
		return err
	}

	subID := stripeSub.ID
	company.StripeSubscriptionID = &subID

	if plan, ok := s.planFromSubscription(stripeSub); ok {
		company.PlanType = plan
	}

	if deleted {
		company.SubscriptionStatus = enums.SubscriptionStatusCanceled
	} else {
		company.SubscriptionStatus = mapSubscriptionStatus(stripeSub.Status)
	}

	if err := s.companies.Update(ctx, company); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist subscription state")
	}
	return nil
}

// resolveCompany prefers the company_id metadata stamped at checkout, then
// falls back to the Stripe customer ID.
func (s *Service) resolveCompany(ctx context.Context, stripeSub *stripe.Subscription) (*models.Company, error) {
	if raw, ok := stripeSub.Metadata["company_id"]; ok && raw != "" {
		companyID, err := uuid.Parse(raw)
		if err == nil {
			company, err := s.companies.FindByID(ctx, companyID)
			if err == nil {
				return company, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load company")
			}
		}
	}

	if stripeSub.Customer == nil || stripeSub.Customer.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription has no customer")
	}
	company, err := s.companies.FindByStripeCustomerID(ctx, stripeSub.Customer.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found for customer")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load company by customer")
	}
	return company, nil
}

// planFromSubscription reverse-maps the subscription's price onto the plan
// catalog, falling back to the plan_type metadata stamped at checkout.
func (s *Service) planFromSubscription(stripeSub *stripe.Subscription) (enums.PlanType, bool) {
	if priceID := firstPriceID(stripeSub); priceID != "" {
		for _, p := range billing.Catalog(s.cfg) {
			if p.PriceID == priceID {
				return p.Type, true
			}
		}
	}
	if raw, ok := stripeSub.Metadata["plan_type"]; ok {
		if plan, err := enums.ParsePlanType(raw); err == nil {
			return plan, true
		}
	}
	return "", false
}

func firstPriceID(sub *stripe.Subscription) string {
	if sub == nil || sub.Items == nil || len(sub.Items.Data) == 0 {
		return ""
	}
	if sub.Items.Data[0].Price != nil {
		return sub.Items.Data[0].Price.ID
	}
	return ""
}

func mapSubscriptionStatus(status stripe.SubscriptionStatus) enums.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusActive:
		return enums.SubscriptionStatusActive
	case stripe.SubscriptionStatusTrialing:
		return enums.SubscriptionStatusTrialing
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return enums.SubscriptionStatusPastDue
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusIncompleteExpired:
		return enums.SubscriptionStatusCanceled
	case stripe.SubscriptionStatusIncomplete:
		return enums.SubscriptionStatusIncomplete
	default:
		return enums.SubscriptionStatusIncomplete
	}
}
