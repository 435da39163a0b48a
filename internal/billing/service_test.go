package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/hangrmap/hangrmap-backend/pkg/config"
	"github.com/hangrmap/hangrmap-backend/pkg/db/models"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
)

type stubCompanyRepo struct {
	company *models.Company
	updated []*models.Company
	findErr error
}

func (s *stubCompanyRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.company, nil
}

func (s *stubCompanyRepo) Update(ctx context.Context, company *models.Company) error {
	s.updated = append(s.updated, company)
	return nil
}

type stubCheckoutClient struct {
	sessionParams  *stripe.CheckoutSessionParams
	customerParams *stripe.CustomerParams
	session        *stripe.CheckoutSession
	customer       *stripe.Customer
}

func (s *stubCheckoutClient) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	s.sessionParams = params
	return s.session, nil
}

func (s *stubCheckoutClient) CreateCustomer(ctx context.Context, params *stripe.CustomerParams) (*stripe.Customer, error) {
	s.customerParams = params
	return s.customer, nil
}

func testStripeConfig() config.StripeConfig {
	return config.StripeConfig{
		PriceIDSolo:   "price_solo",
		PriceIDCrew:   "price_crew",
		PriceIDAgency: "price_agency",
		SuccessURL:    "https://app.hangrmap.app/billing/success",
		CancelURL:     "https://app.hangrmap.app/billing/cancel",
	}
}

func TestCatalog_PlanLineup(t *testing.T) {
	plans := Catalog(testStripeConfig())
	if len(plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(plans))
	}
	if plans[0].Type != enums.PlanTypeSolo || plans[0].MaxCrewUsers != 1 {
		t.Fatalf("unexpected solo plan: %+v", plans[0])
	}
	if plans[1].MonthlyPrice.IntPart() != 79 || plans[1].MaxCrewUsers != 10 {
		t.Fatalf("unexpected crew plan: %+v", plans[1])
	}
	if plans[2].PriceID != "price_agency" || plans[2].MaxCrewUsers != 50 {
		t.Fatalf("unexpected agency plan: %+v", plans[2])
	}
}

func TestPlanByType_Lookup(t *testing.T) {
	cfg := testStripeConfig()
	plan, ok := PlanByType(cfg, enums.PlanTypeCrew)
	if !ok || plan.PriceID != "price_crew" {
		t.Fatalf("expected crew plan, got %+v ok=%v", plan, ok)
	}
	if _, ok := PlanByType(cfg, enums.PlanType("enterprise")); ok {
		t.Fatalf("expected unknown plan to miss")
	}
}

func TestService_CreateCheckoutBuildsSession(t *testing.T) {
	companyID := uuid.New()
	customerID := "cus_existing"
	repo := &stubCompanyRepo{company: &models.Company{
		ID:               companyID,
		Name:             "Acme Hangers",
		StripeCustomerID: &customerID,
	}}
	client := &stubCheckoutClient{session: &stripe.CheckoutSession{
		ID:  "cs_test",
		URL: "https://checkout.stripe.com/pay/cs_test",
	}}

	svc, err := NewService(ServiceParams{Companies: repo, Stripe: client, Cfg: testStripeConfig()})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}

	out, err := svc.CreateCheckout(context.Background(), companyID, enums.PlanTypeCrew)
	if err != nil {
		t.Fatalf("create checkout: %v", err)
	}
	if out.SessionID != "cs_test" || out.CheckoutURL == "" {
		t.Fatalf("unexpected checkout dto: %+v", out)
	}

	params := client.sessionParams
	if params == nil {
		t.Fatalf("expected checkout session params")
	}
	if *params.Mode != string(stripe.CheckoutSessionModeSubscription) {
		t.Fatalf("expected subscription mode, got %s", *params.Mode)
	}
	if *params.Customer != customerID {
		t.Fatalf("expected existing customer reused, got %s", *params.Customer)
	}
	if *params.ClientReferenceID != companyID.String() {
		t.Fatalf("expected company id as client reference")
	}
	if len(params.LineItems) != 1 || *params.LineItems[0].Price != "price_crew" {
		t.Fatalf("unexpected line items: %+v", params.LineItems)
	}
	if params.SubscriptionData.Metadata["company_id"] != companyID.String() {
		t.Fatalf("expected company id in subscription metadata")
	}
	if params.SubscriptionData.Metadata["plan_type"] != "crew" {
		t.Fatalf("expected plan type in subscription metadata")
	}
	if client.customerParams != nil {
		t.Fatalf("expected no customer creation when one exists")
	}
}

func TestService_CreateCheckoutCreatesCustomerOnce(t *testing.T) {
	companyID := uuid.New()
	repo := &stubCompanyRepo{company: &models.Company{ID: companyID, Name: "Acme Hangers"}}
	client := &stubCheckoutClient{
		session:  &stripe.CheckoutSession{ID: "cs_test", URL: "https://checkout.stripe.com/pay/cs_test"},
		customer: &stripe.Customer{ID: "cus_new"},
	}

	svc, err := NewService(ServiceParams{Companies: repo, Stripe: client, Cfg: testStripeConfig()})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}

	if _, err := svc.CreateCheckout(context.Background(), companyID, enums.PlanTypeSolo); err != nil {
		t.Fatalf("create checkout: %v", err)
	}
	if client.customerParams == nil {
		t.Fatalf("expected customer created")
	}
	if len(repo.updated) != 1 {
		t.Fatalf("expected customer id persisted on company")
	}
	if repo.company.StripeCustomerID == nil || *repo.company.StripeCustomerID != "cus_new" {
		t.Fatalf("expected stripe customer id pinned on company")
	}
}

func TestService_CreateCheckoutRejectsUnknownPlan(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Companies: &stubCompanyRepo{},
		Stripe:    &stubCheckoutClient{},
		Cfg:       testStripeConfig(),
	})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}

	_, err = svc.CreateCheckout(context.Background(), uuid.New(), enums.PlanType("enterprise"))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_CreateCheckoutMissingPriceID(t *testing.T) {
	cfg := testStripeConfig()
	cfg.PriceIDAgency = ""
	svc, err := NewService(ServiceParams{
		Companies: &stubCompanyRepo{},
		Stripe:    &stubCheckoutClient{},
		Cfg:       cfg,
	})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}

	_, err = svc.CreateCheckout(context.Background(), uuid.New(), enums.PlanTypeAgency)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestService_SubscriptionReflectsCompany(t *testing.T) {
	customerID := "cus_1"
	subscriptionID := "sub_1"
	repo := &stubCompanyRepo{company: &models.Company{
		ID:                   uuid.New(),
		PlanType:             enums.PlanTypeCrew,
		SubscriptionStatus:   enums.SubscriptionStatusActive,
		StripeCustomerID:     &customerID,
		StripeSubscriptionID: &subscriptionID,
	}}
	svc, err := NewService(ServiceParams{Companies: repo, Stripe: &stubCheckoutClient{}, Cfg: testStripeConfig()})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}

	dto, err := svc.Subscription(context.Background(), repo.company.ID)
	if err != nil {
		t.Fatalf("subscription: %v", err)
	}
	if dto.PlanType != enums.PlanTypeCrew || dto.Status != enums.SubscriptionStatusActive {
		t.Fatalf("unexpected subscription dto: %+v", dto)
	}
	if !dto.Entitled {
		t.Fatalf("expected active subscription to be entitled")
	}
	if dto.StripeCustomerID != "cus_1" || dto.StripeSubscriptionID != "sub_1" {
		t.Fatalf("expected stripe ids echoed: %+v", dto)
	}
}

func TestService_SubscriptionCompanyNotFound(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Companies: &stubCompanyRepo{findErr: gorm.ErrRecordNotFound},
		Stripe:    &stubCheckoutClient{},
		Cfg:       testStripeConfig(),
	})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}

	_, err = svc.Subscription(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}
