package controllers

import (
	"net/http"

	"github.com/hangrmap/hangrmap-backend/api/responses"
	"github.com/hangrmap/hangrmap-backend/api/validators"
	"github.com/hangrmap/hangrmap-backend/internal/billing"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
	"github.com/hangrmap/hangrmap-backend/pkg/logger"
)

// BillingPlans lists the purchasable plan lineup.
func BillingPlans(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Plans())
	}
}

type checkoutRequest struct {
	Plan string `json:"plan" validate:"required"`
}

// BillingCheckout opens a Stripe-hosted checkout for the requested plan.
func BillingCheckout(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		_, companyID, err := actorIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := enums.ParsePlanType(body.Plan)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plan"))
			return
		}

		result, err := svc.CreateCheckout(r.Context(), companyID, plan)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// BillingSubscription returns the company's current billing state.
func BillingSubscription(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		_, companyID, err := actorIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Subscription(r.Context(), companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
