package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hangrmap/hangrmap-backend/api/middleware"
	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
)

// actorIDs pulls the authenticated user and company identifiers out of the
// request context. Both are present on every authenticated route.
func actorIDs(r *http.Request) (userID, companyID uuid.UUID, err error) {
	rawUser := middleware.UserIDFromContext(r.Context())
	if rawUser == "" {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, parseErr := uuid.Parse(rawUser)
	if parseErr != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, parseErr, "invalid user id")
	}

	rawCompany := middleware.CompanyIDFromContext(r.Context())
	if rawCompany == "" {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company context missing")
	}
	companyID, parseErr = uuid.Parse(rawCompany)
	if parseErr != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, parseErr, "invalid company id")
	}
	return userID, companyID, nil
}
