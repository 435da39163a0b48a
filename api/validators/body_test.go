package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/hangrmap/hangrmap-backend/pkg/errors"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func jsonRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestDecodeJSONBody(t *testing.T) {
	var dest loginBody
	err := DecodeJSONBody(jsonRequest(`{"email":"owner@acme.com","password":"hunter2!!"}`), &dest)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dest.Email != "owner@acme.com" || dest.Password != "hunter2!!" {
		t.Fatalf("unexpected decode result %+v", dest)
	}
}

func TestDecodeJSONBody_RejectsMalformedJSON(t *testing.T) {
	var dest loginBody
	err := DecodeJSONBody(jsonRequest(`{"email":`), &dest)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBody_RejectsUnknownFields(t *testing.T) {
	var dest loginBody
	err := DecodeJSONBody(jsonRequest(`{"email":"owner@acme.com","password":"hunter2!!","extra":true}`), &dest)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}
}

func TestDecodeJSONBody_FieldErrorsUseJSONNames(t *testing.T) {
	var dest loginBody
	err := DecodeJSONBody(jsonRequest(`{"email":"not-an-email","password":"short"}`), &dest)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected details map, got %T", appErr.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email detail %q", details["email"])
	}
	if details["password"] != "must be at least 8" {
		t.Fatalf("unexpected password detail %q", details["password"])
	}
}

func TestDecodeJSONBody_RequiredFields(t *testing.T) {
	var dest loginBody
	err := DecodeJSONBody(jsonRequest(`{}`), &dest)
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected details map, got %T", appErr.Details())
	}
	if details["email"] != "is required" || details["password"] != "is required" {
		t.Fatalf("unexpected details %v", details)
	}
}
