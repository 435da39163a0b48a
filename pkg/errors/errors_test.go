package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestNew(t *testing.T) {
	err := New(CodeNotFound, "campaign not found")
	if err.Code() != CodeNotFound {
		t.Fatalf("expected code %q, got %q", CodeNotFound, err.Code())
	}
	if err.Message() != "campaign not found" {
		t.Fatalf("unexpected message %q", err.Message())
	}
	if err.Error() != "NOT_FOUND: campaign not found" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Fatalf("expected nil cause")
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "redis unavailable")
	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected wrapped cause reachable through Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("expected dependency code, got %q", err.Code())
	}

	if err := Wrap(CodeInternal, nil, "fallback"); err.Unwrap() != nil {
		t.Fatalf("expected nil-cause wrap to behave like New")
	}
}

func TestAs(t *testing.T) {
	inner := New(CodeConflict, "email already registered")
	wrapped := fmt.Errorf("registering user: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatalf("expected typed error recovered from wrap chain")
	}
	if typed.Code() != CodeConflict {
		t.Fatalf("expected conflict code, got %q", typed.Code())
	}

	if As(stdErrors.New("plain")) != nil {
		t.Fatalf("expected nil for untyped error")
	}
	if As(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed").WithDetails(map[string]string{"email": "is required"})
	details, ok := err.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected details map, got %T", err.Details())
	}
	if details["email"] != "is required" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestMetadataFor(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeIdempotency, http.StatusConflict},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if meta := MetadataFor(tc.code); meta.HTTPStatus != tc.status {
			t.Fatalf("code %q: expected status %d, got %d", tc.code, tc.status, meta.HTTPStatus)
		}
	}

	if meta := MetadataFor(Code("SOMETHING_ELSE")); meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected unknown code to fall back to internal metadata, got %d", meta.HTTPStatus)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	pgxUnique := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_idx"}
	if !IsUniqueViolation(pgxUnique) {
		t.Fatalf("expected pgx unique violation detected")
	}
	if !IsUniqueViolation(fmt.Errorf("create user: %w", pgxUnique)) {
		t.Fatalf("expected wrapped pgx unique violation detected")
	}
	if !IsUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Fatalf("expected pq unique violation detected")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("expected foreign key violation not matched")
	}
	if IsUniqueViolation(stdErrors.New("plain")) || IsUniqueViolation(nil) {
		t.Fatalf("expected non-pg errors not matched")
	}
}

func TestNilErrorAccessors(t *testing.T) {
	var err *Error
	if err.Code() != CodeInternal {
		t.Fatalf("expected nil error to report internal code")
	}
	if err.Message() != "" || err.Error() != "" || err.Details() != nil || err.Unwrap() != nil {
		t.Fatalf("expected zero values from nil error accessors")
	}
}
