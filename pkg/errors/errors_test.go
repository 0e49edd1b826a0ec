package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestStatusSplitsClientAndServerErrors(t *testing.T) {
	if got := Status(CodeNotFound); got != "fail" {
		t.Fatalf("expected fail for not found, got %q", got)
	}
	if got := Status(CodeDependency); got != "error" {
		t.Fatalf("expected error for dependency, got %q", got)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	withDetails := base.WithDetails(map[string]any{"field": "foo"})
	if withDetails.Details() == nil {
		t.Fatalf("details should be preserved")
	}
	if base.Details() != nil {
		t.Fatalf("WithDetails must not mutate the receiver")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestSentinelMatchesThroughWrapping(t *testing.T) {
	sentinel := New(CodeNotFound, "Cart not found")
	err := fmt.Errorf("load: %w", New(CodeNotFound, "Cart not found"))
	if !stdErrors.Is(err, sentinel) {
		t.Fatalf("expected errors.Is to match equal code and message")
	}
	if stdErrors.Is(err, New(CodeNotFound, "Order not found")) {
		t.Fatalf("different messages must not match")
	}
	if !IsCode(err, CodeNotFound) {
		t.Fatalf("IsCode should see through wrapping")
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDumpCapturesStoreDetail(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_coupons_name", TableName: "coupons", Message: "duplicate key value"}
	err := Wrap(CodeConflict, fmt.Errorf("insert coupon: %w", pgErr), "coupon name already exists")

	d := Dump(err)
	if d.Code != CodeConflict {
		t.Fatalf("expected conflict code, got %s", d.Code)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d", len(d.Chain))
	}
	if d.Store == nil || d.Store.Driver != "pgx" || d.Store.Constraint != "uq_coupons_name" {
		t.Fatalf("unexpected store detail %+v", d.Store)
	}
	if got := d.Fields()["db_table"]; got != "coupons" {
		t.Fatalf("expected db_table field, got %v", got)
	}
}

func TestDumpWithoutStoreError(t *testing.T) {
	d := Dump(stdErrors.New("boom"))
	if d.Store != nil {
		t.Fatalf("expected no store detail")
	}
	if _, ok := d.Fields()["db_code"]; ok {
		t.Fatalf("db fields must be absent")
	}
}
