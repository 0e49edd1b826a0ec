package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
)

func TestIsMobile(t *testing.T) {
	cases := map[string]bool{
		"01012345678":    true,
		"+201512345678":  true,
		"0512345678":     true,
		"+966512345678":  true,
		"01312345678":    false,
		"0412345678":     false,
		"not-a-phone":    false,
		"+2010123456789": false,
	}
	for input, want := range cases {
		if got := IsMobile(input); got != want {
			t.Fatalf("IsMobile(%q) = %v, want %v", input, got, want)
		}
	}
}

type signupBody struct {
	Name    string  `json:"name" validate:"required,min=3"`
	Phone   *string `json:"phone" validate:"omitempty,mobile"`
	Confirm string  `json:"confirm" validate:"required"`
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"ab","phone":"123"}`))
	var body signupBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details := typed.Details().(map[string]string)
	if details["name"] != "must be at least 3" {
		t.Fatalf("unexpected name message %q", details["name"])
	}
	if !strings.Contains(details["phone"], "Egy and SA") {
		t.Fatalf("unexpected phone message %q", details["phone"])
	}
	if details["confirm"] != "is required" {
		t.Fatalf("unexpected confirm message %q", details["confirm"])
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"abc","confirm":"x","ratingsAverage":5}`))
	var body signupBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected unknown field rejection, got %v", err)
	}
}
