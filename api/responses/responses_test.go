package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success envelope: %v", err)
	}
	if body.Data.(map[string]any)["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body.Data)
	}
}

func TestWriteListCarriesResultsAndPagination(t *testing.T) {
	w := httptest.NewRecorder()
	meta := pagination.Build(pagination.Params{Page: 2, Limit: 1}, 3)
	WriteList(w, []string{"b"}, 1, meta)

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["results"].(float64) != 1 {
		t.Fatalf("expected results 1, got %v", body["results"])
	}
	page := body["paginationResult"].(map[string]any)
	if page["nextPage"].(float64) != 3 || page["previousPage"].(float64) != 1 {
		t.Fatalf("unexpected pagination %v", page)
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "bad input").
		WithDetails(map[string]string{"field": "demo"})
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.StatusCode != http.StatusBadRequest || body.Status != "fail" || body.Message != "bad input" {
		t.Fatalf("unexpected envelope %+v", body)
	}
	if body.Errors == nil {
		t.Fatalf("expected field errors in public payload")
	}
}

func TestWriteErrorHidesInternalMessage(t *testing.T) {
	ExposeStack(false)
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Status != "error" || body.Message != "internal server error" {
		t.Fatalf("unexpected envelope %+v", body)
	}
	if body.Stack != nil {
		t.Fatalf("stack must be hidden when disabled")
	}
}

func TestWriteErrorExposesStackWhenEnabled(t *testing.T) {
	ExposeStack(true)
	defer ExposeStack(false)

	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, errors.New("record not found"), "There is no order for this id"))

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.StatusCode != http.StatusNotFound || len(body.Stack) != 2 {
		t.Fatalf("expected 404 with a two element chain, got %+v", body)
	}
}
