package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync/atomic"

	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
	"github.com/angelmondragon/shopfront-backend/pkg/pagination"
	"github.com/angelmondragon/shopfront-backend/pkg/types"
)

var exposeStack atomic.Bool

// ExposeStack toggles the error chain in error bodies. It is enabled outside production.
func ExposeStack(enabled bool) {
	exposeStack.Store(enabled)
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// WriteMessage sends data together with a human readable mess field.
func WriteMessage(w http.ResponseWriter, status int, mess string, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Mess: mess, Data: data})
}

// WriteToken sends data with a freshly issued access token.
func WriteToken(w http.ResponseWriter, status int, data any, token string) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data, Token: token})
}

// WriteList sends one page of items with the result count and page metadata.
func WriteList(w http.ResponseWriter, items any, count int, meta pagination.Meta) {
	writeJSON(w, http.StatusOK, types.SuccessEnvelope{
		Results:          &count,
		PaginationResult: &meta,
		Data:             items,
	})
}

// WriteCount sends an unpaginated collection with its size.
func WriteCount(w http.ResponseWriter, mess string, items any, count int) {
	writeJSON(w, http.StatusOK, types.SuccessEnvelope{Mess: mess, Results: &count, Data: items})
}

// WriteEnvelope sends a fully composed success body.
func WriteEnvelope(w http.ResponseWriter, status int, envelope types.SuccessEnvelope) {
	writeJSON(w, status, envelope)
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	msg := meta.PublicMessage
	if meta.HTTPStatus < http.StatusInternalServerError {
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := types.ErrorEnvelope{
		StatusCode: meta.HTTPStatus,
		Status:     pkgerrors.Status(typed.Code()),
		Message:    msg,
	}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Errors = details
		}
	}

	dump := pkgerrors.Dump(err)
	if exposeStack.Load() {
		payload.Stack = dump.Chain
	}

	if logg != nil {
		fields := dump.Fields()
		fields["status_code"] = meta.HTTPStatus
		ctx = logg.WithFields(ctx, fields)
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
