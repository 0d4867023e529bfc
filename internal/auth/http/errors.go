package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/noteful/internal/auth/service"
	"github.com/aussiebroadwan/noteful/internal/auth/store"
	"github.com/aussiebroadwan/noteful/pkg/authsdk"
	"github.com/aussiebroadwan/noteful/pkg/httpx"
	"github.com/aussiebroadwan/noteful/pkg/slogx"
)

func writeError(w http.ResponseWriter, code int, reason, message, location string) {
	httpx.WriteJSON(w, code, authsdk.ErrorResponse{
		Code:     code,
		Reason:   reason,
		Message:  message,
		Location: location,
	})
}

// writeUnauthorized is the only rejection login and refresh ever send, so a
// client cannot tell an unknown user from a wrong password or an expired
// token from a forged one.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="noteful"`)
	writeError(w, http.StatusUnauthorized, authsdk.ReasonAuthentication, "Unauthorized", "")
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, authsdk.ReasonBadRequest, message, "")
}

func writeInternal(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, authsdk.ReasonInternal, "Internal Server Error", "")
}

// writeServiceError maps a service error onto a response. Anything not
// recognised is logged and hidden behind a 500.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		writeUnauthorized(w)
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, authsdk.ReasonValidation, verr.Message, verr.Location)
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, authsdk.ReasonBadRequest, "The username already exists", "username")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "NotFoundError", "Not Found", "")
	default:
		slogx.FromContext(ctx).Error("request failed", slog.Any("err", err))
		writeInternal(w)
	}
}
