package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/noteful/internal/auth/service"
	"github.com/aussiebroadwan/noteful/pkg/authsdk"
	"github.com/aussiebroadwan/noteful/pkg/httpx"
)

// Pinger is the part of the store readyz needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Reports whether the credential store answers and a token issuer is configured.
//	@Description	Returns 503 with per-check detail when either is missing.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, db Pinger, tokens *service.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{Database: "ok", Signer: "ok"}
		status, code := "ok", http.StatusOK

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if db == nil {
			checks.Database = "error: not configured"
			status, code = "degraded", http.StatusServiceUnavailable
		} else if err := db.Ping(ctx); err != nil {
			checks.Database = "error: unreachable"
			status, code = "degraded", http.StatusServiceUnavailable
		}

		if tokens == nil {
			checks.Signer = "error: not configured"
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, authsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
