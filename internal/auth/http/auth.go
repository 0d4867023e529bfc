package http

import (
	"net/http"

	"github.com/aussiebroadwan/noteful/internal/auth/domain"
	"github.com/aussiebroadwan/noteful/internal/auth/service"
	"github.com/aussiebroadwan/noteful/pkg/authsdk"
	"github.com/aussiebroadwan/noteful/pkg/httpx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP exchanges a username and password for an auth token.
//
//	@Summary		Log in
//	@Description	Verifies a username and password and returns a signed auth token.
//	@Description	Unknown usernames and wrong passwords get the same 401 response.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		authsdk.LoginRequest	true	"Username and password"
//	@Success		200			{object}	authsdk.TokenResponse	"Signed auth token"
//	@Failure		400			{object}	authsdk.ErrorResponse	"Missing credentials"
//	@Failure		401			{object}	authsdk.ErrorResponse	"Invalid credentials"
//	@Failure		500			{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/api/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body map[string]any
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		writeBadRequest(w, "Missing credentials")
		return
	}

	username, _ := body["username"].(string)
	password, _ := body["password"].(string)
	if username == "" || password == "" {
		writeBadRequest(w, "Missing credentials")
		return
	}

	token, err := h.AuthService.Login(ctx, domain.Credentials{Username: username, Password: password})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{AuthToken: token})
}

type RefreshHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP exchanges a valid auth token for a fresh one.
//
//	@Summary		Refresh token
//	@Description	Issues a new auth token with the same user claims and a later expiry.
//	@Description	Expired, forged and malformed tokens all get the same 401 response.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.TokenResponse	"Fresh auth token"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/api/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw, ok := httpx.BearerToken(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	token, err := h.AuthService.Refresh(ctx, raw)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{AuthToken: token})
}
