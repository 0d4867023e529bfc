package http

import (
	"net/http"

	"github.com/aussiebroadwan/noteful/internal/auth/domain"
	"github.com/aussiebroadwan/noteful/internal/auth/service"
	"github.com/aussiebroadwan/noteful/pkg/authsdk"
	"github.com/aussiebroadwan/noteful/pkg/httpx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleCreate registers a new account.
//
//	@Summary		Register user
//	@Description	Creates an account. Passwords must be 8 to 72 characters and neither
//	@Description	username nor password may start or end with whitespace.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			user	body		authsdk.CreateUserRequest	true	"New account"
//	@Success		201		{object}	authsdk.User				"Created user"
//	@Header			201		{string}	Location					"/api/users/{id}"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Username already exists or malformed body"
//	@Failure		422		{object}	authsdk.ErrorResponse		"Validation error"
//	@Failure		429		{object}	authsdk.ErrorResponse		"Rate limit exceeded"
//	@Failure		500		{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/api/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body map[string]any
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		writeBadRequest(w, "Malformed JSON body")
		return
	}

	newUser, err := service.ParseNewUser(body)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	user, err := h.UserService.CreateUser(ctx, newUser)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	w.Header().Set("Location", "/api/users/"+user.ID)
	httpx.WriteJSON(w, http.StatusCreated, toUser(user))
}

// HandleList lists every account.
//
//	@Summary		List users
//	@Description	Returns all accounts ordered by username. Password digests are never included.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{array}		authsdk.User			"Users"
//	@Failure		429	{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/api/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.UserService.ListUsers(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	out := make([]authsdk.User, 0, len(users))
	for _, u := range users {
		out = append(out, toUser(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet fetches one account.
//
//	@Summary		Get user
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		string					true	"User ID"
//	@Success		200	{object}	authsdk.User			"User"
//	@Failure		404	{object}	authsdk.ErrorResponse	"No such user"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/api/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.UserService.GetUserByID(ctx, r.PathValue("id"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}

func toUser(u domain.User) authsdk.User {
	p := u.Public()
	return authsdk.User{ID: p.ID, Username: p.Username, Fullname: p.Fullname}
}
