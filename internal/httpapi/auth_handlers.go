package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"hrops.org/internal/audit"
	"hrops.org/internal/auth"
	"hrops.org/internal/hr"
)

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

const tokenTTL = 15 * time.Minute

func (a *API) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req tokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.hrStore.Users(r.Context()).FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, hr.ErrNotFound) {
			// Same response as a bad password; no account enumeration.
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "authentication error")
		return
	}
	if user.Status != hr.UserStatusActive || auth.VerifyPassword(user.PasswordHash, req.Password) != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Role, user.EmployeeID, tokenTTL)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	a.auditRec.Record(r.Context(), audit.Entry{
		Entity:   "user",
		EntityID: user.ID,
		Action:   "login",
		ActorID:  user.ID,
		Detail:   map[string]any{"email": email},
	})

	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		Role:      string(user.Role),
		ExpiresAt: time.Now().UTC().Add(tokenTTL),
	})
}
