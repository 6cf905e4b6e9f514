package server

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/jmartin/resume-dash/internal/types"
	"github.com/jmartin/resume-dash/internal/validation"
)

type authSyncRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name,omitempty"`
	Provider string `json:"provider,omitempty" validate:"required"`
}

type authSyncResponse struct {
	User  *types.User `json:"user"`
	Token string      `json:"token"`
}

// handleAuthSync upserts the account row from an OAuth sign-in callback and
// issues an API token for subsequent calls. A bcrypt hash of the token is
// stored so it can be revoked server-side.
func (s *Server) handleAuthSync(w http.ResponseWriter, r *http.Request) {
	var req authSyncRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, err)
		return
	}
	if err := validation.Struct(&req); err != nil {
		s.handleError(w, &ErrBadRequest{Message: err.Error()})
		return
	}

	user, err := s.store.UpsertUser(r.Context(), req.Email, req.Name, req.Provider)
	if err != nil {
		s.handleError(w, err)
		return
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		s.handleError(w, err)
		return
	}

	// bcrypt caps input at 72 bytes and tokens are longer, so hash a
	// fixed-size digest of the token
	digest := sha256.Sum256([]byte(token))
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(digest[:])), bcrypt.DefaultCost)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := s.store.SetUserTokenHash(r.Context(), user.ID, string(hash)); err != nil {
		s.handleError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, authSyncResponse{User: user, Token: token})
}
