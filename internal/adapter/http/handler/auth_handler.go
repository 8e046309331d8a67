package handler

import (
	"net/http"

	"github.com/iho/goraffle/internal/adapter/http/dto"
)

// AuthHandler handles identity endpoints
type AuthHandler struct{}

// NewAuthHandler creates a new auth handler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Me returns the identity the request was authenticated as.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, dto.IdentityResponse{
		ID:   caller.ID,
		Role: string(caller.Role),
	})
}
