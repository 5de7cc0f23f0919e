package auth

import (
	"encoding/json"
	"log"
	"net/http"

	"easymoves/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	Tokens *TokenService
}

func NewHandler(tokens *TokenService) *Handler {
	return &Handler{Tokens: tokens}
}

// IssueToken signs the posted identity claims. The client is trusted to
// have authenticated the identity; authorization happens per request via
// the role guards.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var claims Claims
	if err := json.NewDecoder(r.Body).Decode(&claims); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if claims.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "email is required")
		return
	}

	token, err := h.Tokens.Issue(claims)
	if err != nil {
		log.Printf("IssueToken sign error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}
