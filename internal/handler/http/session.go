// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

package http

import (
	"encoding/json"
	"net/http"

	"github.com/arenvest/crm/internal/auth"
	"github.com/arenvest/crm/internal/logger"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Tier  string `json:"tier"`
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var body signInRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Err(err).Str("func", "*Handler.signIn").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	if body.Email == "" || body.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	principal, err := h.provider.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		log.Err(err).Str("func", "*Handler.signIn").Msg("sign in failed")
		http.Error(w, "sign in failed", statusFromError(err))
		return
	}

	h.writeJSON(w, http.StatusOK, sessionResponse{
		UID:   principal.UID,
		Email: principal.Email,
		Tier:  auth.ResolveTier(r.Context(), h.provider, h.logger).String(),
	})
}

func (h *Handler) signOut(w http.ResponseWriter, _ *http.Request) {
	h.provider.SignOut()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	principal := h.provider.CurrentPrincipal()
	if principal == nil {
		http.Error(w, "no active session", http.StatusUnauthorized)
		return
	}

	h.writeJSON(w, http.StatusOK, sessionResponse{
		UID:   principal.UID,
		Email: principal.Email,
		Tier:  auth.ResolveTier(r.Context(), h.provider, h.logger).String(),
	})
}
