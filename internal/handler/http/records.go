// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arenvest/crm/internal/logger"
	"github.com/arenvest/crm/models"
)

type listRecordsResponse struct {
	Records []models.Record `json:"records"`
	Loading bool            `json:"loading"`
	Error   string          `json:"error,omitempty"`
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	// ?field=&value= narrows the listing by exact match
	if field := r.URL.Query().Get("field"); field != "" {
		h.listRecordsBy(w, r, collection, field, r.URL.Query().Get("value"))
		return
	}

	records := h.services.Records.FetchAll(r.Context(), collection)
	h.writeCollection(w, collection, records)
}

func (h *Handler) listRecordsBy(w http.ResponseWriter, r *http.Request, collection, field, value string) {
	log := logger.FromRequest(r)

	records, err := h.services.Records.FetchBy(r.Context(), collection, field, value)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listRecordsBy").Str("collection", collection).Msg("error filtering records")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	h.writeJSON(w, http.StatusOK, listRecordsResponse{Records: records})
}

func (h *Handler) createRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	collection := chi.URLParam(r, "collection")

	var data models.Record
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		log.Err(err).Str("func", "*Handler.createRecord").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	created, err := h.services.Records.Create(r.Context(), collection, data)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createRecord").Str("collection", collection).Msg("error creating record")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	rec, err := h.services.Records.FetchByID(r.Context(), collection, id)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getRecord").Str("collection", collection).Msg("error fetching record")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}
	if rec == nil {
		// a local miss resolves to nil without an error
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	var partial models.Record
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		log.Err(err).Str("func", "*Handler.updateRecord").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	updated, err := h.services.Records.Update(r.Context(), collection, id, partial)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateRecord").Str("collection", collection).Msg("error updating record")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	if err := h.services.Records.Remove(r.Context(), collection, id); err != nil {
		log.Err(err).Str("func", "*Handler.deleteRecord").Str("collection", collection).Msg("error deleting record")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) refreshCollection(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	records := h.services.Records.Refresh(r.Context(), collection)
	h.writeCollection(w, collection, records)
}

// writeCollection reports the listing together with the collection's
// observable state, so callers can distinguish an empty collection from a
// swallowed refresh failure.
func (h *Handler) writeCollection(w http.ResponseWriter, collection string, records []models.Record) {
	state := h.services.Records.State(collection)

	resp := listRecordsResponse{
		Records: records,
		Loading: state.Loading,
	}
	if state.LastErr != nil {
		resp.Error = state.LastErr.Error()
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Err(err).Str("func", "*Handler.writeJSON").Msg("error encoding response")
	}
}
