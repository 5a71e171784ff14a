package handlers

import (
	"net/http"

	"foodflow/internal/domain"
)

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.svc.Tables.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	table, err := h.svc.Tables.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTableRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	table, err := h.svc.Tables.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, table)
}

func (h *Handler) UpdateTableStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req domain.TableStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	table, err := h.svc.Tables.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	if _, err := h.svc.Tables.Remove(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "table_id": id})
}
