package api

import (
	"net/http"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/domain"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/store"
)

const pecaNotFound = "Peça não encontrada"

// ListPecas handles GET /api/pecas
func (h *Handler) ListPecas(w http.ResponseWriter, r *http.Request) {
	page, err := h.repo.ListPecas(r.Context(), listParams(r))
	if err != nil {
		writeStoreError(w, r, err, pecaNotFound)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetPeca handles GET /api/pecas/{id}
func (h *Handler) GetPeca(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	c, err := h.repo.GetPeca(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, pecaNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreatePeca handles POST /api/pecas
func (h *Handler) CreatePeca(w http.ResponseWriter, r *http.Request) {
	var c domain.Peca
	if err := decodeBody(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	created, err := h.repo.CreatePeca(r.Context(), &c)
	if err != nil {
		writeStoreError(w, r, err, pecaNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdatePeca handles PUT /api/pecas/{id}
func (h *Handler) UpdatePeca(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	var u store.PecaUpdate
	if err := decodeBody(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	c, err := h.repo.UpdatePeca(r.Context(), id, &u)
	if err != nil {
		writeStoreError(w, r, err, pecaNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeletePeca handles DELETE /api/pecas/{id}
func (h *Handler) DeletePeca(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	if err := h.repo.DeletePeca(r.Context(), id); err != nil {
		writeStoreError(w, r, err, pecaNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
