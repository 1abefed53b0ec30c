package api

import (
	"net/http"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/domain"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/store"
)

const clienteNotFound = "Cliente não encontrado"

// ListClientes handles GET /api/clientes
func (h *Handler) ListClientes(w http.ResponseWriter, r *http.Request) {
	page, err := h.repo.ListClientes(r.Context(), listParams(r))
	if err != nil {
		writeStoreError(w, r, err, clienteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetCliente handles GET /api/clientes/{id}
func (h *Handler) GetCliente(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	c, err := h.repo.GetCliente(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, clienteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateCliente handles POST /api/clientes
func (h *Handler) CreateCliente(w http.ResponseWriter, r *http.Request) {
	var c domain.Cliente
	if err := decodeBody(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	created, err := h.repo.CreateCliente(r.Context(), &c)
	if err != nil {
		writeStoreError(w, r, err, clienteNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCliente handles PUT /api/clientes/{id}
func (h *Handler) UpdateCliente(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	var u store.ClienteUpdate
	if err := decodeBody(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	c, err := h.repo.UpdateCliente(r.Context(), id, &u)
	if err != nil {
		writeStoreError(w, r, err, clienteNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCliente handles DELETE /api/clientes/{id}
func (h *Handler) DeleteCliente(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "ID inválido")
		return
	}
	if err := h.repo.DeleteCliente(r.Context(), id); err != nil {
		writeStoreError(w, r, err, clienteNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
