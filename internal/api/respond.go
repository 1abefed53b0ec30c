package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/logging"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/store"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/validation"
)

type errorResponse struct {
	Erro string `json:"erro"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Erro: msg})
}

// writeStoreError maps repository errors to HTTP responses. notFound is the
// message used for store.ErrNotFound.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "Registro já existe")
	default:
		logging.FromContext(r.Context()).Error("store operation failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
			"error", err)
		writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
	}
}

// pathID returns the {id} validated by the params gate.
func pathID(r *http.Request) (int64, bool) {
	if v, ok := validation.Value(r.Context(), validation.Params)["id"].(float64); ok {
		return int64(v), true
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// listParams reads the pagination values validated by the query gate.
func listParams(r *http.Request) store.ListParams {
	q := validation.Value(r.Context(), validation.Query)
	p := store.ListParams{}
	if v, ok := q["page"].(float64); ok {
		p.Page = int(v)
	}
	if v, ok := q["limit"].(float64); ok {
		p.Limit = int(v)
	}
	if v, ok := q["busca"].(string); ok {
		p.Busca = v
	}
	return p
}

// decodeBody reads the body the validation gate left in place.
func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
