package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/logging"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/metrics"
)

// Source selects which part of the request a Gate validates.
type Source string

const (
	Body   Source = "body"
	Query  Source = "query"
	Params Source = "params"
)

func (s Source) normalize() Source {
	if s == "" {
		return Body
	}
	return s
}

// maxBodyBytes limits the request body read by a body Gate.
const maxBodyBytes = 1 << 20

// failureResponse is the 400 body for a rejected request.
type failureResponse struct {
	Erro     string       `json:"erro"`
	Detalhes []FieldError `json:"detalhes,omitempty"`
}

// Gate returns middleware that validates one part of the request against
// schema, an Object rule. On success the request continues with the
// coerced value substituted in place of the original input and also
// available through Value. On failure the request is answered with 400
// and the next handler never runs.
func Gate(schema Rule, source Source) func(http.Handler) http.Handler {
	source = source.normalize()
	if schema.kind != KindObject {
		panic("validation: Gate requires an object schema")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			input, err := extract(r, schema, source)
			if err != nil {
				metrics.RecordValidationFailure(string(source))
				writeFailure(w, failureResponse{Erro: "JSON inválido"})
				return
			}

			res := Validate(schema, input)
			if !res.OK() {
				logging.FromContext(r.Context()).Debug("validation failed",
					"source", string(source),
					"method", r.Method,
					"path", r.URL.Path,
					"errors", len(res.Errors))
				metrics.RecordValidationFailure(string(source))
				writeFailure(w, failureResponse{Erro: "Validação falhou", Detalhes: res.Errors})
				return
			}

			value, _ := res.Value.(map[string]any)
			if err := inject(r, schema, source, value); err != nil {
				writeFailure(w, failureResponse{Erro: "JSON inválido"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), source, value)))
		})
	}
}

func extract(r *http.Request, schema Rule, source Source) (any, error) {
	switch source {
	case Query:
		q := r.URL.Query()
		out := make(map[string]any, len(q))
		for k, vs := range q {
			if len(vs) == 1 {
				out[k] = vs[0]
				continue
			}
			items := make([]any, len(vs))
			for i, s := range vs {
				items[i] = s
			}
			out[k] = items
		}
		return out, nil
	case Params:
		out := make(map[string]any, len(schema.fields))
		for _, f := range schema.fields {
			if v := r.PathValue(f.Name); v != "" {
				out[f.Name] = v
			}
		}
		return out, nil
	default:
		if r.Body == nil || r.Body == http.NoBody {
			return map[string]any{}, nil
		}
		data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		r.Body.Close()
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return map[string]any{}, nil
		}
		var v any
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if dec.More() {
			return nil, errors.New("trailing data after JSON value")
		}
		return v, nil
	}
}

func inject(r *http.Request, schema Rule, source Source, value map[string]any) error {
	switch source {
	case Query:
		q := url.Values{}
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch v := value[k].(type) {
			case []any:
				for _, item := range v {
					q.Add(k, formatScalar(item))
				}
			default:
				q.Set(k, formatScalar(v))
			}
		}
		r.URL.RawQuery = q.Encode()
	case Params:
		for _, f := range schema.fields {
			if v, ok := value[f.Name]; ok {
				r.SetPathValue(f.Name, formatScalar(v))
			}
		}
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		r.Body = io.NopCloser(bytes.NewReader(data))
		r.ContentLength = int64(len(data))
		r.Header.Set("Content-Length", strconv.Itoa(len(data)))
	}
	return nil
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func writeFailure(w http.ResponseWriter, body failureResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(body)
}
