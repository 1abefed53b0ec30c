package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/auth"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/cache"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/store"
)

type testEnv struct {
	handler http.Handler
	cache   *cache.ResponseCache
	store   *cache.MemoryStore
	repo    *store.MemoryStore
	token   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	jwtAuth, err := auth.NewJWTAuthenticator(auth.JWTAuthConfig{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("NewJWTAuthenticator: %v", err)
	}
	token, err := jwtAuth.Sign("42", "admin", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	cs := cache.NewMemoryStore()
	t.Cleanup(func() { cs.Close() })
	rc := cache.NewResponseCache(cs, cache.Options{})
	repo := store.NewMemoryStore()

	return &testEnv{
		handler: NewHandler(ServerConfig{
			Repo:           repo,
			Cache:          rc,
			CacheStore:     cs,
			Authenticators: []auth.Authenticator{jwtAuth},
		}),
		cache: rc,
		store: cs,
		repo:  repo,
		token: token,
	}
}

func (e *testEnv) do(method, target, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	e.cache.Wait()
	return rec
}

const validCliente = `{"nome_empresa":"Metalúrgica Edda","cnpj":"11222333000181","endereco":{"cidade":"Joinville","estado":"sc"}}`

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodGet, "/health", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "ok" || body["cache"] != "connected" {
		t.Fatalf("body = %v", body)
	}
	if rec.Header().Get(HeaderRequestID) == "" {
		t.Fatal("missing request id header")
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}
}

func TestCreateCliente_RequiresAuth(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodPost, "/api/clientes", validCliente, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Token não fornecido ou inválido") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestCreateCliente_Validation(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodPost, "/api/clientes", `{"cnpj":"123"}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Erro     string `json:"erro"`
		Detalhes []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"detalhes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Erro != "Validação falhou" || len(body.Detalhes) != 2 {
		t.Fatalf("body = %+v", body)
	}
	if body.Detalhes[0].Field != "nome_empresa" || body.Detalhes[0].Message != "Nome da empresa é obrigatório" {
		t.Fatalf("first detail = %+v", body.Detalhes[0])
	}
}

func TestClienteCRUD(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(http.MethodPost, "/api/clientes", validCliente, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", rec.Code, rec.Body.String())
	}
	var created map[string]any
	json.Unmarshal(rec.Body.Bytes(), &created)
	if created["id"] != float64(1) || created["ativo"] != true {
		t.Fatalf("created = %v", created)
	}
	if created["endereco"].(map[string]any)["estado"] != "SC" {
		t.Fatalf("estado not normalized: %v", created["endereco"])
	}

	if rec := e.do(http.MethodPost, "/api/clientes", validCliente, true); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", rec.Code)
	}

	rec = e.do(http.MethodPut, "/api/clientes/1", `{"telefone":"4733334444"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d body = %s", rec.Code, rec.Body.String())
	}
	var updated map[string]any
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated["telefone"] != "4733334444" || updated["nome_empresa"] != "Metalúrgica Edda" {
		t.Fatalf("updated = %v", updated)
	}

	if rec := e.do(http.MethodDelete, "/api/clientes/1", "", true); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := e.do(http.MethodGet, "/api/clientes/1", "", false); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", rec.Code)
	}
}

func TestGetPeca_InvalidID(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodGet, "/api/pecas/abc", "", false)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ID deve ser um número") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestListPecas_CachedPerUser(t *testing.T) {
	e := newTestEnv(t)
	e.do(http.MethodPost, "/api/pecas", `{"nome_peca":"Rolamento","valor_custo":10,"valor_venda":15}`, true)

	first := e.do(http.MethodGet, "/api/pecas?limit=5", "", false)
	if first.Code != http.StatusOK || first.Header().Get(cache.HeaderCache) != "MISS" {
		t.Fatalf("first: status = %d X-Cache = %q", first.Code, first.Header().Get(cache.HeaderCache))
	}

	second := e.do(http.MethodGet, "/api/pecas?limit=5", "", false)
	if second.Header().Get(cache.HeaderCache) != "HIT" {
		t.Fatalf("second X-Cache = %q", second.Header().Get(cache.HeaderCache))
	}
	if key := second.Header().Get(cache.HeaderCacheKey); key != "cache:/api/pecas?limit=5:user:anonymous" {
		t.Fatalf("X-Cache-Key = %q", key)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("hit body differs:\n%s\n%s", second.Body.String(), first.Body.String())
	}

	authed := e.do(http.MethodGet, "/api/pecas?limit=5", "", true)
	if authed.Header().Get(cache.HeaderCache) != "MISS" {
		t.Fatalf("authenticated caller shared the anonymous entry")
	}
}

func TestListPecas_FailsOpenWhenCacheDown(t *testing.T) {
	e := newTestEnv(t)
	e.store.SetConnected(false)

	rec := e.do(http.MethodGet, "/api/pecas", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(cache.HeaderCache) != "" {
		t.Fatalf("X-Cache = %q, want none", rec.Header().Get(cache.HeaderCache))
	}
	var page map[string]any
	json.Unmarshal(rec.Body.Bytes(), &page)
	if page["limit"] != float64(20) || page["page"] != float64(1) {
		t.Fatalf("query defaults not applied: %v", page)
	}
}

func TestDashboard_CustomKey(t *testing.T) {
	e := newTestEnv(t)

	if rec := e.do(http.MethodGet, "/api/dashboard", "", false); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", rec.Code)
	}

	e.do(http.MethodGet, "/api/dashboard", "", true)
	rec := e.do(http.MethodGet, "/api/dashboard", "", true)
	if rec.Header().Get(cache.HeaderCache) != "HIT" {
		t.Fatalf("X-Cache = %q", rec.Header().Get(cache.HeaderCache))
	}
	if key := rec.Header().Get(cache.HeaderCacheKey); key != "dashboard:user:42" {
		t.Fatalf("X-Cache-Key = %q", key)
	}
}

func TestWritesAreNotCached(t *testing.T) {
	e := newTestEnv(t)
	e.do(http.MethodPost, "/api/pecas", `{"nome_peca":"Correia","valor_custo":5,"valor_venda":9}`, true)
	if n := e.store.Len(); n != 0 {
		t.Fatalf("store has %d entries after a POST", n)
	}
}

func TestDelete_RequiresAdminRole(t *testing.T) {
	e := newTestEnv(t)
	if rec := e.do(http.MethodPost, "/api/pecas", `{"nome_peca":"Correia","valor_custo":5,"valor_venda":9}`, true); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	jwtAuth, _ := auth.NewJWTAuthenticator(auth.JWTAuthConfig{Secret: "test-secret"})
	viewer, err := jwtAuth.Sign("7", "viewer", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	for _, target := range []string{"/api/pecas/1", "/api/clientes/1"} {
		req := httptest.NewRequest(http.MethodDelete, target, nil)
		req.Header.Set("Authorization", "Bearer "+viewer)
		rec := httptest.NewRecorder()
		e.handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s: status = %d, want 403", target, rec.Code)
		}
	}

	if rec := e.do(http.MethodDelete, "/api/pecas/1", "", true); rec.Code != http.StatusNoContent {
		t.Fatalf("admin delete status = %d", rec.Code)
	}
}

func TestCreatePeca_ReportsMargemAndBoundsEstoque(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodPost, "/api/pecas", `{"nome_peca":"Polia","valor_custo":40,"valor_venda":50}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", rec.Code, rec.Body.String())
	}
	var created map[string]any
	json.Unmarshal(rec.Body.Bytes(), &created)
	if created["margem"] != 0.25 {
		t.Fatalf("margem = %v", created["margem"])
	}

	for _, estoque := range []string{"1e21", "3e9"} {
		rec := e.do(http.MethodPost, "/api/pecas", `{"nome_peca":"Polia","valor_custo":1,"valor_venda":2,"estoque":`+estoque+`}`, true)
		if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Estoque deve ser no máximo 2147483647") {
			t.Fatalf("estoque %s: status = %d body = %s", estoque, rec.Code, rec.Body.String())
		}
	}
}

func TestGetCliente_OversizedID(t *testing.T) {
	e := newTestEnv(t)
	for _, id := range []string{"9007199254740993", "99999999999999999999"} {
		rec := e.do(http.MethodGet, "/api/clientes/"+id, "", false)
		if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "ID deve ser no máximo 9007199254740991") {
			t.Fatalf("id %s: status = %d body = %s", id, rec.Code, rec.Body.String())
		}
	}
}

func TestAuthDisabledOpensWriteRoutes(t *testing.T) {
	rc := cache.NewResponseCache(nil, cache.Options{})
	h := NewHandler(ServerConfig{Repo: store.NewMemoryStore(), Cache: rc})

	req := httptest.NewRequest(http.MethodPost, "/api/pecas", strings.NewReader(`{"nome_peca":"Correia","valor_custo":5,"valor_venda":9}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}
