package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/domain"
)

// MemoryStore is a Repository kept in process memory. It backs tests and
// local runs without PostgreSQL.
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	clientes map[int64]*domain.Cliente
	pecas    map[int64]*domain.Peca
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clientes: make(map[int64]*domain.Cliente),
		pecas:    make(map[int64]*domain.Peca),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Close() error                   { return nil }
func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) ListClientes(ctx context.Context, p ListParams) (*domain.Page[*domain.Cliente], error) {
	p = p.normalize()
	busca := strings.ToLower(p.Busca)

	s.mu.RLock()
	var matched []*domain.Cliente
	for _, c := range s.clientes {
		if busca == "" || strings.Contains(strings.ToLower(c.NomeEmpresa), busca) || strings.Contains(c.CNPJ, busca) {
			cp := *c
			matched = append(matched, &cp)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b *domain.Cliente) int {
		if c := strings.Compare(a.NomeEmpresa, b.NomeEmpresa); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})
	return paginate(matched, p), nil
}

func (s *MemoryStore) GetCliente(ctx context.Context, id int64) (*domain.Cliente, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clientes[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) CreateCliente(ctx context.Context, c *domain.Cliente) (*domain.Cliente, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cnpjTaken(c.CNPJ, 0) {
		return nil, ErrConflict
	}
	s.nextID++
	cp := *c
	cp.ID = s.nextID
	cp.CreatedAt = s.now()
	cp.UpdatedAt = cp.CreatedAt
	s.clientes[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *MemoryStore) UpdateCliente(ctx context.Context, id int64, u *ClienteUpdate) (*domain.Cliente, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clientes[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.CNPJ != nil && s.cnpjTaken(*u.CNPJ, id) {
		return nil, ErrConflict
	}
	next := *c
	setIf(&next.NomeEmpresa, u.NomeEmpresa)
	setIf(&next.CNPJ, u.CNPJ)
	setIf(&next.Endereco, u.Endereco)
	setIf(&next.Telefone, u.Telefone)
	setIf(&next.Email, u.Email)
	setIf(&next.NomeContato, u.NomeContato)
	setIf(&next.Ativo, u.Ativo)
	next.UpdatedAt = s.now()
	s.clientes[id] = &next
	out := next
	return &out, nil
}

func (s *MemoryStore) DeleteCliente(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clientes[id]; !ok {
		return ErrNotFound
	}
	delete(s.clientes, id)
	return nil
}

func (s *MemoryStore) ListPecas(ctx context.Context, p ListParams) (*domain.Page[*domain.Peca], error) {
	p = p.normalize()
	busca := strings.ToLower(p.Busca)

	s.mu.RLock()
	var matched []*domain.Peca
	for _, pc := range s.pecas {
		if busca == "" || strings.Contains(strings.ToLower(pc.NomePeca), busca) || strings.Contains(strings.ToLower(pc.Codigo), busca) {
			cp := *pc
			matched = append(matched, &cp)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b *domain.Peca) int {
		if c := strings.Compare(a.NomePeca, b.NomePeca); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})
	return paginate(matched, p), nil
}

func (s *MemoryStore) GetPeca(ctx context.Context, id int64) (*domain.Peca, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pecas[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) CreatePeca(ctx context.Context, p *domain.Peca) (*domain.Peca, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	if cp.Codigo == "" {
		cp.Codigo = NewCodigo()
	}
	if cp.Unidade == "" {
		cp.Unidade = "UN"
	}
	if s.codigoTaken(cp.Codigo, 0) {
		return nil, ErrConflict
	}
	s.nextID++
	cp.ID = s.nextID
	cp.CreatedAt = s.now()
	cp.UpdatedAt = cp.CreatedAt
	s.pecas[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *MemoryStore) UpdatePeca(ctx context.Context, id int64, u *PecaUpdate) (*domain.Peca, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pecas[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.Codigo != nil && s.codigoTaken(*u.Codigo, id) {
		return nil, ErrConflict
	}
	next := *p
	setIf(&next.NomePeca, u.NomePeca)
	setIf(&next.Codigo, u.Codigo)
	setIf(&next.Descricao, u.Descricao)
	setIf(&next.ValorCusto, u.ValorCusto)
	setIf(&next.ValorVenda, u.ValorVenda)
	setIf(&next.Estoque, u.Estoque)
	setIf(&next.Unidade, u.Unidade)
	next.UpdatedAt = s.now()
	s.pecas[id] = &next
	out := next
	return &out, nil
}

func (s *MemoryStore) DeletePeca(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pecas[id]; !ok {
		return ErrNotFound
	}
	delete(s.pecas, id)
	return nil
}

func (s *MemoryStore) DashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := &domain.DashboardSummary{
		TotalClientes: len(s.clientes),
		TotalPecas:    len(s.pecas),
		GeneratedAt:   s.now(),
	}
	for _, c := range s.clientes {
		if c.Ativo {
			sum.ClientesAtivos++
		}
	}
	for _, p := range s.pecas {
		sum.ValorEstoque += p.ValorCusto * float64(p.Estoque)
	}
	return sum, nil
}

func (s *MemoryStore) cnpjTaken(cnpj string, except int64) bool {
	for id, c := range s.clientes {
		if id != except && c.CNPJ == cnpj {
			return true
		}
	}
	return false
}

func (s *MemoryStore) codigoTaken(codigo string, except int64) bool {
	for id, p := range s.pecas {
		if id != except && p.Codigo == codigo {
			return true
		}
	}
	return false
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func paginate[T any](items []T, p ListParams) *domain.Page[T] {
	page := &domain.Page[T]{Items: []T{}, Total: len(items), Page: p.Page, Limit: p.Limit}
	start := p.offset()
	if start >= len(items) {
		return page
	}
	end := min(start+p.Limit, len(items))
	page.Items = append(page.Items, items[start:end]...)
	return page
}

var (
	_ Repository = (*MemoryStore)(nil)
	_ Repository = (*PostgresStore)(nil)
)
