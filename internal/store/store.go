// Package store persists clientes and pecas.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/domain"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict is returned when a write violates a uniqueness constraint,
	// such as a duplicate CNPJ or peca codigo.
	ErrConflict = errors.New("store: conflict")
)

// ListParams selects one page of a listing. Busca filters by a
// case-insensitive substring of the name or document.
type ListParams struct {
	Page  int
	Limit int
	Busca string
}

func (p ListParams) normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	p.Busca = strings.TrimSpace(p.Busca)
	return p
}

func (p ListParams) offset() int {
	return (p.Page - 1) * p.Limit
}

// ClienteUpdate contains optional fields for updating a cliente.
type ClienteUpdate struct {
	NomeEmpresa *string          `json:"nome_empresa"`
	CNPJ        *string          `json:"cnpj"`
	Endereco    *domain.Endereco `json:"endereco"`
	Telefone    *string          `json:"telefone"`
	Email       *string          `json:"email"`
	NomeContato *string          `json:"nome_contato"`
	Ativo       *bool            `json:"ativo"`
}

// PecaUpdate contains optional fields for updating a peca.
type PecaUpdate struct {
	NomePeca   *string  `json:"nome_peca"`
	Codigo     *string  `json:"codigo"`
	Descricao  *string  `json:"descricao"`
	ValorCusto *float64 `json:"valor_custo"`
	ValorVenda *float64 `json:"valor_venda"`
	Estoque    *int     `json:"estoque"`
	Unidade    *string  `json:"unidade"`
}

// Repository is the persistence contract used by the HTTP API.
type Repository interface {
	Close() error
	Ping(ctx context.Context) error

	ListClientes(ctx context.Context, p ListParams) (*domain.Page[*domain.Cliente], error)
	GetCliente(ctx context.Context, id int64) (*domain.Cliente, error)
	CreateCliente(ctx context.Context, c *domain.Cliente) (*domain.Cliente, error)
	UpdateCliente(ctx context.Context, id int64, u *ClienteUpdate) (*domain.Cliente, error)
	DeleteCliente(ctx context.Context, id int64) error

	ListPecas(ctx context.Context, p ListParams) (*domain.Page[*domain.Peca], error)
	GetPeca(ctx context.Context, id int64) (*domain.Peca, error)
	CreatePeca(ctx context.Context, p *domain.Peca) (*domain.Peca, error)
	UpdatePeca(ctx context.Context, id int64, u *PecaUpdate) (*domain.Peca, error)
	DeletePeca(ctx context.Context, id int64) error

	DashboardSummary(ctx context.Context) (*domain.DashboardSummary, error)
}

// NewCodigo generates a peca codigo for parts registered without one.
func NewCodigo() string {
	return "PC-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}
