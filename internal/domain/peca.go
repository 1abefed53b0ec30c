package domain

import (
	"encoding/json"
	"time"
)

// Peca is a catalogued part.
type Peca struct {
	ID         int64     `json:"id"`
	NomePeca   string    `json:"nome_peca"`
	Codigo     string    `json:"codigo"`
	Descricao  string    `json:"descricao,omitempty"`
	ValorCusto float64   `json:"valor_custo"`
	ValorVenda float64   `json:"valor_venda"`
	Estoque    int       `json:"estoque"`
	Unidade    string    `json:"unidade"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Margem returns the markup of ValorVenda over ValorCusto as a fraction.
// It is zero when the cost is zero.
func (p Peca) Margem() float64 {
	if p.ValorCusto == 0 {
		return 0
	}
	return (p.ValorVenda - p.ValorCusto) / p.ValorCusto
}

// MarshalJSON adds the computed margem field.
func (p Peca) MarshalJSON() ([]byte, error) {
	type peca Peca
	return json.Marshal(struct {
		peca
		Margem float64 `json:"margem"`
	}{peca(p), p.Margem()})
}

// Page is one page of a listing.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// DashboardSummary aggregates figures shown on the home screen.
type DashboardSummary struct {
	TotalClientes  int       `json:"total_clientes"`
	ClientesAtivos int       `json:"clientes_ativos"`
	TotalPecas     int       `json:"total_pecas"`
	ValorEstoque   float64   `json:"valor_estoque"`
	GeneratedAt    time.Time `json:"generated_at"`
}
