package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestMemoryStore_ClienteLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	c, err := s.CreateCliente(ctx, &domain.Cliente{NomeEmpresa: "Edda", CNPJ: "11222333000181", Ativo: true})
	if err != nil {
		t.Fatalf("CreateCliente: %v", err)
	}
	if c.ID != 1 || c.CreatedAt.IsZero() {
		t.Fatalf("created = %+v", c)
	}

	if _, err := s.CreateCliente(ctx, &domain.Cliente{NomeEmpresa: "Outra", CNPJ: "11222333000181"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate cnpj err = %v, want ErrConflict", err)
	}

	updated, err := s.UpdateCliente(ctx, c.ID, &ClienteUpdate{Telefone: ptr("4733334444")})
	if err != nil {
		t.Fatalf("UpdateCliente: %v", err)
	}
	if updated.Telefone != "4733334444" || updated.NomeEmpresa != "Edda" || !updated.Ativo {
		t.Fatalf("partial update touched other fields: %+v", updated)
	}

	if err := s.DeleteCliente(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCliente: %v", err)
	}
	if _, err := s.GetCliente(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetCliente after delete err = %v", err)
	}
	if err := s.DeleteCliente(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestMemoryStore_ListPagination(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, name := range []string{"Rolamento", "Correia", "Parafuso", "Rolete"} {
		if _, err := s.CreatePeca(ctx, &domain.Peca{NomePeca: name}); err != nil {
			t.Fatalf("CreatePeca: %v", err)
		}
	}

	page, err := s.ListPecas(ctx, ListParams{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("ListPecas: %v", err)
	}
	if page.Total != 4 || len(page.Items) != 2 || page.Items[0].NomePeca != "Correia" {
		t.Fatalf("page = %+v", page)
	}

	page, _ = s.ListPecas(ctx, ListParams{Page: 3, Limit: 2})
	if page.Total != 4 || len(page.Items) != 0 {
		t.Fatalf("past-the-end page = %+v", page)
	}

	page, _ = s.ListPecas(ctx, ListParams{Busca: "rol"})
	if page.Total != 2 {
		t.Fatalf("busca total = %d, want 2", page.Total)
	}
	for _, p := range page.Items {
		if !strings.HasPrefix(p.Codigo, "PC-") || p.Unidade != "UN" {
			t.Fatalf("defaults not applied: %+v", p)
		}
	}
}

func TestMemoryStore_DashboardSummary(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.CreateCliente(ctx, &domain.Cliente{NomeEmpresa: "A", CNPJ: "1", Ativo: true})
	s.CreateCliente(ctx, &domain.Cliente{NomeEmpresa: "B", CNPJ: "2"})
	s.CreatePeca(ctx, &domain.Peca{NomePeca: "X", ValorCusto: 10, Estoque: 3})
	s.CreatePeca(ctx, &domain.Peca{NomePeca: "Y", ValorCusto: 2.5, Estoque: 2})

	sum, err := s.DashboardSummary(ctx)
	if err != nil {
		t.Fatalf("DashboardSummary: %v", err)
	}
	if sum.TotalClientes != 2 || sum.ClientesAtivos != 1 || sum.TotalPecas != 2 || sum.ValorEstoque != 35 {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestListParamsNormalize(t *testing.T) {
	p := ListParams{Page: 0, Limit: 500, Busca: "  x "}.normalize()
	if p.Page != 1 || p.Limit != 100 || p.Busca != "x" {
		t.Fatalf("normalize = %+v", p)
	}
	if off := (ListParams{Page: 3, Limit: 20}).offset(); off != 40 {
		t.Fatalf("offset = %d", off)
	}
}
