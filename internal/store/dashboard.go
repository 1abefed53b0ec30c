package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/domain"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/observability"
	"golang.org/x/sync/errgroup"
)

// DashboardSummary runs the aggregate queries concurrently on separate
// pool connections.
func (s *PostgresStore) DashboardSummary(ctx context.Context) (_ *domain.DashboardSummary, err error) {
	ctx, span := observability.StartSpan(ctx, "store.DashboardSummary")
	defer func() { observability.EndSpan(span, err) }()

	sum := &domain.DashboardSummary{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.pool.QueryRow(gctx, `SELECT COUNT(*) FROM clientes`).Scan(&sum.TotalClientes)
	})
	g.Go(func() error {
		return s.pool.QueryRow(gctx, `SELECT COUNT(*) FROM clientes WHERE ativo`).Scan(&sum.ClientesAtivos)
	})
	g.Go(func() error {
		return s.pool.QueryRow(gctx, `
			SELECT COUNT(*), COALESCE(SUM(valor_custo * estoque), 0)
			FROM pecas
		`).Scan(&sum.TotalPecas, &sum.ValorEstoque)
	})

	if err = g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	sum.GeneratedAt = time.Now().UTC()
	return sum, nil
}
