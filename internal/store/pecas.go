package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/domain"
	"github.com/jackc/pgx/v5"
)

const pecaColumns = `id, nome_peca, codigo, descricao, valor_custo, valor_venda, estoque, unidade, created_at, updated_at`

func scanPeca(row pgx.Row, extra ...any) (*domain.Peca, error) {
	var p domain.Peca
	dest := append([]any{
		&p.ID, &p.NomePeca, &p.Codigo, &p.Descricao, &p.ValorCusto, &p.ValorVenda,
		&p.Estoque, &p.Unidade, &p.CreatedAt, &p.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) ListPecas(ctx context.Context, p ListParams) (*domain.Page[*domain.Peca], error) {
	p = p.normalize()
	rows, err := s.pool.Query(ctx, `
		SELECT `+pecaColumns+`, COUNT(*) OVER()
		FROM pecas
		WHERE $1 = '' OR nome_peca ILIKE '%' || $1 || '%' OR codigo ILIKE '%' || $1 || '%'
		ORDER BY nome_peca, id
		LIMIT $2 OFFSET $3
	`, p.Busca, p.Limit, p.offset())
	if err != nil {
		return nil, fmt.Errorf("list pecas: %w", err)
	}
	defer rows.Close()

	page := &domain.Page[*domain.Peca]{Items: []*domain.Peca{}, Page: p.Page, Limit: p.Limit}
	for rows.Next() {
		pc, err := scanPeca(rows, &page.Total)
		if err != nil {
			return nil, fmt.Errorf("scan peca: %w", err)
		}
		page.Items = append(page.Items, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pecas: %w", err)
	}
	if len(page.Items) == 0 && p.Page > 1 {
		if err := s.pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM pecas
			WHERE $1 = '' OR nome_peca ILIKE '%' || $1 || '%' OR codigo ILIKE '%' || $1 || '%'
		`, p.Busca).Scan(&page.Total); err != nil {
			return nil, fmt.Errorf("count pecas: %w", err)
		}
	}
	return page, nil
}

func (s *PostgresStore) GetPeca(ctx context.Context, id int64) (*domain.Peca, error) {
	p, err := scanPeca(s.pool.QueryRow(ctx, `SELECT `+pecaColumns+` FROM pecas WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("get peca", err)
	}
	return p, nil
}

func (s *PostgresStore) CreatePeca(ctx context.Context, p *domain.Peca) (*domain.Peca, error) {
	if p.Codigo == "" {
		p.Codigo = NewCodigo()
	}
	if p.Unidade == "" {
		p.Unidade = "UN"
	}
	created, err := scanPeca(s.pool.QueryRow(ctx, `
		INSERT INTO pecas (nome_peca, codigo, descricao, valor_custo, valor_venda, estoque, unidade)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+pecaColumns,
		p.NomePeca, p.Codigo, p.Descricao, p.ValorCusto, p.ValorVenda, p.Estoque, p.Unidade))
	if err != nil {
		return nil, mapError("create peca", err)
	}
	return created, nil
}

func (s *PostgresStore) UpdatePeca(ctx context.Context, id int64, u *PecaUpdate) (*domain.Peca, error) {
	var set setClause
	if u.NomePeca != nil {
		set.add("nome_peca", *u.NomePeca)
	}
	if u.Codigo != nil {
		set.add("codigo", *u.Codigo)
	}
	if u.Descricao != nil {
		set.add("descricao", *u.Descricao)
	}
	if u.ValorCusto != nil {
		set.add("valor_custo", *u.ValorCusto)
	}
	if u.ValorVenda != nil {
		set.add("valor_venda", *u.ValorVenda)
	}
	if u.Estoque != nil {
		set.add("estoque", *u.Estoque)
	}
	if u.Unidade != nil {
		set.add("unidade", *u.Unidade)
	}
	set.cols = append(set.cols, "updated_at = NOW()")
	set.args = append(set.args, id)

	query := fmt.Sprintf(`UPDATE pecas SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set.cols, ", "), len(set.args), pecaColumns)
	p, err := scanPeca(s.pool.QueryRow(ctx, query, set.args...))
	if err != nil {
		return nil, mapError("update peca", err)
	}
	return p, nil
}

func (s *PostgresStore) DeletePeca(ctx context.Context, id int64) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM pecas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete peca: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
