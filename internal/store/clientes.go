package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/domain"
	"github.com/jackc/pgx/v5"
)

const clienteColumns = `id, nome_empresa, cnpj, endereco, telefone, email, nome_contato, ativo, created_at, updated_at`

func scanCliente(row pgx.Row, extra ...any) (*domain.Cliente, error) {
	var c domain.Cliente
	var endereco []byte
	dest := append([]any{
		&c.ID, &c.NomeEmpresa, &c.CNPJ, &endereco, &c.Telefone, &c.Email,
		&c.NomeContato, &c.Ativo, &c.CreatedAt, &c.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if len(endereco) > 0 {
		if err := json.Unmarshal(endereco, &c.Endereco); err != nil {
			return nil, fmt.Errorf("decode endereco: %w", err)
		}
	}
	return &c, nil
}

func (s *PostgresStore) ListClientes(ctx context.Context, p ListParams) (*domain.Page[*domain.Cliente], error) {
	p = p.normalize()
	rows, err := s.pool.Query(ctx, `
		SELECT `+clienteColumns+`, COUNT(*) OVER()
		FROM clientes
		WHERE $1 = '' OR nome_empresa ILIKE '%' || $1 || '%' OR cnpj LIKE '%' || $1 || '%'
		ORDER BY nome_empresa, id
		LIMIT $2 OFFSET $3
	`, p.Busca, p.Limit, p.offset())
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	defer rows.Close()

	page := &domain.Page[*domain.Cliente]{Items: []*domain.Cliente{}, Page: p.Page, Limit: p.Limit}
	for rows.Next() {
		c, err := scanCliente(rows, &page.Total)
		if err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		page.Items = append(page.Items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	if len(page.Items) == 0 && p.Page > 1 {
		// The window count is unavailable past the last page.
		if err := s.pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM clientes
			WHERE $1 = '' OR nome_empresa ILIKE '%' || $1 || '%' OR cnpj LIKE '%' || $1 || '%'
		`, p.Busca).Scan(&page.Total); err != nil {
			return nil, fmt.Errorf("count clientes: %w", err)
		}
	}
	return page, nil
}

func (s *PostgresStore) GetCliente(ctx context.Context, id int64) (*domain.Cliente, error) {
	c, err := scanCliente(s.pool.QueryRow(ctx, `SELECT `+clienteColumns+` FROM clientes WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("get cliente", err)
	}
	return c, nil
}

func (s *PostgresStore) CreateCliente(ctx context.Context, c *domain.Cliente) (*domain.Cliente, error) {
	endereco, err := json.Marshal(c.Endereco)
	if err != nil {
		return nil, err
	}
	created, err := scanCliente(s.pool.QueryRow(ctx, `
		INSERT INTO clientes (nome_empresa, cnpj, endereco, telefone, email, nome_contato, ativo)
		VALUES ($1, $2, $3::jsonb, $4, $5, $6, $7)
		RETURNING `+clienteColumns,
		c.NomeEmpresa, c.CNPJ, endereco, c.Telefone, c.Email, c.NomeContato, c.Ativo))
	if err != nil {
		return nil, mapError("create cliente", err)
	}
	return created, nil
}

func (s *PostgresStore) UpdateCliente(ctx context.Context, id int64, u *ClienteUpdate) (*domain.Cliente, error) {
	var set setClause
	if u.NomeEmpresa != nil {
		set.add("nome_empresa", *u.NomeEmpresa)
	}
	if u.CNPJ != nil {
		set.add("cnpj", *u.CNPJ)
	}
	if u.Endereco != nil {
		endereco, err := json.Marshal(u.Endereco)
		if err != nil {
			return nil, err
		}
		set.add("endereco", endereco)
	}
	if u.Telefone != nil {
		set.add("telefone", *u.Telefone)
	}
	if u.Email != nil {
		set.add("email", *u.Email)
	}
	if u.NomeContato != nil {
		set.add("nome_contato", *u.NomeContato)
	}
	if u.Ativo != nil {
		set.add("ativo", *u.Ativo)
	}
	set.cols = append(set.cols, "updated_at = NOW()")
	set.args = append(set.args, id)

	query := fmt.Sprintf(`UPDATE clientes SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set.cols, ", "), len(set.args), clienteColumns)
	c, err := scanCliente(s.pool.QueryRow(ctx, query, set.args...))
	if err != nil {
		return nil, mapError("update cliente", err)
	}
	return c, nil
}

func (s *PostgresStore) DeleteCliente(ctx context.Context, id int64) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM clientes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cliente: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
