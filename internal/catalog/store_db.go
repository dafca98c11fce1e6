package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

// EnsureSchema creates the products table on startup when it is missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS products (
				id          TEXT PRIMARY KEY,
				title       TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				price       NUMERIC(12,2) NOT NULL CHECK (price >= 0),
				currency    TEXT NOT NULL DEFAULT 'USD',
				stock       INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
				sku         TEXT NOT NULL DEFAULT '',
				created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
			);
			CREATE INDEX IF NOT EXISTS products_created_at_idx
				ON products (created_at DESC);
		`)
		return err
	})
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Product, bool, error) {
	var p Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, title, description, price, currency, stock, sku, created_at
			FROM products
			WHERE id = $1
		`, id).Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Currency, &p.Stock, &p.SKU, &p.CreatedAt)
	})

	if err == sql.ErrNoRows {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return p, true, nil
}

func (s *PostgresStore) Create(ctx context.Context, p Product) (Product, error) {
	if p.ID == "" {
		p.ID = "p_" + uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO products (id, title, description, price, currency, stock, sku, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, p.ID, p.Title, p.Description, p.Price, p.Currency, p.Stock, p.SKU, p.CreatedAt)
		return err
	})

	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *PostgresStore) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	q = q.normalized()

	where, args := buildFilter(q)

	var (
		total int
		items []Product
	)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
			return err
		}

		pageArgs := append(args, q.PerPage, (q.Page-1)*q.PerPage)
		rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
			SELECT id, title, description, price, currency, stock, sku, created_at
			FROM products
			%s
			ORDER BY created_at DESC, id DESC
			LIMIT $%d OFFSET $%d
		`, where, len(args)+1, len(args)+2), pageArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()

		items = make([]Product, 0, q.PerPage)
		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Currency, &p.Stock, &p.SKU, &p.CreatedAt); err != nil {
				return err
			}
			items = append(items, p)
		}
		return rows.Err()
	})

	if err != nil {
		return SearchResult{}, err
	}

	return SearchResult{
		Items: items,
		Total: total,
		Page:  q.Page,
		Pages: pageCount(total, q.PerPage),
	}, nil
}

func buildFilter(q SearchQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if q.Text != "" {
		args = append(args, "%"+q.Text+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if q.MinPrice != nil {
		args = append(args, *q.MinPrice)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if q.MaxPrice != nil {
		args = append(args, *q.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
