package catalog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresRepository persists items in the products table.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository wraps an initialized database handle.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores a new item and returns its assigned id.
func (r *PostgresRepository) Insert(ctx context.Context, name, description string, price int64) (int64, error) {
	const q = `INSERT INTO products (name, description, price) VALUES ($1, $2, $3) RETURNING id`
	var id int64
	if err := r.db.QueryRowxContext(ctx, q, name, description, price).Scan(&id); err != nil {
		return 0, fmt.Errorf("catalog: insert product: %w", err)
	}
	return id, nil
}

// ListAll returns every item ordered by insertion (id ascending).
func (r *PostgresRepository) ListAll(ctx context.Context) ([]Item, error) {
	const q = `SELECT id, name, description, price FROM products ORDER BY id`
	items := make([]Item, 0)
	if err := r.db.SelectContext(ctx, &items, q); err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	return items, nil
}

// DeleteByID removes an item and reports whether it existed.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM products WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, fmt.Errorf("catalog: delete product %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("catalog: delete product %d: %w", id, err)
	}
	return affected > 0, nil
}
