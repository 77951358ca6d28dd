package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrProductNotFound = errors.New("product not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, errors.New("db connection not provided")
	}
	return &Conf{db: db}, nil
}

const productColumns = `id, name, composer, price, category, COALESCE(difficulty, ''), COALESCE(description, ''), created_at`

// ListProducts returns the catalogue ordered by name. An empty category returns every piece.
func (c *Conf) ListProducts(ctx context.Context, category string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []any
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	list := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Composer, &p.Price, &p.Category, &p.Difficulty, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return list, nil
}

func (c *Conf) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := c.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Composer, &p.Price, &p.Category, &p.Difficulty, &p.Description, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	return p, nil
}
