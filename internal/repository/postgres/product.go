package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository backed by Postgres.
func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// FindAll returns the catalog ordered by ID, the order the REST feed uses.
func (r *productRepository) FindAll(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, title, price, description, category, image, rating_rate, rating_count FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		var (
			p     entity.Product
			rate  sql.NullFloat64
			count sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Description, &p.Category, &p.Image, &rate, &count); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if rate.Valid {
			p.Rating = &entity.Rating{Rate: rate.Float64, Count: int(count.Int64)}
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, nil
}

func (r *productRepository) Seed(ctx context.Context, products []entity.Product) error {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // already seeded
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range products {
		var rate sql.NullFloat64
		var ratingCount sql.NullInt64
		if p.Rating != nil {
			rate = sql.NullFloat64{Float64: p.Rating.Rate, Valid: true}
			ratingCount = sql.NullInt64{Int64: int64(p.Rating.Count), Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO products (id, title, price, description, category, image, rating_rate, rating_count) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
			p.ID, p.Title, p.Price, p.Description, p.Category, p.Image, rate, ratingCount,
		)
		if err != nil {
			return fmt.Errorf("failed to seed product %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
