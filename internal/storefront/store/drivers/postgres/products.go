package postgres

import (
	"context"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/jackc/pgx/v5"
)

type productsRepo struct {
	db dbtx
}

const productWithOwnerSelect = `
	SELECT p.id, p.owner_id, p.title, p.content, p.price, p.created_at, p.updated_at,
	       u.name, u.email
	FROM products p
	JOIN users u ON u.id = p.owner_id`

func scanProduct(row interface{ Scan(...any) error }) (domain.ProductWithOwner, error) {
	var p domain.ProductWithOwner
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Content, &p.Price, &p.CreatedAt, &p.UpdatedAt,
		&p.Owner.Name, &p.Owner.Email,
	)
	return p, err
}

func (r *productsRepo) CreateProduct(ctx context.Context, p domain.Product) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO products (id, owner_id, title, content, price, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.OwnerID, p.Title, p.Content, p.Price, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *productsRepo) GetProductByID(ctx context.Context, id string) (domain.ProductWithOwner, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, productWithOwnerSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return domain.ProductWithOwner{}, mapNotFound(err)
	}
	return p, nil
}

func (r *productsRepo) ListProducts(ctx context.Context) ([]domain.ProductWithOwner, error) {
	rows, err := r.db.Query(ctx, productWithOwnerSelect+` ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *productsRepo) ListProductsByOwner(ctx context.Context, ownerID string) ([]domain.ProductWithOwner, error) {
	rows, err := r.db.Query(ctx,
		productWithOwnerSelect+` WHERE p.owner_id = $1 ORDER BY p.created_at DESC, p.id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *productsRepo) UpdateProduct(ctx context.Context, p domain.Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET title = $1, content = $2, price = $3, updated_at = $4 WHERE id = $5`,
		p.Title, p.Content, p.Price, p.UpdatedAt.UTC(), p.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func (r *productsRepo) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func collectProducts(rows pgx.Rows) ([]domain.ProductWithOwner, error) {
	defer rows.Close()

	out := []domain.ProductWithOwner{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
