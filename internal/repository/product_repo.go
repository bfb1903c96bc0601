package repository

import (
	"context"
	"errors"
	"time"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = `id, name, description, price, stock, image_url, created_at, deleted_at`

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(&p.ProductID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.DeletedAt)
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) (int64, error) {
	var id int64
	query := `INSERT INTO products (name, description, price, stock, image_url, created_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.DB.QueryRow(ctx, query, p.Name, p.Description, p.Price, p.Stock, p.ImageURL, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id=$1 AND deleted_at IS NULL`
	if err := scanProduct(r.DB.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("product")
		}
		return nil, err
	}
	return &p, nil
}

// List pages through live products; search matches name case-insensitively.
func (r *ProductRepository) List(ctx context.Context, search string, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE deleted_at IS NULL AND ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.stock, p.image_url, p.created_at, p.deleted_at
		FROM products p
		JOIN product_categories pc ON pc.product_id = p.id
		WHERE pc.category_id=$1 AND p.deleted_at IS NULL
		ORDER BY p.id
	`
	rows, err := r.DB.Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	query := `UPDATE products SET name=$1, description=$2, price=$3, image_url=$4 WHERE id=$5 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, p.Name, p.Description, p.Price, p.ImageURL, p.ProductID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("product")
	}
	return nil
}

func (r *ProductRepository) SetStock(ctx context.Context, id int64, stock int) error {
	tag, err := r.DB.Exec(ctx, `UPDATE products SET stock=$1 WHERE id=$2 AND deleted_at IS NULL`, stock, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("product")
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	query := `UPDATE products SET deleted_at=$1 WHERE id=$2 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("product")
	}
	return nil
}
