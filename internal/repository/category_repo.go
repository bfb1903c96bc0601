package repository

import (
	"context"
	"errors"
	"time"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository struct {
	DB *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) Create(ctx context.Context, name string) (int64, error) {
	var id int64
	query := `INSERT INTO categories (name, created_at) VALUES ($1, $2) RETURNING id`
	if err := r.DB.QueryRow(ctx, query, name, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	var c model.Category
	query := `SELECT id, name, created_at FROM categories WHERE id=$1 AND deleted_at IS NULL`
	if err := r.DB.QueryRow(ctx, query, id).Scan(&c.CategoryID, &c.Name, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("category")
		}
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	query := `SELECT id, name, created_at FROM categories WHERE deleted_at IS NULL ORDER BY name`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, id int64, name string) error {
	query := `UPDATE categories SET name=$1 WHERE id=$2 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, name, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("category")
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	query := `UPDATE categories SET deleted_at=$1 WHERE id=$2 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("category")
	}
	return nil
}

func (r *CategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM categories WHERE lower(name)=lower($1) AND deleted_at IS NULL)`
	if err := r.DB.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *CategoryRepository) AddProduct(ctx context.Context, productID, categoryID int64) error {
	query := `INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2)
			  ON CONFLICT DO NOTHING`
	_, err := r.DB.Exec(ctx, query, productID, categoryID)
	return err
}

func (r *CategoryRepository) RemoveProduct(ctx context.Context, productID, categoryID int64) error {
	query := `DELETE FROM product_categories WHERE product_id=$1 AND category_id=$2`
	tag, err := r.DB.Exec(ctx, query, productID, categoryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("category assignment")
	}
	return nil
}

func (r *CategoryRepository) ListByProduct(ctx context.Context, productID int64) ([]model.Category, error) {
	query := `
		SELECT c.id, c.name, c.created_at
		FROM categories c
		JOIN product_categories pc ON pc.category_id = c.id
		WHERE pc.product_id=$1 AND c.deleted_at IS NULL
		ORDER BY c.name
	`
	rows, err := r.DB.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
