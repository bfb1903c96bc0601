package repository

import (
	"context"
	"errors"
	"time"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateUser inserts a new user and returns the created id
func (r *UserRepository) CreateUser(ctx context.Context, name, email, passwordHash, role string) (int64, error) {
	var id int64
	query := `INSERT INTO users (name, email, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.DB.QueryRow(ctx, query, name, email, passwordHash, role, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetByEmail includes the password hash; callers must not serialize it.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	query := `SELECT id, name, email, password_hash, role, created_at, deleted_at
			FROM users
			WHERE email=$1`
	if err := r.DB.QueryRow(ctx, query, email).Scan(&u.UserID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.DeletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("user")
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	query := `SELECT id, name, email, role, created_at, deleted_at FROM users WHERE id=$1`
	if err := r.DB.QueryRow(ctx, query, id).Scan(&u.UserID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.DeletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("user")
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`
	if err := r.DB.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT id, name, email, role, created_at, deleted_at FROM users ORDER BY id`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.UserID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.DeletedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRepository) SetRole(ctx context.Context, id int64, role string) error {
	tag, err := r.DB.Exec(ctx, `UPDATE users SET role=$1 WHERE id=$2 AND deleted_at IS NULL`, role, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("user")
	}
	return nil
}

// Delete soft-deletes a user (sets deleted_at)
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	query := `UPDATE users SET deleted_at=$1 WHERE id=$2 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("user")
	}
	return nil
}
