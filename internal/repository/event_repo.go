package repository

import (
	"context"
	"errors"
	"time"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	DB *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Create(ctx context.Context, e *model.Event) (int64, error) {
	var id int64
	query := `
		INSERT INTO events (title, description, location, starts_at, capacity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	if err := r.DB.QueryRow(ctx, query, e.Title, e.Description, e.Location, e.StartsAt, e.Capacity, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	var e model.Event
	query := `SELECT id, title, description, location, starts_at, capacity, created_at FROM events WHERE id=$1`
	if err := r.DB.QueryRow(ctx, query, id).Scan(&e.EventID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.Capacity, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("event")
		}
		return nil, err
	}
	return &e, nil
}

// ListFrom returns the events starting at or after from, soonest first.
func (r *EventRepository) ListFrom(ctx context.Context, from time.Time) ([]model.Event, error) {
	query := `
		SELECT id, title, description, location, starts_at, capacity, created_at
		FROM events
		WHERE starts_at >= $1
		ORDER BY starts_at
	`
	rows, err := r.DB.Query(ctx, query, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.EventID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.Capacity, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	query := `UPDATE events SET title=$1, description=$2, location=$3, starts_at=$4, capacity=$5 WHERE id=$6`
	tag, err := r.DB.Exec(ctx, query, e.Title, e.Description, e.Location, e.StartsAt, e.Capacity, e.EventID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("event")
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("event")
	}
	return nil
}
