package repository

import (
	"context"
	"errors"
	"time"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CardRepository struct {
	DB *pgxpool.Pool
}

func NewCardRepository(db *pgxpool.Pool) *CardRepository {
	return &CardRepository{DB: db}
}

const cardColumns = `id, name, game, set_name, rarity, card_condition, price, stock, image_url, created_at, deleted_at`

func scanCard(row pgx.Row, c *model.Card) error {
	return row.Scan(&c.CardID, &c.Name, &c.Game, &c.SetName, &c.Rarity, &c.Condition, &c.Price, &c.Stock, &c.ImageURL, &c.CreatedAt, &c.DeletedAt)
}

func (r *CardRepository) Create(ctx context.Context, c *model.Card) (int64, error) {
	var id int64
	query := `
		INSERT INTO cards (name, game, set_name, rarity, card_condition, price, stock, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	if err := r.DB.QueryRow(ctx, query, c.Name, c.Game, c.SetName, c.Rarity, c.Condition, c.Price, c.Stock, c.ImageURL, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *CardRepository) GetByID(ctx context.Context, id int64) (*model.Card, error) {
	var c model.Card
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id=$1 AND deleted_at IS NULL`
	if err := scanCard(r.DB.QueryRow(ctx, query, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("card")
		}
		return nil, err
	}
	return &c, nil
}

// List pages through live cards, optionally filtered by game and name.
func (r *CardRepository) List(ctx context.Context, game, search string, limit, offset int) ([]model.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR game ILIKE $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY id
		LIMIT $3 OFFSET $4
	`
	rows, err := r.DB.Query(ctx, query, game, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Card{}
	for rows.Next() {
		var c model.Card
		if err := scanCard(rows, &c); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CardRepository) Update(ctx context.Context, c *model.Card) error {
	query := `
		UPDATE cards
		SET name=$1, game=$2, set_name=$3, rarity=$4, card_condition=$5, price=$6, image_url=$7
		WHERE id=$8 AND deleted_at IS NULL
	`
	tag, err := r.DB.Exec(ctx, query, c.Name, c.Game, c.SetName, c.Rarity, c.Condition, c.Price, c.ImageURL, c.CardID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("card")
	}
	return nil
}

func (r *CardRepository) SetStock(ctx context.Context, id int64, stock int) error {
	tag, err := r.DB.Exec(ctx, `UPDATE cards SET stock=$1 WHERE id=$2 AND deleted_at IS NULL`, stock, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("card")
	}
	return nil
}

func (r *CardRepository) Delete(ctx context.Context, id int64) error {
	query := `UPDATE cards SET deleted_at=$1 WHERE id=$2 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound("card")
	}
	return nil
}
