package services

import (
	"context"
	"strings"
	"time"

	"github.com/MarioL13/TiendaFinal-sub000/internal/model"
	"github.com/MarioL13/TiendaFinal-sub000/internal/repository"
)

type EventService struct {
	Repo *repository.EventRepository
}

func NewEventService(r *repository.EventRepository) *EventService {
	return &EventService{Repo: r}
}

func validateEvent(e *model.Event) error {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return invalidf("title is required")
	}
	if e.StartsAt.IsZero() {
		return invalidf("starts_at is required")
	}
	if e.Capacity != nil && *e.Capacity <= 0 {
		return invalidf("capacity must be > 0")
	}
	return nil
}

func (s *EventService) Create(ctx context.Context, e *model.Event) (int64, error) {
	if err := validateEvent(e); err != nil {
		return 0, err
	}
	return s.Repo.Create(ctx, e)
}

func (s *EventService) Get(ctx context.Context, id int64) (*model.Event, error) {
	return s.Repo.GetByID(ctx, id)
}

// Upcoming lists events that have not started yet, soonest first.
func (s *EventService) Upcoming(ctx context.Context) ([]model.Event, error) {
	return s.Repo.ListFrom(ctx, time.Now())
}

func (s *EventService) Update(ctx context.Context, e *model.Event) error {
	if err := validateEvent(e); err != nil {
		return err
	}
	return s.Repo.Update(ctx, e)
}

func (s *EventService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}
