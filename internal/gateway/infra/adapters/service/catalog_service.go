package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"mealgate/internal/gateway/core/domain/entity"
	"mealgate/internal/gateway/core/ports"
)

// CatalogService caches normalized catalog snapshots per delivery area.
//
// A snapshot fetch can be superseded while in flight: registering a meal or
// an explicit Invalidate bumps the area's generation, and a fetch started
// under an older generation must not overwrite the newer state when it
// finally resolves. The caller that initiated a superseded fetch still gets
// its result; only the shared cache commit is skipped.
type CatalogService struct {
	source ports.MealSource
	ttl    time.Duration

	mu    sync.Mutex
	areas map[string]*areaSnapshot
}

type areaSnapshot struct {
	gen       int
	meals     []entity.Meal
	fetchedAt time.Time
}

var _ ports.CatalogService = (*CatalogService)(nil)

func NewCatalogService(source ports.MealSource, ttl time.Duration) *CatalogService {
	return &CatalogService{
		source: source,
		ttl:    ttl,
		areas:  make(map[string]*areaSnapshot),
	}
}

func (s *CatalogService) MealsByArea(ctx context.Context, area string) ([]entity.Meal, error) {
	s.mu.Lock()
	snap, ok := s.areas[area]
	if !ok {
		snap = &areaSnapshot{}
		s.areas[area] = snap
	}
	if snap.meals != nil && time.Since(snap.fetchedAt) < s.ttl {
		meals := snap.meals
		s.mu.Unlock()
		return meals, nil
	}
	gen := snap.gen
	s.mu.Unlock()

	meals, err := s.source.QueryMeals(ctx, area)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if snap.gen == gen {
		snap.meals = meals
		snap.fetchedAt = time.Now()
	}
	s.mu.Unlock()

	return meals, nil
}

// Invalidate marks the area's snapshot stale and supersedes any fetch
// currently in flight for it.
func (s *CatalogService) Invalidate(area string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.areas[area]
	if !ok {
		return
	}
	snap.gen++
	snap.meals = nil
}

func (s *CatalogService) RegisterMeal(ctx context.Context, reg entity.MealRegistration) error {
	if err := validateRegistration(reg); err != nil {
		return err
	}
	if err := s.source.RegisterMeal(ctx, reg); err != nil {
		return err
	}
	s.Invalidate(reg.Area)
	return nil
}

func validateRegistration(reg entity.MealRegistration) error {
	if strings.TrimSpace(reg.Name) == "" {
		return entity.ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(reg.Description) == "" {
		return entity.ValidationError{Field: "description", Message: "description is required"}
	}
	if strings.TrimSpace(reg.Area) == "" {
		return entity.ValidationError{Field: "delivery_area", Message: "delivery area is required"}
	}
	if reg.Price <= 0 {
		return entity.ValidationError{Field: "price", Message: "price must be greater than 0"}
	}
	if reg.PrepTimeMinutes <= 0 {
		return entity.ValidationError{Field: "prep_time_minutes", Message: "preparation time must be greater than 0"}
	}
	return nil
}
