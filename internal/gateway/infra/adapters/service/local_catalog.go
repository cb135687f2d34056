package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"mealgate/internal/gateway/core/domain/entity"
	"mealgate/internal/gateway/core/ports"
	"mealgate/internal/pkg/cache"
)

// LocalCatalog is the MealSource used when no upstream backend is configured.
// It keeps the whole meal list in a single cache slot so the gateway stays
// usable for local development and demos.
type LocalCatalog struct {
	cache cache.Cache
}

var _ ports.MealSource = (*LocalCatalog)(nil)

func NewLocalCatalog(c cache.Cache) *LocalCatalog {
	return &LocalCatalog{cache: c}
}

func (l *LocalCatalog) key() string {
	return l.cache.GenerateKey("meals", "all")
}

func (l *LocalCatalog) load(ctx context.Context) ([]entity.Meal, error) {
	raw, err := l.cache.Get(ctx, l.key())
	if err != nil {
		return nil, fmt.Errorf("read local catalog: %w", err)
	}
	if raw == "" {
		return []entity.Meal{}, nil
	}
	var meals []entity.Meal
	if err := json.Unmarshal([]byte(raw), &meals); err != nil {
		slog.WarnContext(ctx, "discarding corrupt local catalog", "error", err)
		return []entity.Meal{}, nil
	}
	return meals, nil
}

func (l *LocalCatalog) QueryMeals(ctx context.Context, area string) ([]entity.Meal, error) {
	meals, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]entity.Meal, 0, len(meals))
	for _, m := range meals {
		if m.Area == area {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

func (l *LocalCatalog) RegisterMeal(ctx context.Context, reg entity.MealRegistration) error {
	meals, err := l.load(ctx)
	if err != nil {
		return err
	}
	meals = append(meals, entity.Meal{
		ID:              "meal-" + uuid.NewString(),
		Name:            reg.Name,
		Description:     reg.Description,
		Price:           reg.Price,
		PrepTimeMinutes: reg.PrepTimeMinutes,
		Area:            reg.Area,
	})
	payload, err := json.Marshal(meals)
	if err != nil {
		return fmt.Errorf("encode local catalog: %w", err)
	}
	if err := l.cache.Set(ctx, l.key(), string(payload), 0); err != nil {
		return fmt.Errorf("write local catalog: %w", err)
	}
	return nil
}
