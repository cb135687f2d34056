package ports

import (
	"context"

	"mealgate/internal/gateway/core/domain/entity"
)

// CatalogService serves normalized catalog snapshots and accepts meal
// registrations.
type CatalogService interface {
	// MealsByArea returns the catalog snapshot for a delivery area.
	MealsByArea(ctx context.Context, area string) ([]entity.Meal, error)
	// RegisterMeal validates and registers a new meal listing.
	RegisterMeal(ctx context.Context, reg entity.MealRegistration) error
}

// MealSource is the backing catalog a CatalogService reads from and writes
// to: the managed backend, or the local fallback when none is configured.
type MealSource interface {
	QueryMeals(ctx context.Context, area string) ([]entity.Meal, error)
	RegisterMeal(ctx context.Context, reg entity.MealRegistration) error
}
