package entity

// Meal is a single listing inside a catalog snapshot. Listings are immutable
// once fetched; the whole snapshot is superseded when the delivery area
// changes.
type Meal struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	PrepTimeMinutes int     `json:"prep_time_minutes"`
	Area            string  `json:"area"`
}

// MealRegistration is the input for registering a new meal with the catalog.
type MealRegistration struct {
	Name            string
	Restaurant      string
	Description     string
	Price           float64
	PrepTimeMinutes int
	Area            string
}
