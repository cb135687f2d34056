package httpx

import "mealgate/internal/gateway/core/ports"

type RegisterMealRequest struct {
	Name            string  `json:"name"`
	Restaurant      string  `json:"restaurant"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	PrepTimeMinutes int     `json:"prep_time_minutes"`
	DeliveryArea    string  `json:"delivery_area"`
}

type AddCartItemRequest struct {
	MealID string `json:"meal_id"`
}

type PlaceOrderRequest struct {
	DeliveryArea string `json:"delivery_area"`
	Address      string `json:"address"`
}

type CartResponse struct {
	Items            []CartLineResponse `json:"items"`
	Subtotal         float64            `json:"subtotal"`
	EstimatedMinutes int                `json:"estimated_minutes"`
}

type CartLineResponse struct {
	MealID          string  `json:"meal_id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	PrepTimeMinutes int     `json:"prep_time_minutes"`
	Quantity        int     `json:"quantity"`
	LineTotal       float64 `json:"line_total"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// mapCartToResponse converts a materialized cart to the HTTP response format.
func mapCartToResponse(cart *ports.MaterializedCart) CartResponse {
	items := make([]CartLineResponse, len(cart.Lines))
	for i, l := range cart.Lines {
		items[i] = CartLineResponse{
			MealID:          l.Listing.ID,
			Name:            l.Listing.Name,
			Price:           l.Listing.Price,
			PrepTimeMinutes: l.Listing.PrepTimeMinutes,
			Quantity:        l.Quantity,
			LineTotal:       l.Listing.Price * float64(l.Quantity),
		}
	}
	return CartResponse{
		Items:            items,
		Subtotal:         cart.Subtotal,
		EstimatedMinutes: cart.EstimatedMinutes,
	}
}
