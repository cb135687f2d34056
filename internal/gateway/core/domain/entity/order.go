package entity

// OrderItem is a denormalized copy of a meal listing at order time. It is
// copied from the catalog snapshot, never referenced, so later catalog
// changes cannot alter a placed order.
type OrderItem struct {
	MealID          string  `json:"meal_id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	PrepTimeMinutes int     `json:"prep_time_minutes"`
	Quantity        int     `json:"quantity"`
}

// Order is an immutable record of a placed order. Subtotal and
// EstimatedMinutes are cached derivations of Items — they must always equal
// what NewOrder computes from the item list, never independent state.
type Order struct {
	ID               string      `json:"id"`
	CreatedAt        string      `json:"created_at"`
	Area             string      `json:"area"`
	Address          string      `json:"address"`
	Items            []OrderItem `json:"items"`
	Subtotal         float64     `json:"subtotal"`
	EstimatedMinutes int         `json:"estimated_minutes"`
}

// NewOrder builds an order record from materialized cart lines. The cached
// subtotal and estimated minutes are derived here and nowhere else.
func NewOrder(id, createdAt, area, address string, lines []CartLine, pickupMinutes, deliveryMinutes int) *Order {
	items := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, OrderItem{
			MealID:          l.Listing.ID,
			Name:            l.Listing.Name,
			Price:           l.Listing.Price,
			PrepTimeMinutes: l.Listing.PrepTimeMinutes,
			Quantity:        l.Quantity,
		})
	}

	return &Order{
		ID:               id,
		CreatedAt:        createdAt,
		Area:             area,
		Address:          address,
		Items:            items,
		Subtotal:         Subtotal(lines),
		EstimatedMinutes: EstimatedMinutes(lines, pickupMinutes, deliveryMinutes),
	}
}
