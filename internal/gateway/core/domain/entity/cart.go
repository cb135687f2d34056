package entity

// Fixed overhead added on top of the per-item preparation time when
// estimating delivery, in minutes.
const (
	FixedPickupMinutes   = 5
	FixedDeliveryMinutes = 10
)

// Cart maps meal IDs to quantities. Keys are unique and a quantity of zero is
// never stored: a line is deleted outright when its quantity reaches zero.
type Cart map[string]int

// CartLine is one cart entry resolved against a catalog snapshot.
type CartLine struct {
	Listing  Meal
	Quantity int
}

// Add increments the quantity for mealID by one, inserting the key if absent.
func (c Cart) Add(mealID string) {
	c[mealID]++
}

// Remove decrements the quantity for mealID by one and deletes the key when
// the result would reach zero. Removing an absent key is a no-op.
func (c Cart) Remove(mealID string) {
	qty, ok := c[mealID]
	if !ok {
		return
	}
	if qty <= 1 {
		delete(c, mealID)
		return
	}
	c[mealID] = qty - 1
}

// Materialize resolves the cart against a catalog snapshot, returning one
// line per cart key in snapshot order. Entries whose meal ID is not in the
// snapshot are dropped silently: after an area switch the catalog changes
// underneath an existing cart and stale references must not surface.
func (c Cart) Materialize(snapshot []Meal) []CartLine {
	lines := make([]CartLine, 0, len(c))
	for _, m := range snapshot {
		qty, ok := c[m.ID]
		if !ok {
			continue
		}
		lines = append(lines, CartLine{Listing: m, Quantity: qty})
	}
	return lines
}

// Subtotal sums unit price times quantity over all lines.
func Subtotal(lines []CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Listing.Price * float64(l.Quantity)
	}
	return sum
}

// EstimatedMinutes sums per-line preparation time times quantity, plus the
// fixed pickup and delivery overhead.
func EstimatedMinutes(lines []CartLine, pickupMinutes, deliveryMinutes int) int {
	total := pickupMinutes + deliveryMinutes
	for _, l := range lines {
		total += l.Listing.PrepTimeMinutes * l.Quantity
	}
	return total
}
