package upstream

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"mealgate/internal/gateway/core/domain/entity"
)

// Defaults applied when an upstream record is missing a field or carries one
// that does not parse as a number.
const (
	defaultPrice       = 0
	defaultPrepMinutes = 15
)

// rawMeal mirrors one entity as the backend's table storage returns it.
// Numeric fields arrive as numbers or strings depending on how the row was
// written, so they are typed as any and coerced.
type rawMeal struct {
	RowKey          string `json:"RowKey"`
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           any    `json:"price"`
	PrepTimeMinutes any    `json:"prepTimeMinutes"`
	Time            any    `json:"time"`
	DeliveryArea    string `json:"delivery_area"`
}

// normalizeMeal coerces one raw backend entity into a Meal. This is the only
// resilience against a partially malformed upstream response: missing or
// non-numeric prices default to 0, prep times to 15 minutes, and the
// identifier falls back from the storage row key to the id field.
func normalizeMeal(r rawMeal, area string) entity.Meal {
	id := r.RowKey
	if id == "" {
		id = r.ID
	}

	prep := r.PrepTimeMinutes
	if prep == nil {
		prep = r.Time
	}

	a := r.DeliveryArea
	if a == "" {
		a = area
	}

	return entity.Meal{
		ID:              id,
		Name:            r.Name,
		Description:     r.Description,
		Price:           coerceFloat(r.Price, defaultPrice),
		PrepTimeMinutes: coerceInt(prep, defaultPrepMinutes),
		Area:            a,
	}
}

type rawOrder struct {
	RowKey           string `json:"RowKey"`
	OrderID          string `json:"orderId"`
	CreatedAt        string `json:"createdAt"`
	Address          string `json:"address"`
	Subtotal         any    `json:"subtotal"`
	EstimatedMinutes any    `json:"estimatedMinutes"`
	ItemsJSON        string `json:"itemsJson"`
	DeliveryArea     string `json:"delivery_area"`
}

// normalizeOrder coerces one raw order entity. The identifier falls back
// RowKey → orderId → fresh UUID; totals default to 0; the embedded item list
// reads as empty when it fails to parse.
func normalizeOrder(r rawOrder, area string) entity.Order {
	id := r.RowKey
	if id == "" {
		id = r.OrderID
	}
	if id == "" {
		id = uuid.NewString()
	}

	a := r.DeliveryArea
	if a == "" {
		a = area
	}

	return entity.Order{
		ID:               id,
		CreatedAt:        r.CreatedAt,
		Area:             a,
		Address:          r.Address,
		Items:            parseItemsJSON(r.ItemsJSON),
		Subtotal:         coerceFloat(r.Subtotal, 0),
		EstimatedMinutes: coerceInt(r.EstimatedMinutes, 0),
	}
}

// parseItemsJSON decodes the JSON-encoded item list stored on an order
// entity. Unparseable input reads as an empty list, never an error.
func parseItemsJSON(s string) []entity.OrderItem {
	if s == "" {
		return []entity.OrderItem{}
	}

	var wire []wireOrderItem
	if err := json.Unmarshal([]byte(s), &wire); err != nil {
		return []entity.OrderItem{}
	}

	items := make([]entity.OrderItem, 0, len(wire))
	for _, it := range wire {
		items = append(items, entity.OrderItem{
			MealID:          it.MealID,
			Name:            it.Name,
			Price:           it.Price,
			PrepTimeMinutes: it.PrepTimeMinutes,
			Quantity:        it.Qty,
		})
	}
	return items
}

// coerceFloat parses v as a finite float, returning def for missing,
// non-numeric, NaN or infinite values.
func coerceFloat(v any, def float64) float64 {
	switch n := v.(type) {
	case nil:
		return def
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return def
		}
		return n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return def
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return def
		}
		return f
	default:
		return def
	}
}

func coerceInt(v any, def int) int {
	f := coerceFloat(v, math.NaN())
	if math.IsNaN(f) {
		return def
	}
	return int(f)
}
