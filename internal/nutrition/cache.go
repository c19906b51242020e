package nutrition

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/trailmeals/server/internal/units"
)

// Cache memoizes ingredient lookups for the life of the process. The key is
// the lowercased ingredient name only; a hit is reused across requested
// amounts because the facts are per-serving normalized. Failures are never
// cached, so the next call retries.
type Cache struct {
	mu      sync.RWMutex
	details map[string]*IngredientDetail
	lookup  Lookup
}

// NewCache creates a Cache in front of the given lookup.
func NewCache(lookup Lookup) *Cache {
	return &Cache{
		details: make(map[string]*IngredientDetail),
		lookup:  lookup,
	}
}

// Lookup returns the cached detail for name, or fetches it. Concurrent
// misses for the same name may each fetch; the last write wins, which is
// harmless because the facts are identical.
func (c *Cache) Lookup(ctx context.Context, name string, amount float64, unit string) (*IngredientDetail, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	c.mu.RLock()
	detail, ok := c.details[key]
	c.mu.RUnlock()
	if ok {
		return detail, nil
	}

	foodID, err := c.lookup.Search(ctx, key)
	if err != nil {
		return nil, err
	}
	detail, err = c.lookup.Details(ctx, foodID, amount, unit)
	if err != nil {
		return nil, err
	}
	detail.Name = key

	c.mu.Lock()
	c.details[key] = detail
	c.mu.Unlock()
	return detail, nil
}

// Len returns the number of cached ingredients.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.details)
}

// CalorieText renders a calorie figure for the requested amount/unit. The
// second return is false when the detail has no calories nutrient. When the
// detail carries a weight per serving the figure is converted through the
// unit table; otherwise the raw per-serving figure is returned with an
// approximation marker.
func CalorieText(detail *IngredientDetail, amount float64, unit string) (string, bool) {
	if detail == nil {
		return "", false
	}
	cal, ok := detail.Nutrients[NutrientCalories]
	if !ok {
		return "", false
	}

	if detail.WeightPerServing > 0 && units.Convertible("gram", unit) {
		perGram := cal.Amount / detail.WeightPerServing
		kcal := units.Convert(perGram, "gram", amount, unit)
		return fmt.Sprintf("%d kcal", int(math.Round(kcal))), true
	}
	return fmt.Sprintf("~%d kcal", int(math.Round(cal.Amount))), true
}
