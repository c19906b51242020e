package nutrition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNoResult is returned when the nutrition API has no match for a name.
var ErrNoResult = errors.New("no nutrition result")

// Lookup resolves a free-text ingredient name to nutrition facts. Search
// finds a candidate food ID; Details fetches its facts for an amount/unit.
type Lookup interface {
	Search(ctx context.Context, name string) (string, error)
	Details(ctx context.Context, foodID string, amount float64, unit string) (*IngredientDetail, error)
}

// Client calls an Edamam-style food database API.
type Client struct {
	client *resty.Client
	appID  string
	appKey string
}

// NewClient builds a Client against baseURL with API credentials.
func NewClient(baseURL, appID, appKey string) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &Client{client: client, appID: appID, appKey: appKey}
}

type parserResponse struct {
	Hints []struct {
		Food struct {
			FoodID string `json:"foodId"`
			Label  string `json:"label"`
		} `json:"food"`
	} `json:"hints"`
}

// Search calls the parser endpoint and returns the first candidate food ID.
func (c *Client) Search(ctx context.Context, name string) (string, error) {
	var pr parserResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ingr":    name,
			"app_id":  c.appID,
			"app_key": c.appKey,
		}).
		SetResult(&pr).
		Get("/api/food-database/v2/parser")
	if err != nil {
		return "", fmt.Errorf("nutrition search %q: %w", name, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("nutrition search %q: status %d", name, resp.StatusCode())
	}
	if len(pr.Hints) == 0 {
		return "", ErrNoResult
	}
	return pr.Hints[0].Food.FoodID, nil
}

type nutrientsResponse struct {
	TotalWeight    float64 `json:"totalWeight"`
	TotalNutrients map[string]struct {
		Label    string  `json:"label"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
	} `json:"totalNutrients"`
}

// Details calls the nutrients endpoint for one food ID.
func (c *Client) Details(ctx context.Context, foodID string, amount float64, unit string) (*IngredientDetail, error) {
	payload := map[string]any{
		"ingredients": []map[string]any{{
			"quantity":   amount,
			"measureURI": unit,
			"foodId":     foodID,
		}},
	}

	var nr nutrientsResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"app_id":  c.appID,
			"app_key": c.appKey,
		}).
		SetBody(payload).
		SetResult(&nr).
		Post("/api/food-database/v2/nutrients")
	if err != nil {
		return nil, fmt.Errorf("nutrition details %s: %w", foodID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("nutrition details %s: status %d", foodID, resp.StatusCode())
	}

	detail := &IngredientDetail{
		Nutrients:        make(map[string]Nutrient, len(nr.TotalNutrients)),
		WeightPerServing: nr.TotalWeight,
		FetchedAt:        time.Now().UTC(),
	}
	for key, n := range nr.TotalNutrients {
		name := strings.ToLower(n.Label)
		if key == "ENERC_KCAL" {
			name = NutrientCalories
		}
		detail.Nutrients[name] = Nutrient{Amount: n.Quantity, Unit: n.Unit}
	}
	return detail, nil
}
