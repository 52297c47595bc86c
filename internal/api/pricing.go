package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

type product struct {
	ID        int64   `json:"id"`
	UnitPrice float64 `json:"unit_price"`
}

// PricingClient looks up unit prices from the inventory service. Entries
// for unknown product ids are simply absent from the result, not an error.
type PricingClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]product]
}

func NewPricingClient(baseURL string, timeout time.Duration) *PricingClient {
	return &PricingClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[[]product](gobreaker.Settings{
			Name: "pricing",
		}),
	}
}

// GetUnitPrices fetches unit prices for the given product ids. The returned
// map contains only the ids the pricing service knows about.
func (c *PricingClient) GetUnitPrices(ctx context.Context, ids []int64) (map[int64]float64, error) {
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = strconv.FormatInt(id, 10)
	}
	url := fmt.Sprintf("%s/products?ids=%s", c.baseURL, strings.Join(idStrings, ","))

	products, err := c.breaker.Execute(func() ([]product, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		var products []product
		if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
			return nil, fmt.Errorf("decode pricing response: %w", err)
		}
		return products, nil
	})
	if err != nil {
		return nil, &ServiceUnreachableError{Service: "InventoryService", Err: err}
	}

	unitPrices := make(map[int64]float64, len(products))
	for _, p := range products {
		unitPrices[p.ID] = p.UnitPrice
	}
	return unitPrices, nil
}
