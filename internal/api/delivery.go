package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

type addressEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type addressOwner struct {
	PatientID int64 `json:"patient_id"`
}

// DeliveryClient fetches delivery-address snapshots from the delivery
// service.
type DeliveryClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[json.RawMessage]
}

func NewDeliveryClient(baseURL string, timeout time.Duration) *DeliveryClient {
	return &DeliveryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
			Name: "delivery",
		}),
	}
}

// GetAddressOwned returns the address snapshot only if its recorded owner
// matches patientID; an ownership mismatch is ErrAddressForbidden. The raw
// JSON is returned as-is so the caller can freeze it onto the order.
func (c *DeliveryClient) GetAddressOwned(ctx context.Context, addressID, patientID int64) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/delivery-addresses/%d", c.baseURL, addressID)

	data, err := c.breaker.Execute(func() (json.RawMessage, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		var envelope addressEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, fmt.Errorf("decode delivery response: %w", err)
		}
		return envelope.Data, nil
	})
	if err != nil {
		return nil, &ServiceUnreachableError{Service: "DeliveryService", Err: err}
	}

	if len(data) == 0 || string(data) == "null" {
		return nil, ErrAddressNotFound
	}

	var owner addressOwner
	if err := json.Unmarshal(data, &owner); err != nil {
		return nil, fmt.Errorf("decode delivery address owner: %w", err)
	}
	if owner.PatientID != patientID {
		return nil, ErrAddressForbidden
	}

	return data, nil
}
