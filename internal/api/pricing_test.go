package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUnitPrices_ReturnsKnownProductsOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "1,2,3", r.URL.Query().Get("ids"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"unit_price":10.0},{"id":3,"unit_price":2.5}]`))
	}))
	defer srv.Close()

	client := NewPricingClient(srv.URL, time.Second)

	prices, err := client.GetUnitPrices(context.Background(), []int64{1, 2, 3})

	require.NoError(t, err)
	assert.Equal(t, map[int64]float64{1: 10.0, 3: 2.5}, prices)
}

func TestGetUnitPrices_UpstreamErrorIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewPricingClient(srv.URL, time.Second)

	prices, err := client.GetUnitPrices(context.Background(), []int64{1})

	var unreachable *ServiceUnreachableError
	require.ErrorAs(t, err, &unreachable)
	assert.Equal(t, "InventoryService", unreachable.Service)
	assert.Nil(t, prices)
}

func TestGetUnitPrices_ConnectionRefused(t *testing.T) {
	client := NewPricingClient("http://127.0.0.1:1", time.Second)

	_, err := client.GetUnitPrices(context.Background(), []int64{1})

	var unreachable *ServiceUnreachableError
	assert.ErrorAs(t, err, &unreachable)
}
