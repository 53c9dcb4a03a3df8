package adisyo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/cfg"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okBody = `{
  "status": 100,
  "message": "OK",
  "data": [
    {
      "categoryName": "İçecekler",
      "products": [
        {
          "productName": "Ayran",
          "taxRate": 10,
          "productUnits": [
            {"unitName": "Büyük", "isDefault": false, "prices": [{"price": 40, "orderType": 1}]},
            {"unitName": "Adet", "isDefault": true, "prices": [
              {"price": 30, "orderType": 2},
              {"price": 25.5, "orderType": 1}
            ]}
          ]
        }
      ]
    },
    {"categoryName": "Boş", "products": []}
  ]
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return NewClient(&cfg.AdisyoCfg{
		URL:        srv.URL,
		APIKey:     "key",
		APISecret:  "secret",
		ConsumerID: "consumer",
		Timeout:    2 * time.Second,
		MaxRetries: 3,
	}, logger.NewNopLogger())
}

func TestFetchCatalog_MapsPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, "secret", r.Header.Get("x-api-secret"))
		assert.Equal(t, "consumer", r.Header.Get("x-api-consumer"))
		_, _ = w.Write([]byte(okBody))
	})

	catalog, err := c.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	assert.Equal(t, "İçecekler", catalog[0].Name)
	require.Len(t, catalog[0].Products, 1)
	p := catalog[0].Products[0]
	assert.Equal(t, "Ayran", p.Name)
	assert.True(t, decimal.NewFromInt(10).Equal(p.TaxRate))

	unit, ok := p.DefaultUnit()
	require.True(t, ok)
	assert.Equal(t, "Adet", unit.Name)
	assert.True(t, decimal.RequireFromString("25.5").Equal(unit.DefaultPrice()))

	assert.Empty(t, catalog[1].Products)
}

func TestFetchCatalog_RateLimit(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(StatusRateLimited)
	})

	_, err := c.FetchCatalog(context.Background())
	require.ErrorIs(t, err, e.ErrRateLimited)

	d, ok := e.ParseRateLimitMessage(err.Error())
	require.True(t, ok)
	assert.Equal(t, 180*time.Second, d)
	assert.EqualValues(t, 1, calls.Load())
}

func TestFetchCatalog_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.FetchCatalog(context.Background())
	assert.ErrorIs(t, err, e.ErrCatalogAuth)
}

func TestFetchCatalog_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such consumer", http.StatusNotFound)
	})

	_, err := c.FetchCatalog(context.Background())
	require.ErrorIs(t, err, e.ErrCatalogFetch)
	assert.Contains(t, err.Error(), "no such consumer")
	assert.EqualValues(t, 1, calls.Load())
}

func TestFetchCatalog_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(okBody))
	})

	catalog, err := c.FetchCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog, 2)
	assert.EqualValues(t, 2, calls.Load())
}

func TestFetchCatalog_ApplicationStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": 104, "message": "Consumer is not active", "data": null}`))
	})

	_, err := c.FetchCatalog(context.Background())
	require.ErrorIs(t, err, e.ErrCatalogStatus)
	assert.Contains(t, err.Error(), "Consumer is not active")
}

func TestFetchCatalog_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "not json",
			body: `<html>maintenance</html>`,
		},
		{
			name: "missing product name",
			body: `{"status":100,"data":[{"categoryName":"A","products":[{"taxRate":8,"productUnits":[]}]}]}`,
			want: "ProductName",
		},
		{
			name: "missing tax rate",
			body: `{"status":100,"data":[{"categoryName":"A","products":[{"productName":"Su","productUnits":[]}]}]}`,
			want: "TaxRate",
		},
		{
			name: "negative price",
			body: `{"status":100,"data":[{"categoryName":"A","products":[{"productName":"Su","taxRate":8,
				"productUnits":[{"unitName":"Adet","isDefault":true,"prices":[{"price":-1,"orderType":1}]}]}]}]}`,
			want: "Price",
		},
		{
			name: "empty category name",
			body: `{"status":100,"data":[{"categoryName":"","products":[]}]}`,
			want: "CategoryName",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.FetchCatalog(context.Background())
			require.ErrorIs(t, err, e.ErrCatalogInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFetchCatalog_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.FetchCatalog(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
