package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/domain/entity"
	"github.com/jhoicas/luxy-checkout/internal/infrastructure/remote"
)

func record() entity.CheckoutRecord {
	return entity.NewCheckoutRecord(
		time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		entity.Employee{ID: "e1", Name: "Alice"},
		[]entity.CartLine{{ID: "i1", Name: "Gloves", Unit: "pair", Quantity: 3}},
		"data:image/jpeg;base64,AAAA",
	)
}

func TestFetch_EmpleadosEItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Query().Get("action") {
		case "getEmployees":
			_, _ = w.Write([]byte(`{"employees":[{"id":"e1","name":"Alice"}]}`))
		case "getItems":
			_, _ = w.Write([]byte(`{"other":1}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()
	c := remote.NewClient(remote.Options{BaseURL: srv.URL})

	emps, err := c.FetchEmployees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entity.Employee{{ID: "e1", Name: "Alice"}}, emps)

	items, err := c.FetchItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items, "clave ausente equivale a lista vacía")
}

func TestFetch_ErroresDeTransporteYEsquema(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") == "getEmployees" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"items":[{"id":"i1","name":"Gloves"}]}`))
	}))
	defer srv.Close()
	c := remote.NewClient(remote.Options{BaseURL: srv.URL})

	_, err := c.FetchEmployees(context.Background())
	var terr *domain.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusServiceUnavailable, terr.StatusCode)

	_, err = c.FetchItems(context.Background())
	assert.ErrorIs(t, err, domain.ErrSchema)
}

func TestDeliver_ModoJSON(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   entity.DeliveryResult
		err    bool
	}{
		{"confirmado", 200, `{"success":true}`, entity.DeliveryConfirmed, false},
		{"rechazado", 200, `{"success":false,"error":"hoja llena"}`, entity.DeliveryRejected, false},
		{"ilegible", 200, `<html>ok</html>`, entity.DeliveryUnknown, false},
		{"sin bandera", 200, `{}`, entity.DeliveryUnknown, false},
		{"error http", 500, `{"success":true}`, entity.DeliveryUnknown, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got map[string]any
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := remote.NewClient(remote.Options{BaseURL: srv.URL, Mode: remote.ModeJSON, IncludeSignature: true})
			res, err := c.Deliver(context.Background(), record())
			assert.Equal(t, tc.want, res)
			if tc.err {
				assert.ErrorIs(t, err, domain.ErrTransport)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, "submitCheckout", got["action"])
			assert.Equal(t, "2026-05-01T09:00:00.000Z", got["timestamp"])
			assert.Equal(t, "data:image/jpeg;base64,AAAA", got["signature"])
		})
	}
}

func TestDeliver_FireAndForgetNuncaConfirma(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := remote.NewClient(remote.Options{BaseURL: srv.URL, Mode: remote.ModeFireAndForget, IncludeSignature: true})
	res, err := c.Deliver(context.Background(), record())
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryUnknown, res)
	assert.NotContains(t, got, "signature")
}

func TestDeliver_TimeoutEsErrorDeTransporte(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	res, err := remote.NewClient(remote.Options{BaseURL: srv.URL}).Deliver(ctx, record())
	assert.Equal(t, entity.DeliveryUnknown, res)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusFound)
	}))
	c := remote.NewClient(remote.Options{BaseURL: srv.URL, HTTPClient: &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}})
	assert.NoError(t, c.Probe(context.Background()))

	srv.Close()
	assert.ErrorIs(t, c.Probe(context.Background()), domain.ErrTransport)
}
