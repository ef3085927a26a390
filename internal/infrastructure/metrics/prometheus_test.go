package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/luxy-checkout/internal/infrastructure/metrics"
)

func TestPrometheus_RegistraActividad(t *testing.T) {
	p := metrics.NewPrometheus("kiosk-1")
	p.ObserveDelivery("confirmed")
	p.ObserveDelivery("unknown")
	p.ObserveSync(3, 2)
	p.SetPending(1)
	p.SetOnline(true)

	expected := `
# HELP luxy_checkout_pending_checkouts Retiros en la cola de pendientes.
# TYPE luxy_checkout_pending_checkouts gauge
luxy_checkout_pending_checkouts{device="kiosk-1"} 1
`
	require.NoError(t, testutil.GatherAndCompare(p.Registry(), strings.NewReader(expected), "luxy_checkout_pending_checkouts"))

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `luxy_checkout_deliveries_total{device="kiosk-1",result="confirmed"} 1`)
	assert.Contains(t, string(body), `luxy_checkout_sync_succeeded_total{device="kiosk-1"} 2`)
	assert.Contains(t, string(body), `luxy_checkout_online{device="kiosk-1"} 1`)
}
