package connectivity_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/luxy-checkout/internal/application/connectivity"
	"github.com/jhoicas/luxy-checkout/pkg/logger"
)

type toggleProber struct{ down atomic.Bool }

func (p *toggleProber) Probe(context.Context) error {
	if p.down.Load() {
		return errors.New("sin red")
	}
	return nil
}

func TestMonitor_EventosSoloEnTransiciones(t *testing.T) {
	m := connectivity.NewMonitor(false, nil, nil, logger.Nop())
	events := m.Subscribe()

	assert.False(t, m.SetOnline(false))
	assert.True(t, m.SetOnline(true))
	assert.False(t, m.SetOnline(true))
	assert.True(t, m.SetOnline(false))
	assert.False(t, m.Online())

	assert.Equal(t, connectivity.BecameOnline, <-events)
	assert.Equal(t, connectivity.BecameOffline, <-events)
	select {
	case ev := <-events:
		t.Fatalf("evento inesperado %v", ev)
	default:
	}
}

func TestMonitor_CloseCierraSuscripciones(t *testing.T) {
	m := connectivity.NewMonitor(true, nil, nil, logger.Nop())
	events := m.Subscribe()
	m.Close()

	_, ok := <-events
	assert.False(t, ok)
	assert.False(t, m.SetOnline(false))

	_, ok = <-m.Subscribe()
	assert.False(t, ok)
}

func TestMonitor_SondeoActualizaEstado(t *testing.T) {
	p := &toggleProber{}
	p.down.Store(true)
	m := connectivity.NewMonitor(true, p, nil, logger.Nop())
	events := m.Subscribe()

	assert.False(t, m.ProbeOnce(context.Background()))
	assert.Equal(t, connectivity.BecameOffline, <-events)

	p.down.Store(false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx, 10*time.Millisecond)

	select {
	case ev := <-events:
		assert.Equal(t, connectivity.BecameOnline, ev)
	case <-time.After(time.Second):
		t.Fatal("el sondeo no detectó la reconexión")
	}
	require.True(t, m.Online())
}

func TestStatus_Texto(t *testing.T) {
	cases := []struct {
		online  bool
		pending int
		want    string
	}{
		{true, 0, "Online"},
		{true, 2, "Online, 2 pending"},
		{false, 0, "Offline"},
		{false, 1, "Offline, 1 pending"},
	}
	for _, tc := range cases {
		s := connectivity.NewStatus(tc.online, tc.pending)
		assert.Equal(t, tc.want, s.Text)
		assert.Equal(t, tc.pending, s.Pending)
	}
}
