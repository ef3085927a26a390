package ports

// Metrics registra la actividad del pipeline. La implementación Prometheus vive en
// infrastructure/metrics; NopMetrics sirve cuando no se exponen métricas.
type Metrics interface {
	ObserveDelivery(result string)
	ObserveSync(attempted, succeeded int)
	SetPending(n int)
	SetOnline(online bool)
}

// NopMetrics descarta todo.
type NopMetrics struct{}

func (NopMetrics) ObserveDelivery(string) {}
func (NopMetrics) ObserveSync(int, int)   {}
func (NopMetrics) SetPending(int)         {}
func (NopMetrics) SetOnline(bool)         {}
