package entity

// Longitudes máximas aceptadas para datos de referencia.
const (
	MaxIDLength   = 50
	MaxNameLength = 100
	MaxUnitLength = 20
)

// Employee trabajador que retira material. Se reemplaza completo en cada refresco.
type Employee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
