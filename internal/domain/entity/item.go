package entity

import "fmt"

// Item artículo de inventario disponible para retiro.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// Label texto para el selector: "Gloves (pair)".
func (i Item) Label() string {
	return fmt.Sprintf("%s (%s)", i.Name, i.Unit)
}
