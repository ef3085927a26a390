package entity

import "fmt"

// CartLine ítem del carrito con su cantidad (>= 1).
type CartLine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Quantity int    `json:"quantity"`
}

// NewCartLine copia los campos del ítem y fija la cantidad.
func NewCartLine(item Item, quantity int) CartLine {
	return CartLine{ID: item.ID, Name: item.Name, Unit: item.Unit, Quantity: quantity}
}

// Describe "3 pairs Gloves"; la unidad se pluraliza con "s" si la cantidad es > 1.
func (l CartLine) Describe() string {
	unit := l.Unit
	if l.Quantity > 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s %s", l.Quantity, unit, l.Name)
}
