// Package validation es la única frontera de confianza para datos de referencia
// recibidos del servicio remoto. El carrito y los retiros construidos localmente
// no se revalidan.
package validation

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/domain/entity"
)

// MaxElements tamaño máximo aceptado para cada lista.
const MaxElements = 1000

// ValidateEmployees valida la lista cruda (tal como la deja encoding/json) y
// devuelve empleados con campos truncados a sus longitudes máximas.
func ValidateEmployees(raw any) ([]entity.Employee, error) {
	list, err := asList("employees", raw)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Employee, 0, len(list))
	for i, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, &domain.SchemaError{Kind: "employees", Index: i, Reason: "se esperaba un objeto"}
		}
		id, err := requiredString("employees", i, obj, "id")
		if err != nil {
			return nil, err
		}
		name, err := requiredString("employees", i, obj, "name")
		if err != nil {
			return nil, err
		}
		out = append(out, entity.Employee{
			ID:   truncate(id, entity.MaxIDLength),
			Name: truncate(norm.NFC.String(name), entity.MaxNameLength),
		})
	}
	return out, nil
}

// ValidateItems igual que ValidateEmployees; además exige unit.
func ValidateItems(raw any) ([]entity.Item, error) {
	list, err := asList("items", raw)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Item, 0, len(list))
	for i, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, &domain.SchemaError{Kind: "items", Index: i, Reason: "se esperaba un objeto"}
		}
		id, err := requiredString("items", i, obj, "id")
		if err != nil {
			return nil, err
		}
		name, err := requiredString("items", i, obj, "name")
		if err != nil {
			return nil, err
		}
		unit, err := requiredString("items", i, obj, "unit")
		if err != nil {
			return nil, err
		}
		out = append(out, entity.Item{
			ID:   truncate(id, entity.MaxIDLength),
			Name: truncate(norm.NFC.String(name), entity.MaxNameLength),
			Unit: truncate(norm.NFC.String(unit), entity.MaxUnitLength),
		})
	}
	return out, nil
}

func asList(kind string, raw any) ([]any, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, &domain.SchemaError{Kind: kind, Index: -1, Reason: fmt.Sprintf("se esperaba un arreglo, llegó %T", raw)}
	}
	if len(list) > MaxElements {
		return nil, &domain.SchemaError{Kind: kind, Index: -1, Reason: fmt.Sprintf("demasiados elementos: %d", len(list))}
	}
	return list, nil
}

func requiredString(kind string, i int, obj map[string]any, field string) (string, error) {
	s, ok := obj[field].(string)
	if !ok || s == "" {
		return "", &domain.SchemaError{Kind: kind, Index: i, Reason: fmt.Sprintf("%s debe ser un string no vacío", field)}
	}
	return s, nil
}

// truncate corta por runas, nunca a mitad de un carácter. Los ids se cortan sin
// normalizar: son claves del backend y deben viajar byte a byte como llegaron.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
