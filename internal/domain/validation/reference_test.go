package validation_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/domain/validation"
)

// decode simula lo que entrega encoding/json al leer la respuesta remota.
func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestValidateEmployees_OK(t *testing.T) {
	got, err := validation.ValidateEmployees(decode(t, `[{"id":"e1","name":"Alice"},{"id":"e2","name":"Bob","extra":1}]`))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, "Alice", got[0].Name)
	assert.Equal(t, "Bob", got[1].Name)
}

func TestValidateEmployees_TruncaNombreLargo(t *testing.T) {
	long := strings.Repeat("a", 150)
	got, err := validation.ValidateEmployees([]any{map[string]any{"id": "e1", "name": long}})
	require.NoError(t, err)
	assert.Len(t, got[0].Name, 100, "el nombre se trunca en silencio a 100 caracteres")
}

func TestValidateEmployees_TruncaPorRunas(t *testing.T) {
	long := strings.Repeat("ñ", 120)
	got, err := validation.ValidateEmployees([]any{map[string]any{"id": strings.Repeat("x", 60), "name": long}})
	require.NoError(t, err)
	assert.Equal(t, 100, len([]rune(got[0].Name)))
	assert.Len(t, got[0].ID, 50)
}

func TestValidateEmployees_IDSeConservaByteAByte(t *testing.T) {
	decomposed := "jose\u0301-01"
	got, err := validation.ValidateEmployees([]any{map[string]any{"id": decomposed, "name": "jose\u0301"}})
	require.NoError(t, err)
	assert.Equal(t, []byte(decomposed), []byte(got[0].ID), "el id es clave del backend y no se normaliza")
	assert.Equal(t, "jos\u00e9", got[0].Name, "el nombre visible sí se normaliza a NFC")
}

func TestValidateItems_IDSeConservaByteAByte(t *testing.T) {
	decomposed := "guante\u0301-1"
	got, err := validation.ValidateItems([]any{map[string]any{"id": decomposed, "name": "Guantes", "unit": "par"}})
	require.NoError(t, err)
	assert.Equal(t, decomposed, got[0].ID)
}

func TestValidateEmployees_RechazaMasDeMil(t *testing.T) {
	list := make([]any, 1001)
	for i := range list {
		list[i] = map[string]any{"id": "e", "name": "n"}
	}
	_, err := validation.ValidateEmployees(list)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchema)

	_, err = validation.ValidateEmployees(list[:1000])
	assert.NoError(t, err, "1000 elementos está en el límite permitido")
}

func TestValidateEmployees_RechazaNoArreglo(t *testing.T) {
	_, err := validation.ValidateEmployees(decode(t, `{"id":"e1"}`))
	var se *domain.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, -1, se.Index)
}

func TestValidateEmployees_RechazaCamposInvalidos(t *testing.T) {
	cases := map[string]string{
		"sin id":       `[{"name":"Alice"}]`,
		"id vacío":     `[{"id":"","name":"Alice"}]`,
		"id numérico":  `[{"id":7,"name":"Alice"}]`,
		"sin nombre":   `[{"id":"e1"}]`,
		"no es objeto": `["e1"]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := validation.ValidateEmployees(decode(t, body))
			var se *domain.SchemaError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, 0, se.Index)
			assert.Equal(t, "employees", se.Kind)
		})
	}
}

func TestValidateItems_OK(t *testing.T) {
	got, err := validation.ValidateItems(decode(t, `[{"id":"i1","name":"Gloves","unit":"pair"}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Gloves (pair)", got[0].Label())
}

func TestValidateItems_ExigeUnidad(t *testing.T) {
	_, err := validation.ValidateItems(decode(t, `[{"id":"i1","name":"Gloves","unit":"pair"},{"id":"i2","name":"Tape"}]`))
	var se *domain.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Index)
	assert.Contains(t, se.Error(), "unit")
}

func TestValidateItems_TruncaUnidad(t *testing.T) {
	got, err := validation.ValidateItems([]any{map[string]any{"id": "i1", "name": "Gloves", "unit": strings.Repeat("u", 30)}})
	require.NoError(t, err)
	assert.Len(t, got[0].Unit, 20)
}
