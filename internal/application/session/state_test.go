package session_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/luxy-checkout/internal/application/session"
	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/domain/entity"
)

func newState() *session.State {
	st := session.NewState()
	st.SetReference(entity.ReferenceSnapshot{
		Employees: []entity.Employee{{ID: "e1", Name: "Alice"}},
		Items: []entity.Item{
			{ID: "i1", Name: "Gloves", Unit: "pair"},
			{ID: "i2", Name: "Tape", Unit: "roll"},
		},
	})
	return st
}

func TestState_CarritoEnOrdenDeInsercion(t *testing.T) {
	st := newState()
	_, err := st.AddToCart("i1", 3)
	require.NoError(t, err)
	_, err = st.AddToCart("i2", 1)
	require.NoError(t, err)
	_, err = st.AddToCart("i1", 2)
	require.NoError(t, err)

	require.NoError(t, st.RemoveFromCart(1))
	cart := st.Cart()
	require.Len(t, cart, 2)
	assert.Equal(t, 3, cart[0].Quantity)
	assert.Equal(t, 2, cart[1].Quantity)
	assert.Equal(t, "3 pairs Gloves", cart[0].Describe())
}

func TestState_AddToCart_Validaciones(t *testing.T) {
	st := newState()
	_, err := st.AddToCart("i1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = st.AddToCart("nope", 1)
	assert.ErrorIs(t, err, domain.ErrUnknownItem)
	assert.ErrorIs(t, st.RemoveFromCart(0), domain.ErrNotFound)
}

func TestState_SelectEmployeeYReset(t *testing.T) {
	st := newState()
	_, err := st.SelectEmployee("zz")
	assert.ErrorIs(t, err, domain.ErrUnknownEmployee)

	emp, err := st.SelectEmployee("e1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", emp.Name)
	st.SetSignature("data:image/png;base64,AAAA")
	_, _ = st.AddToCart("i1", 1)

	st.ClearCart()
	assert.Empty(t, st.Cart())
	assert.Empty(t, st.Signature())
	_, ok := st.CurrentEmployee()
	assert.True(t, ok, "ClearCart conserva el empleado")

	st.Reset()
	_, ok = st.CurrentEmployee()
	assert.False(t, ok)
}

func TestState_NoticesAcotados(t *testing.T) {
	st := session.NewState()
	for i := 0; i < 25; i++ {
		st.Notify("info", fmt.Sprintf("aviso %d", i))
	}
	notices := st.Notices()
	require.Len(t, notices, 20)
	assert.Equal(t, "aviso 5", notices[0].Message)
	assert.Equal(t, "aviso 24", notices[19].Message)
}
