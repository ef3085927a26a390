// Package session contiene el estado explícito de la aplicación: datos de referencia
// en uso, empleado seleccionado, carrito, firma y avisos. Los componentes del pipeline
// lo poseen; la capa de presentación solo guarda una referencia y pide mutaciones.
package session

import (
	"sync"
	"time"

	"github.com/jhoicas/luxy-checkout/internal/application/ports"
	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/domain/entity"
)

const maxNotices = 20

var _ ports.Notifier = (*State)(nil)

// Notice aviso no bloqueante para el usuario.
type Notice struct {
	Level   string
	Message string
	At      time.Time
}

// LastCheckout último retiro enviado desde este dispositivo (para la confirmación y el recibo).
type LastCheckout struct {
	Record  entity.CheckoutRecord
	Outcome entity.Outcome
}

// State estado de la sesión del kiosko. Seguro para uso concurrente.
type State struct {
	mu sync.RWMutex

	employees []entity.Employee
	items     []entity.Item
	fetchedAt time.Time

	employee  *entity.Employee
	cart      []entity.CartLine
	signature string

	notices []Notice
	last    *LastCheckout

	now func() time.Time
}

// NewState construye un estado vacío.
func NewState() *State {
	return &State{now: time.Now}
}

// SetReference reemplaza completas las listas de empleados e ítems.
func (s *State) SetReference(snap entity.ReferenceSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = append([]entity.Employee(nil), snap.Employees...)
	s.items = append([]entity.Item(nil), snap.Items...)
	s.fetchedAt = snap.FetchedAt
}

// Reference devuelve una copia de los datos de referencia en uso.
func (s *State) Reference() entity.ReferenceSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entity.ReferenceSnapshot{
		Employees: append([]entity.Employee(nil), s.employees...),
		Items:     append([]entity.Item(nil), s.items...),
		FetchedAt: s.fetchedAt,
	}
}

// SelectEmployee fija el empleado actual a partir de su id.
func (s *State) SelectEmployee(id string) (entity.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.employees {
		if e.ID == id {
			emp := e
			s.employee = &emp
			return emp, nil
		}
	}
	return entity.Employee{}, domain.ErrUnknownEmployee
}

// CurrentEmployee devuelve el empleado seleccionado, si lo hay.
func (s *State) CurrentEmployee() (entity.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.employee == nil {
		return entity.Employee{}, false
	}
	return *s.employee, true
}

// AddToCart agrega una línea al final del carrito.
func (s *State) AddToCart(itemID string, quantity int) (entity.CartLine, error) {
	if quantity < 1 {
		return entity.CartLine{}, domain.ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == itemID {
			line := entity.NewCartLine(it, quantity)
			s.cart = append(s.cart, line)
			return line, nil
		}
	}
	return entity.CartLine{}, domain.ErrUnknownItem
}

// RemoveFromCart elimina la línea en la posición index.
func (s *State) RemoveFromCart(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.cart) {
		return domain.ErrNotFound
	}
	s.cart = append(s.cart[:index], s.cart[index+1:]...)
	return nil
}

// Cart copia del carrito en orden de inserción.
func (s *State) Cart() []entity.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.CartLine(nil), s.cart...)
}

// SetSignature guarda la imagen de la firma (data URL) tal como la entrega el pad.
func (s *State) SetSignature(dataURL string) {
	s.mu.Lock()
	s.signature = dataURL
	s.mu.Unlock()
}

// Signature devuelve la firma actual.
func (s *State) Signature() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signature
}

// ClearSignature borra la firma.
func (s *State) ClearSignature() {
	s.mu.Lock()
	s.signature = ""
	s.mu.Unlock()
}

// ClearCart vacía el carrito y la firma; el empleado se conserva para la confirmación.
func (s *State) ClearCart() {
	s.mu.Lock()
	s.cart = nil
	s.signature = ""
	s.mu.Unlock()
}

// Reset inicia un retiro nuevo: sin empleado, carrito ni firma.
func (s *State) Reset() {
	s.mu.Lock()
	s.employee = nil
	s.cart = nil
	s.signature = ""
	s.mu.Unlock()
}

// Notify implementa ports.Notifier; conserva los últimos avisos.
func (s *State) Notify(level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, Notice{Level: level, Message: message, At: s.now()})
	if len(s.notices) > maxNotices {
		s.notices = s.notices[len(s.notices)-maxNotices:]
	}
}

// Notices devuelve los avisos, del más viejo al más reciente.
func (s *State) Notices() []Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notice(nil), s.notices...)
}

// SetLast recuerda el último retiro enviado.
func (s *State) SetLast(record entity.CheckoutRecord, outcome entity.Outcome) {
	s.mu.Lock()
	s.last = &LastCheckout{Record: record, Outcome: outcome}
	s.mu.Unlock()
}

// Last devuelve el último retiro enviado, si lo hay.
func (s *State) Last() (LastCheckout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return LastCheckout{}, false
	}
	return *s.last, true
}
