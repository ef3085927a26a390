package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/luxy-checkout/internal/application/ports"
	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/internal/domain/entity"
	"github.com/jhoicas/luxy-checkout/pkg/logger"
)

// Avisos no bloqueantes del pipeline.
const (
	NoticeQueued         = "Checkout saved offline. It will sync when the connection returns."
	NoticeDeliveryFailed = "Could not reach the server. Checkout saved offline and will sync later."
	NoticeNotDurable     = "Checkout could not be saved on this device. Offline durability is not guaranteed; keep the app open until it syncs."
)

// SignatureEncoder valida y comprime la firma antes de armar el registro.
// Devuelve domain.ErrMissingSignature para un lienzo vacío.
type SignatureEncoder interface {
	Encode(dataURL string) (string, error)
}

// Session estado de la sesión que SubmitCurrent consume y limpia (session.State).
type Session interface {
	CurrentEmployee() (entity.Employee, bool)
	Cart() []entity.CartLine
	Signature() string
	ClearCart()
	SetLast(record entity.CheckoutRecord, outcome entity.Outcome)
}

// SubmitInput datos de un retiro.
type SubmitInput struct {
	Employee  *entity.Employee
	Lines     []entity.CartLine
	Signature string
}

// SubmitResult resultado visible del envío.
type SubmitResult struct {
	Outcome entity.Outcome
	Record  entity.CheckoutRecord
	Message string // confirmación para la UI
	Notice  string // aviso no bloqueante; vacío si se entregó
}

// Pipeline arma el registro, intenta una entrega inmediata y, si no se confirma, lo encola.
type Pipeline struct {
	deliverer ports.CheckoutDeliverer
	queue     *PendingQueue
	conn      ports.ConnectivityReader
	encoder   SignatureEncoder
	notifier  ports.Notifier
	metrics   ports.Metrics
	log       *logger.Logger
	timeout   time.Duration
	now       func() time.Time
}

// NewPipeline construye el pipeline. encoder puede ser nil (la firma se envía tal cual).
func NewPipeline(
	deliverer ports.CheckoutDeliverer,
	queue *PendingQueue,
	conn ports.ConnectivityReader,
	encoder SignatureEncoder,
	notifier ports.Notifier,
	metrics ports.Metrics,
	log *logger.Logger,
	timeout time.Duration,
) *Pipeline {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Pipeline{
		deliverer: deliverer,
		queue:     queue,
		conn:      conn,
		encoder:   encoder,
		notifier:  notifier,
		metrics:   metrics,
		log:       log,
		timeout:   timeout,
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Submit entrega o encola un retiro. Solo devuelve error si falta una precondición
// (firma, empleado, carrito); en ese caso no se encola nada.
// Con las precondiciones cumplidas el resultado es siempre Delivered o Queued.
func (p *Pipeline) Submit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	signature, err := p.checkPreconditions(in)
	if err != nil {
		return SubmitResult{}, err
	}

	record := entity.NewCheckoutRecord(p.now(), *in.Employee, in.Lines, signature)
	log := p.log.Str("checkout_id", record.ID)

	if !p.conn.Online() {
		log.Info().Msg("sin conexión; retiro encolado sin intento de entrega")
		return p.enqueue(ctx, record, NoticeQueued), nil
	}

	result, err := p.deliver(ctx, record)
	p.metrics.ObserveDelivery(result.String())
	if err == nil && result == entity.DeliveryConfirmed {
		log.Info().Int("items", record.ItemCount()).Msg("retiro entregado")
		return SubmitResult{
			Outcome: entity.OutcomeDelivered,
			Record:  record,
			Message: confirmation(record.ItemCount(), false),
		}, nil
	}
	log.Warn().Err(err).Str("result", result.String()).Msg("entrega no confirmada; se encola")
	return p.enqueue(ctx, record, NoticeDeliveryFailed), nil
}

// SubmitCurrent envía el retiro armado en la sesión. Con cualquier resultado
// (entregado o encolado) vacía carrito y firma y recuerda el último retiro.
func (p *Pipeline) SubmitCurrent(ctx context.Context, sess Session) (SubmitResult, error) {
	in := SubmitInput{Lines: sess.Cart(), Signature: sess.Signature()}
	if emp, ok := sess.CurrentEmployee(); ok {
		in.Employee = &emp
	}
	res, err := p.Submit(ctx, in)
	if err != nil {
		return res, err
	}
	sess.ClearCart()
	sess.SetLast(res.Record, res.Outcome)
	return res, nil
}

func (p *Pipeline) checkPreconditions(in SubmitInput) (string, error) {
	if strings.TrimSpace(in.Signature) == "" {
		return "", domain.ErrMissingSignature
	}
	if in.Employee == nil {
		return "", domain.ErrNoEmployee
	}
	if len(in.Lines) == 0 {
		return "", domain.ErrEmptyCart
	}
	for _, l := range in.Lines {
		if l.Quantity < 1 {
			return "", domain.ErrInvalidQuantity
		}
	}
	if p.encoder == nil {
		return in.Signature, nil
	}
	return p.encoder.Encode(in.Signature)
}

func (p *Pipeline) deliver(ctx context.Context, record entity.CheckoutRecord) (entity.DeliveryResult, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.deliverer.Deliver(ctx, record)
}

func (p *Pipeline) enqueue(ctx context.Context, record entity.CheckoutRecord, notice string) SubmitResult {
	res := SubmitResult{
		Outcome: entity.OutcomeQueued,
		Record:  record,
		Message: confirmation(record.ItemCount(), true),
		Notice:  notice,
	}
	// El registro ya existe: un ctx cancelado no debe impedir guardarlo.
	if err := p.queue.Enqueue(context.WithoutCancel(ctx), record); err != nil {
		p.log.Error().Err(err).Str("checkout_id", record.ID).Msg("no se pudo persistir el retiro; queda en memoria")
		res.Notice = NoticeNotDurable
		p.notifier.Notify(ports.NoticeError, res.Notice)
	} else {
		p.notifier.Notify(ports.NoticeWarning, res.Notice)
	}
	p.metrics.SetPending(p.queue.Len(ctx))
	return res
}

// confirmation "3 items logged successfully" / "1 item logged (offline - will sync)".
func confirmation(n int, offline bool) string {
	plural := ""
	if n > 1 {
		plural = "s"
	}
	status := "successfully"
	if offline {
		status = "(offline - will sync)"
	}
	return fmt.Sprintf("%d item%s logged %s", n, plural, status)
}
