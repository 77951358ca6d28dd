package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/orders"
	"storefront-service/internal/payments"
	"storefront-service/internal/stores/kafka"
	"storefront-service/pkg/ctxmanage"
	"storefront-service/pkg/logkey"
)

// Collaborator names carried by ConfigurationError and CollaboratorError.
const (
	PersistenceCollaborator = "order store"
	PaymentCollaborator     = "payment processor"
)

// OrderStore is the persistence collaborator.
type OrderStore interface {
	CreateOrder(ctx context.Context, rec orders.Record) (orders.Record, error)
}

// Publisher receives order events after a row has been written.
type Publisher interface {
	ProduceMessage(ctx context.Context, topic string, key, value []byte) error
}

// Notifier sends the shopper a confirmation once the order is recorded.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, rec orders.Record, o *orders.Order) error
}

type Gateway struct {
	store     OrderStore
	processor payments.Processor
	publisher Publisher
	notifier  Notifier
	now       func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

type Option func(*Gateway)

func WithPublisher(p Publisher) Option {
	return func(g *Gateway) { g.publisher = p }
}

func WithNotifier(n Notifier) Option {
	return func(g *Gateway) { g.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// NewGateway wires the collaborators. store or processor may be nil when the
// deployment lacks them; calls needing them then fail with a ConfigurationError.
func NewGateway(store OrderStore, processor payments.Processor, opts ...Option) *Gateway {
	g := &Gateway{
		store:     store,
		processor: processor,
		now:       time.Now,
		inFlight:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// PaymentsEnabled reports whether a payment processor is wired.
func (g *Gateway) PaymentsEnabled() bool {
	return g.processor != nil
}

// PendingPayment is a payable order created with the processor, awaiting shopper approval.
type PendingPayment struct {
	ProcessorOrderID string      `json:"id"`
	Processor        string      `json:"processor"`
	Totals           cart.Totals `json:"totals"`
}

// PaidOrder is the result of a captured and recorded payment.
type PaidOrder struct {
	Capture payments.Capture `json:"capture"`
	Order   orders.Record    `json:"order"`
}

// SubmitOrder validates the order and records it as pending.
func (g *Gateway) SubmitOrder(ctx context.Context, sessionID string, o *orders.Order) (orders.Record, error) {
	if err := validate(o); err != nil {
		return orders.Record{}, err
	}
	release, err := g.begin(sessionID, o.OrderID)
	if err != nil {
		return orders.Record{}, err
	}
	defer release()

	if g.store == nil {
		return orders.Record{}, &ConfigurationError{Collaborator: PersistenceCollaborator, Err: errors.New("no order store")}
	}

	stamped := g.withOrderDate(o)
	rec, err := orders.NewRecord(stamped, orders.StatusPending, nil)
	if err != nil {
		return orders.Record{}, &CollaboratorError{Collaborator: PersistenceCollaborator, Err: err}
	}
	inserted, err := g.store.CreateOrder(ctx, rec)
	if err != nil {
		return orders.Record{}, &CollaboratorError{Collaborator: PersistenceCollaborator, Err: err}
	}

	g.afterRecorded(ctx, kafka.TopicOrderCreated, inserted, stamped)
	return inserted, nil
}

// CreatePayment validates the order and asks the processor for a payable order sized
// to the order total. Nothing is recorded; an abandoned payment leaves no trace here.
func (g *Gateway) CreatePayment(ctx context.Context, sessionID string, o *orders.Order) (PendingPayment, error) {
	if err := validate(o); err != nil {
		return PendingPayment{}, err
	}
	release, err := g.begin(sessionID, o.OrderID)
	if err != nil {
		return PendingPayment{}, err
	}
	defer release()

	if g.processor == nil {
		return PendingPayment{}, &ConfigurationError{Collaborator: PaymentCollaborator, Err: payments.ErrNotConfigured}
	}

	totals := o.Totals()
	id, err := g.processor.CreateOrder(ctx, totals, o.Items)
	if err != nil {
		return PendingPayment{}, &CollaboratorError{Collaborator: PaymentCollaborator, Err: err}
	}
	return PendingPayment{ProcessorOrderID: id, Processor: g.processor.Name(), Totals: totals}, nil
}

// SubmitPaidOrder captures an approved payment and, only when the capture completed,
// records the order as paid.
func (g *Gateway) SubmitPaidOrder(ctx context.Context, sessionID string, o *orders.Order, processorOrderID string) (PaidOrder, error) {
	if err := validate(o); err != nil {
		return PaidOrder{}, err
	}
	if processorOrderID == "" {
		return PaidOrder{}, &ValidationError{Field: "orderID", Reason: "payment order id is required"}
	}
	release, err := g.begin(sessionID, o.OrderID)
	if err != nil {
		return PaidOrder{}, err
	}
	defer release()

	if g.processor == nil {
		return PaidOrder{}, &ConfigurationError{Collaborator: PaymentCollaborator, Err: payments.ErrNotConfigured}
	}
	// never capture without somewhere to record the order
	if g.store == nil {
		return PaidOrder{}, &ConfigurationError{Collaborator: PersistenceCollaborator, Err: errors.New("no order store")}
	}

	capture, err := g.processor.CaptureOrder(ctx, processorOrderID)
	if err != nil {
		return PaidOrder{}, &CollaboratorError{Collaborator: PaymentCollaborator, Err: err}
	}
	switch capture.Outcome {
	case payments.Succeeded:
	case payments.Declined:
		return PaidOrder{Capture: capture}, &CollaboratorError{
			Collaborator: PaymentCollaborator,
			Err:          fmt.Errorf("%w: %s", payments.ErrDeclined, capture.Reason),
		}
	default:
		return PaidOrder{Capture: capture}, &CollaboratorError{
			Collaborator: PaymentCollaborator,
			Err:          fmt.Errorf("capture failed: %s", capture.Reason),
		}
	}

	traceId := ctxmanage.GetTraceId(ctx)
	if !capture.Covers(o.Totals()) {
		mismatch := &AmountMismatchError{
			TransactionID:    capture.TransactionID,
			ProcessorOrderID: capture.ProcessorOrderID,
			Expected:         payments.ChargeAmount(o.Totals()),
			Captured:         capture.Amount,
			Currency:         capture.Currency,
		}
		slog.Error("captured amount does not match order total",
			slog.String(logkey.TraceID, traceId),
			slog.String(logkey.OrderID, o.OrderID),
			slog.String("TransactionID", capture.TransactionID),
			slog.String("ProcessorOrderID", capture.ProcessorOrderID),
			slog.String(logkey.ERROR, mismatch.Error()))
		return PaidOrder{Capture: capture}, mismatch
	}

	// recorded even if the shopper disconnects after capture
	ctx = context.WithoutCancel(ctx)

	stamped := g.withOrderDate(o)
	rec, err := orders.NewRecord(stamped, orders.StatusPaid, &orders.Payment{
		Method:           g.processor.Name(),
		TransactionID:    capture.TransactionID,
		ProcessorOrderID: capture.ProcessorOrderID,
	})
	if err == nil {
		var inserted orders.Record
		inserted, err = g.store.CreateOrder(ctx, rec)
		if err == nil {
			g.afterRecorded(ctx, kafka.TopicOrderPaid, inserted, stamped)
			return PaidOrder{Capture: capture, Order: inserted}, nil
		}
	}

	slog.Error("payment captured but order was not recorded",
		slog.String(logkey.TraceID, traceId),
		slog.String(logkey.OrderID, o.OrderID),
		slog.String("TransactionID", capture.TransactionID),
		slog.String("ProcessorOrderID", capture.ProcessorOrderID),
		slog.String(logkey.ERROR, err.Error()))
	return PaidOrder{Capture: capture}, &PostPaymentPersistenceError{
		TransactionID:    capture.TransactionID,
		ProcessorOrderID: capture.ProcessorOrderID,
		Cause:            &CollaboratorError{Collaborator: PersistenceCollaborator, Err: err},
	}
}

func validate(o *orders.Order) error {
	res := orders.Validate(o)
	if !res.Valid {
		return &ValidationError{Field: res.Field, Reason: res.Reason}
	}
	return nil
}

// begin marks the session as having a submission in flight. The session id falls
// back to the order id when the caller has no session.
func (g *Gateway) begin(sessionID, orderID string) (func(), error) {
	key := sessionID
	if key == "" {
		key = "order:" + orderID
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[key]; busy {
		return nil, ErrSubmissionInFlight
	}
	g.inFlight[key] = struct{}{}

	return func() {
		g.mu.Lock()
		delete(g.inFlight, key)
		g.mu.Unlock()
	}, nil
}

// withOrderDate returns a copy of o carrying the submission time when the
// client sent no order date. o itself is left untouched.
func (g *Gateway) withOrderDate(o *orders.Order) *orders.Order {
	stamped := *o
	if stamped.OrderDate.IsZero() {
		stamped.OrderDate = g.now().UTC()
	}
	return &stamped
}

// afterRecorded publishes the order event and sends the confirmation mail. Neither
// can fail the submission: the order row already exists.
func (g *Gateway) afterRecorded(ctx context.Context, topic string, rec orders.Record, o *orders.Order) {
	traceId := ctxmanage.GetTraceId(ctx)

	if g.publisher != nil {
		event, err := json.Marshal(kafka.OrderEvent{
			OrderID:       rec.OrderID,
			Status:        string(rec.Status),
			CustomerEmail: rec.CustomerEmail,
			OrderTotal:    rec.OrderTotal,
			PaymentID:     rec.PaymentID,
			CreatedAt:     g.now().UTC(),
		})
		if err == nil {
			err = g.publisher.ProduceMessage(ctx, topic, []byte(rec.OrderID), event)
		}
		if err != nil {
			slog.Error("failed to publish order event", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.OrderID, rec.OrderID), slog.String(logkey.ERROR, err.Error()))
		}
	}

	if g.notifier != nil {
		go func(ctx context.Context) {
			if err := g.notifier.SendOrderConfirmation(ctx, rec, o); err != nil {
				slog.Error("failed to send order confirmation", slog.String(logkey.TraceID, traceId),
					slog.String(logkey.OrderID, rec.OrderID), slog.String(logkey.ERROR, err.Error()))
			}
		}(context.WithoutCancel(ctx))
	}
}
