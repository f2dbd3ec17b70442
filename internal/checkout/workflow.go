package checkout

import (
	"context"
	"sync"

	"github.com/o-complex/storefront-backend/internal/cart"
	pkgerrors "github.com/o-complex/storefront-backend/pkg/errors"
	"github.com/o-complex/storefront-backend/pkg/logger"
	"github.com/o-complex/storefront-backend/pkg/shop"
	"github.com/shopspring/decimal"
)

// Phase names one step of the submission state machine.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// OrderPlacer submits an order upstream; satisfied by internal/catalog.Service.
// Its verdict is always upstream-shaped: transport failures arrive as an
// explicit-failure response, never as an error.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order shop.OrderRequest) shop.OrderResponse
}

// Journal records submission outcomes out of band; failures to journal never
// affect the checkout result.
type Journal interface {
	Record(ctx context.Context, submission Submission)
}

// Submission is what the journal receives for one completed attempt.
type Submission struct {
	SessionID     string
	Phone         string
	Lines         []cart.Line
	Total         decimal.Decimal
	Succeeded     bool
	UpstreamError string
}

// Confirmation snapshots the submitted cart for display. The snapshot is taken
// before the cart is cleared, because clearing destroys the data the
// confirmation needs to render.
type Confirmation struct {
	Lines []cart.Line
	Total decimal.Decimal
}

// Workflow drives a cart through validation, one order submission, and the
// success or failure transition. At most one submission may be in flight per
// session; failure is always non-destructive to the cart.
type Workflow struct {
	placer  OrderPlacer
	journal Journal
	logg    *logger.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewWorkflow builds the checkout workflow. The journal is optional.
func NewWorkflow(placer OrderPlacer, journal Journal, logg *logger.Logger) (*Workflow, error) {
	if placer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order placer required")
	}
	return &Workflow{
		placer:   placer,
		journal:  journal,
		logg:     logg,
		inFlight: map[string]struct{}{},
	}, nil
}

// Submit validates the session's cart and phone, performs exactly one order
// round-trip, and on explicit success clears the cart and returns the
// confirmation snapshot. Every other outcome leaves the cart untouched.
func (w *Workflow) Submit(ctx context.Context, sessionID string, store *cart.Store) (*Confirmation, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store required")
	}
	if !w.begin(sessionID) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "заказ уже оформляется")
	}
	defer w.end(sessionID)

	w.transition(ctx, PhaseValidating)
	digits, err := ValidatePhone(store.Phone())
	if err != nil {
		w.transition(ctx, PhaseFailed)
		return nil, err
	}
	if store.IsEmpty() {
		w.transition(ctx, PhaseFailed)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "корзина пуста")
	}

	lines := store.Lines()
	order := shop.OrderRequest{
		Phone: digits,
		Cart:  make([]shop.OrderItem, 0, len(lines)),
	}
	for _, line := range lines {
		order.Cart = append(order.Cart, shop.OrderItem{ID: line.ProductID, Quantity: line.Quantity})
	}

	w.transition(ctx, PhaseSubmitting)
	resp := w.placer.PlaceOrder(ctx, order)

	if !resp.Accepted() {
		w.transition(ctx, PhaseFailed)
		w.record(ctx, Submission{
			SessionID:     sessionID,
			Phone:         digits,
			Lines:         lines,
			Total:         store.TotalPrice(),
			UpstreamError: resp.Error,
		})
		message := resp.Error
		if message == "" {
			message = "Произошла ошибка при оформлении заказа"
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, message)
	}

	confirmation := &Confirmation{Lines: lines, Total: store.TotalPrice()}

	w.transition(ctx, PhaseSucceeded)
	if err := store.Clear(ctx); err != nil && w.logg != nil {
		// The upstream accepted the order; a failed cart clear is not
		// grounds to report failure.
		w.logg.Error(ctx, "clearing cart after accepted order failed", err)
	}

	w.record(ctx, Submission{
		SessionID: sessionID,
		Phone:     digits,
		Lines:     confirmation.Lines,
		Total:     confirmation.Total,
		Succeeded: true,
	})

	return confirmation, nil
}

func (w *Workflow) begin(sessionID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inFlight[sessionID]; busy {
		return false
	}
	w.inFlight[sessionID] = struct{}{}
	return true
}

func (w *Workflow) end(sessionID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, sessionID)
}

func (w *Workflow) transition(ctx context.Context, phase Phase) {
	if w.logg == nil {
		return
	}
	w.logg.Info(w.logg.WithField(ctx, "phase", string(phase)), "checkout.transition")
}

func (w *Workflow) record(ctx context.Context, submission Submission) {
	if w.journal == nil {
		return
	}
	w.journal.Record(ctx, submission)
}
