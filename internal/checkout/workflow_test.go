package checkout

import (
	"context"
	"sync"
	"testing"

	"github.com/o-complex/storefront-backend/internal/cart"
	pkgerrors "github.com/o-complex/storefront-backend/pkg/errors"
	"github.com/o-complex/storefront-backend/pkg/shop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlacer struct {
	mu     sync.Mutex
	orders []shop.OrderRequest
	fn     func(order shop.OrderRequest) shop.OrderResponse
}

func (f *fakePlacer) PlaceOrder(_ context.Context, order shop.OrderRequest) shop.OrderResponse {
	f.mu.Lock()
	f.orders = append(f.orders, order)
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(order)
	}
	return shop.OrderResponse{Success: 1}
}

type fakeJournal struct {
	mu          sync.Mutex
	submissions []Submission
}

func (f *fakeJournal) Record(_ context.Context, submission Submission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, submission)
}

func newCheckoutStore(t *testing.T) *cart.Store {
	t.Helper()
	store, err := cart.NewStore(context.Background(), cart.NewMemoryPersister())
	require.NoError(t, err)
	return store
}

func TestWorkflowSubmitEmptyCart(t *testing.T) {
	ctx := context.Background()
	placer := &fakePlacer{}
	workflow, err := NewWorkflow(placer, nil, nil)
	require.NoError(t, err)

	store := newCheckoutStore(t)
	require.NoError(t, store.SetPhone(ctx, "+7 (912) 345-67-89"))

	_, err = workflow.Submit(ctx, "session-1", store)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Empty(t, placer.orders, "validation failures must not reach the upstream")
}

func TestWorkflowSubmitInvalidPhone(t *testing.T) {
	ctx := context.Background()
	placer := &fakePlacer{}
	workflow, err := NewWorkflow(placer, nil, nil)
	require.NoError(t, err)

	store := newCheckoutStore(t)
	require.NoError(t, store.Add(ctx, shop.Product{ID: 1, Title: "Чайник", Price: 100}))
	require.NoError(t, store.SetPhone(ctx, "+7 912 345 67 8"))

	_, err = workflow.Submit(ctx, "session-1", store)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Empty(t, placer.orders)
	assert.False(t, store.IsEmpty(), "failed submission leaves the cart intact")
}

func TestWorkflowSubmitSuccess(t *testing.T) {
	ctx := context.Background()
	placer := &fakePlacer{}
	journal := &fakeJournal{}
	workflow, err := NewWorkflow(placer, journal, nil)
	require.NoError(t, err)

	store := newCheckoutStore(t)
	require.NoError(t, store.Add(ctx, shop.Product{ID: 1, Title: "Чайник", Price: 100}))
	require.NoError(t, store.Add(ctx, shop.Product{ID: 1, Title: "Чайник", Price: 100}))
	require.NoError(t, store.Add(ctx, shop.Product{ID: 2, Title: "Кружка", Price: 50}))
	require.NoError(t, store.SetPhone(ctx, "+7 (912) 345-67-89"))

	confirmation, err := workflow.Submit(ctx, "session-1", store)
	require.NoError(t, err)
	require.NotNil(t, confirmation)

	require.Len(t, placer.orders, 1)
	order := placer.orders[0]
	assert.Equal(t, "79123456789", order.Phone)
	require.Len(t, order.Cart, 2)
	assert.Equal(t, shop.OrderItem{ID: 1, Quantity: 2}, order.Cart[0])
	assert.Equal(t, shop.OrderItem{ID: 2, Quantity: 1}, order.Cart[1])

	// Confirmation reflects the cart as submitted even though it is now empty.
	assert.True(t, store.IsEmpty())
	require.Len(t, confirmation.Lines, 2)
	assert.Equal(t, "250", confirmation.Total.String())

	require.Len(t, journal.submissions, 1)
	assert.True(t, journal.submissions[0].Succeeded)
	assert.Equal(t, "session-1", journal.submissions[0].SessionID)
}

func TestWorkflowSubmitUpstreamRejection(t *testing.T) {
	ctx := context.Background()
	placer := &fakePlacer{fn: func(shop.OrderRequest) shop.OrderResponse {
		return shop.OrderResponse{Success: 0, Error: "товар закончился"}
	}}
	journal := &fakeJournal{}
	workflow, err := NewWorkflow(placer, journal, nil)
	require.NoError(t, err)

	store := newCheckoutStore(t)
	require.NoError(t, store.Add(ctx, shop.Product{ID: 1, Title: "Чайник", Price: 100}))
	require.NoError(t, store.SetPhone(ctx, "79123456789"))

	_, err = workflow.Submit(ctx, "session-1", store)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Equal(t, "товар закончился", typed.Message())

	assert.False(t, store.IsEmpty(), "rejected submission leaves the cart intact")
	require.Len(t, journal.submissions, 1)
	assert.False(t, journal.submissions[0].Succeeded)
	assert.Equal(t, "товар закончился", journal.submissions[0].UpstreamError)
}

func TestWorkflowSubmitSingleFlightPerSession(t *testing.T) {
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	placer := &fakePlacer{fn: func(shop.OrderRequest) shop.OrderResponse {
		close(entered)
		<-release
		return shop.OrderResponse{Success: 1}
	}}
	workflow, err := NewWorkflow(placer, nil, nil)
	require.NoError(t, err)

	store := newCheckoutStore(t)
	require.NoError(t, store.Add(ctx, shop.Product{ID: 1, Price: 10}))
	require.NoError(t, store.SetPhone(ctx, "79123456789"))

	done := make(chan error, 1)
	go func() {
		_, err := workflow.Submit(ctx, "session-1", store)
		done <- err
	}()
	<-entered

	_, err = workflow.Submit(ctx, "session-1", store)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	close(release)
	require.NoError(t, <-done)
}
