package cart

import (
	"context"

	"github.com/o-complex/storefront-backend/pkg/shop"
	"github.com/shopspring/decimal"
)

// Line is one cart entry: a product snapshot and its quantity. The snapshot is
// taken at add time so totals stay computable even if the live catalog changes.
type Line struct {
	ProductID int          `json:"id"`
	Quantity  int          `json:"quantity"`
	Product   shop.Product `json:"product"`
}

// State is the full serializable cart: ordered lines plus the contact phone.
// Line order is insertion order and doubles as display order.
type State struct {
	Lines []Line `json:"items"`
	Phone string `json:"phone"`
}

// Store is the single source of truth for one session's cart. Every mutation
// synchronously persists the whole state through the configured Persister.
// A Store is built per request; cross-request races resolve last-writer-wins.
type Store struct {
	state     State
	persister Persister
}

// NewStore builds a store rehydrated from prior persisted state, starting
// empty when none exists.
func NewStore(ctx context.Context, persister Persister) (*Store, error) {
	s := &Store{persister: persister}
	if persister == nil {
		return s, nil
	}
	state, ok, err := persister.Load(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		s.state = state
	}
	return s, nil
}

// Add increments the line for the product by one, inserting a new line with a
// product snapshot when none exists yet.
func (s *Store) Add(ctx context.Context, product shop.Product) error {
	for i := range s.state.Lines {
		if s.state.Lines[i].ProductID == product.ID {
			s.state.Lines[i].Quantity++
			return s.persist(ctx)
		}
	}
	s.state.Lines = append(s.state.Lines, Line{
		ProductID: product.ID,
		Quantity:  1,
		Product:   product,
	})
	return s.persist(ctx)
}

// Remove deletes the line for the product if present; absent is a no-op.
func (s *Store) Remove(ctx context.Context, productID int) error {
	for i := range s.state.Lines {
		if s.state.Lines[i].ProductID == productID {
			s.state.Lines = append(s.state.Lines[:i], s.state.Lines[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

// SetQuantity sets the line's quantity. A quantity of zero or less removes the
// line. Setting a quantity for a product not in the cart creates nothing.
func (s *Store) SetQuantity(ctx context.Context, productID, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, productID)
	}
	for i := range s.state.Lines {
		if s.state.Lines[i].ProductID == productID {
			s.state.Lines[i].Quantity = quantity
			return s.persist(ctx)
		}
	}
	return nil
}

// Clear empties all lines. The phone number is preserved.
func (s *Store) Clear(ctx context.Context) error {
	if len(s.state.Lines) == 0 {
		return nil
	}
	s.state.Lines = nil
	return s.persist(ctx)
}

// SetPhone overwrites the stored phone string verbatim; normalization is the
// caller's concern.
func (s *Store) SetPhone(ctx context.Context, phone string) error {
	s.state.Phone = phone
	return s.persist(ctx)
}

// TotalItemCount sums the quantities of all lines.
func (s *Store) TotalItemCount() int {
	total := 0
	for _, line := range s.state.Lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice sums quantity times snapshot price over all lines. A missing
// snapshot price counts as zero, so the total never fails to compute.
func (s *Store) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.state.Lines {
		price := decimal.NewFromFloat(line.Product.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []Line {
	lines := make([]Line, len(s.state.Lines))
	copy(lines, s.state.Lines)
	return lines
}

// Phone returns the stored contact phone as entered.
func (s *Store) Phone() string {
	return s.state.Phone
}

// IsEmpty reports whether the cart holds no lines.
func (s *Store) IsEmpty() bool {
	return len(s.state.Lines) == 0
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	return State{Lines: s.Lines(), Phone: s.state.Phone}
}

func (s *Store) persist(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	return s.persister.Save(ctx, s.Snapshot())
}
