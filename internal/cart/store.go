package cart

import (
	"context"
	"fmt"

	"github.com/blackboxinc/storefront-backend/pkg/logger"
)

// Repository is the persistence port for serialized cart state. The store is
// the sole writer; durable storage is a convenience cache, not the source of
// truth, so implementations report errors and the store decides to degrade.
type Repository interface {
	Load(ctx context.Context, shopperID string) (State, error)
	Save(ctx context.Context, shopperID string, state State) error
}

// Store owns every cart line exclusively. All mutation goes through its
// operations: each one loads the shopper's state, applies a pure transition,
// then re-serializes the whole state synchronously before returning. Save
// failures are logged and swallowed; load failures degrade to an empty cart.
type Store struct {
	repo Repository
	logg *logger.Logger
}

// NewStore builds a cart store over the given persistence port.
func NewStore(repo Repository, logg *logger.Logger) (*Store, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &Store{repo: repo, logg: logg}, nil
}

// Current returns the shopper's cart, rehydrated from storage. Absent or
// corrupt data yields an empty cart, never an error.
func (s *Store) Current(ctx context.Context, shopperID string) State {
	state, err := s.repo.Load(ctx, shopperID)
	if err != nil {
		s.warn(ctx, shopperID, "cart load failed, starting empty", err)
		return State{Lines: []Line{}}
	}
	if state.Lines == nil {
		state.Lines = []Line{}
	}
	return state
}

// AddItem merges the selection into the cart. The explicit variant id wins
// over the one embedded on the item; both default to 0.
func (s *Store) AddItem(ctx context.Context, shopperID string, item Item, variantID int64) State {
	return s.mutate(ctx, shopperID, func(state State) State {
		return add(state, item, variantID)
	})
}

// RemoveItem deletes the line with the given composite key.
func (s *Store) RemoveItem(ctx context.Context, shopperID, cartID string) State {
	return s.mutate(ctx, shopperID, func(state State) State {
		return remove(state, cartID)
	})
}

// IncreaseItemQuantity bumps the matching line by one.
func (s *Store) IncreaseItemQuantity(ctx context.Context, shopperID, cartID string) State {
	return s.mutate(ctx, shopperID, func(state State) State {
		return increase(state, cartID)
	})
}

// DecreaseItemQuantity lowers the matching line by one; at quantity 1 the
// line is removed.
func (s *Store) DecreaseItemQuantity(ctx context.Context, shopperID, cartID string) State {
	return s.mutate(ctx, shopperID, func(state State) State {
		return decrease(state, cartID)
	})
}

// ClearCart empties the line list unconditionally.
func (s *Store) ClearCart(ctx context.Context, shopperID string) State {
	return s.mutate(ctx, shopperID, clear)
}

// Open marks the cart drawer visible.
func (s *Store) Open(ctx context.Context, shopperID string) State {
	return s.mutate(ctx, shopperID, func(state State) State {
		state = cloneState(state)
		state.Open = true
		return state
	})
}

// Close marks the cart drawer hidden.
func (s *Store) Close(ctx context.Context, shopperID string) State {
	return s.mutate(ctx, shopperID, func(state State) State {
		state = cloneState(state)
		state.Open = false
		return state
	})
}

// Toggle flips the drawer visibility flag without touching line data.
func (s *Store) Toggle(ctx context.Context, shopperID string) State {
	return s.mutate(ctx, shopperID, func(state State) State {
		state = cloneState(state)
		state.Open = !state.Open
		return state
	})
}

// mutate is load-transition-save without cross-request locking: concurrent
// mutations of one shopper's cart resolve last-write-wins. Carts are driven
// by a single shopper's UI, so overlapping writers are not a supported case.
func (s *Store) mutate(ctx context.Context, shopperID string, transition func(State) State) State {
	state := s.Current(ctx, shopperID)
	next := transition(state)
	if err := s.repo.Save(ctx, shopperID, next); err != nil {
		s.warn(ctx, shopperID, "cart save failed, state kept in flight", err)
	}
	return next
}

func (s *Store) warn(ctx context.Context, shopperID, msg string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithShopper(ctx, shopperID)
	ctx = s.logg.WithField(ctx, "error", err.Error())
	s.logg.Warn(ctx, msg)
}
