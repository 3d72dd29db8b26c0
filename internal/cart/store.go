package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/llatelier/storefront/pkg/errors"
	"github.com/llatelier/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

// Store is the single source of truth for one client's cart. It enforces the
// merge invariant (at most one line item per product+variant key), keeps
// insertion order, and persists the full sequence after every mutation.
//
// A Store is bound to one client context and is not safe for concurrent use.
type Store struct {
	cartID   string
	items    []LineItem
	storage  Storage
	notifier Notifier
	logg     *logger.Logger
}

// NewStore loads the persisted cart for cartID. Absent or corrupted data is a
// non-fatal condition: the store starts empty and logs a warning.
func NewStore(ctx context.Context, cartID string, storage Storage, notifier Notifier, logg *logger.Logger) (*Store, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, fmt.Errorf("cart id required")
	}
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}

	store := &Store{
		cartID:   cartID,
		storage:  storage,
		notifier: notifier,
		logg:     logg,
	}

	items, err := storage.Load(ctx, cartID)
	switch {
	case err == nil:
		store.items = items
	case errors.Is(err, ErrCorrupted):
		if logg != nil {
			logg.Warn(logg.WithCartID(ctx, cartID), "cart snapshot corrupted, starting empty")
		}
	default:
		if logg != nil {
			logg.Error(logg.WithCartID(ctx, cartID), "cart snapshot load failed, starting empty", err)
		}
	}

	return store, nil
}

// CartID returns the identifier the store persists under.
func (s *Store) CartID() string {
	return s.cartID
}

// AddItem merges the product+variant into the cart: an existing line gets its
// quantity bumped by one, a new combination is appended with quantity 1. The
// snapshot fields of an existing line are never rewritten.
func (s *Store) AddItem(ctx context.Context, product ProductSnapshot, variant *Variant) (LineItem, error) {
	if strings.TrimSpace(product.ID) == "" {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	key := ItemKey(product.ID, variant)

	idx := s.indexOf(key)
	if idx >= 0 {
		s.items[idx].Quantity++
	} else {
		s.items = append(s.items, LineItem{
			ItemID:    key,
			ProductID: product.ID,
			Title:     product.Title,
			UnitPrice: product.UnitPrice,
			Image:     product.Image,
			Quantity:  1,
			Variant:   cloneVariant(variant),
		})
		idx = len(s.items) - 1
	}

	item := s.items[idx]
	if err := s.persist(ctx); err != nil {
		return item, err
	}
	if s.notifier != nil {
		s.notifier.ItemAdded(ctx, item)
	}
	return item, nil
}

// RemoveItem drops the line item with the given key. A missing key is a no-op,
// not an error.
func (s *Store) RemoveItem(ctx context.Context, itemID string) error {
	idx := s.indexOf(itemID)
	if idx < 0 {
		return nil
	}

	removed := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)

	if err := s.persist(ctx); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.ItemRemoved(ctx, removed)
	}
	return nil
}

// UpdateQuantity sets the line's quantity to exactly newQuantity. Zero or
// negative values remove the line, mirroring RemoveItem.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, newQuantity int) error {
	if newQuantity <= 0 {
		return s.RemoveItem(ctx, itemID)
	}

	idx := s.indexOf(itemID)
	if idx < 0 {
		return nil
	}

	s.items[idx].Quantity = newQuantity
	return s.persist(ctx)
}

// Clear empties the cart and persists the empty state. Called by the
// confirmation flow after a payment settles.
func (s *Store) Clear(ctx context.Context) error {
	s.items = nil
	return s.persist(ctx)
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the number of distinct line items.
func (s *Store) Len() int {
	return len(s.items)
}

// Total derives the cart total, Σ unit price × quantity. Pure; recomputed on
// demand instead of cached.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount derives the total quantity across all lines.
func (s *Store) ItemCount() int {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

func (s *Store) indexOf(itemID string) int {
	for i, item := range s.items {
		if item.ItemID == itemID {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context) error {
	if err := s.storage.Save(ctx, s.cartID, s.items); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithCartID(ctx, s.cartID), "cart snapshot save failed", err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting cart")
	}
	return nil
}

func cloneVariant(variant *Variant) *Variant {
	if variant == nil {
		return nil
	}
	copied := *variant
	return &copied
}
