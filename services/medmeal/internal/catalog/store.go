package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/appetiteclub/medmeal/pkg/enums/mealtype"
	"github.com/appetiteclub/medmeal/pkg/event"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/apperr"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
)

// Store keeps the menu in memory, in seed order.
type Store struct {
	mu    sync.RWMutex
	items map[string]*MenuItem
	order []string

	publisher events.Publisher
	now       func() time.Time
	logger    aqm.Logger
}

// NewStore builds an empty menu. A nil clock means time.Now.
func NewStore(publisher events.Publisher, clock func() time.Time, logger aqm.Logger) *Store {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		items:     make(map[string]*MenuItem),
		publisher: publisher,
		now:       clock,
		logger:    logger,
	}
}

// Add registers a new item. Used by seeding.
func (s *Store) Add(item MenuItem) error {
	if item.ID == "" {
		return fmt.Errorf("menu item id is required")
	}
	if item.Price < 0 {
		return fmt.Errorf("%w: %d", apperr.ErrInvalidPrice, item.Price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[item.ID]; exists {
		return fmt.Errorf("menu item %s already exists", item.ID)
	}
	s.items[item.ID] = &item
	s.order = append(s.order, item.ID)
	return nil
}

// List returns the items whose meal category passes filter.
func (s *Store) List(filter mealtype.Meal) []MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]MenuItem, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if !item.MealType.Matches(filter) {
			continue
		}
		result = append(result, *item)
	}
	return result
}

func (s *Store) Get(id string) (MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return MenuItem{}, fmt.Errorf("%w: menu item %s", apperr.ErrNotFound, id)
	}
	return *item, nil
}

// SetStock sets the in-stock flag. Events are published under the lock.
func (s *Store) SetStock(ctx context.Context, id string, inStock bool) (MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return MenuItem{}, fmt.Errorf("%w: menu item %s", apperr.ErrNotFound, id)
	}
	item.InStock = inStock
	updated := *item

	s.publish(ctx, event.MenuItemStockChangedEvent{
		EventType:    event.EventMenuItemStockChanged,
		OccurredAt:   s.now().UTC(),
		MenuItemID:   updated.ID,
		MenuItemName: updated.Name,
		InStock:      updated.InStock,
	})
	return updated, nil
}

// ToggleStock flips the in-stock flag of an item.
func (s *Store) ToggleStock(ctx context.Context, id string) (MenuItem, error) {
	item, err := s.Get(id)
	if err != nil {
		return MenuItem{}, err
	}
	return s.SetStock(ctx, id, !item.InStock)
}

// SetPrice changes the price used by future orders. Placed orders keep the
// total computed at placement.
func (s *Store) SetPrice(ctx context.Context, id string, price int64) (MenuItem, error) {
	if price < 0 {
		return MenuItem{}, fmt.Errorf("%w: %d", apperr.ErrInvalidPrice, price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return MenuItem{}, fmt.Errorf("%w: menu item %s", apperr.ErrNotFound, id)
	}
	previous := item.Price
	item.Price = price
	updated := *item

	s.publish(ctx, event.MenuItemPriceChangedEvent{
		EventType:     event.EventMenuItemPriceChanged,
		OccurredAt:    s.now().UTC(),
		MenuItemID:    updated.ID,
		Price:         updated.Price,
		PreviousPrice: previous,
	})
	return updated, nil
}

func (s *Store) publish(ctx context.Context, evt interface{}) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error("cannot marshal catalog event", "error", err)
		return
	}

	if err := s.publisher.Publish(ctx, event.CatalogTopic, payload); err != nil {
		s.logger.Error("cannot publish catalog event", "error", err)
	}
}
