package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/appetiteclub/medmeal/services/medmeal/internal/apperr"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/catalog"
)

type CartLine struct {
	Item     catalog.MenuItem `json:"item"`
	Quantity int              `json:"quantity"`
}

// Cart is the working selection of one patient session, in insertion order.
type Cart struct {
	PatientID string     `json:"patient_id"`
	Lines     []CartLine `json:"lines"`
}

// Add puts one more unit of item in the cart.
func (c *Cart) Add(item catalog.MenuItem) error {
	if !item.Orderable() {
		return fmt.Errorf("%w: %s", apperr.ErrOutOfStock, item.ID)
	}
	for i := range c.Lines {
		if c.Lines[i].Item.ID == item.ID {
			if c.Lines[i].Quantity >= MaxLineQuantity {
				return fmt.Errorf("%w: at most %d of %s", apperr.ErrInvalidCart, MaxLineQuantity, item.ID)
			}
			c.Lines[i].Quantity++
			c.Lines[i].Item = item
			return nil
		}
	}
	c.Lines = append(c.Lines, CartLine{Item: item, Quantity: 1})
	return nil
}

// ChangeQuantity adds delta to a line; the line is dropped once it reaches
// zero. A line never grows past MaxLineQuantity.
func (c *Cart) ChangeQuantity(itemID string, delta int) error {
	for i := range c.Lines {
		if c.Lines[i].Item.ID != itemID {
			continue
		}
		if delta > MaxLineQuantity-c.Lines[i].Quantity {
			return fmt.Errorf("%w: at most %d of %s", apperr.ErrInvalidCart, MaxLineQuantity, itemID)
		}
		c.Lines[i].Quantity += delta
		if c.Lines[i].Quantity <= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		}
		return nil
	}
	return fmt.Errorf("%w: %s not in cart", apperr.ErrNotFound, itemID)
}

func (c *Cart) Remove(itemID string) {
	for i := range c.Lines {
		if c.Lines[i].Item.ID == itemID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c Cart) LineRequests() []LineRequest {
	lines := make([]LineRequest, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, LineRequest{MenuItemID: l.Item.ID, Quantity: l.Quantity})
	}
	return lines
}

func (c Cart) clone() Cart {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{PatientID: c.PatientID, Lines: lines}
}

// CartBook keeps one cart per patient session.
type CartBook struct {
	mu     sync.Mutex
	carts  map[string]*Cart
	ledger *Ledger
}

func NewCartBook(ledger *Ledger) *CartBook {
	return &CartBook{
		carts:  make(map[string]*Cart),
		ledger: ledger,
	}
}

func (b *CartBook) Cart(patientID string) (Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.cartFor(patientID)
	if err != nil {
		return Cart{}, err
	}
	return c.clone(), nil
}

func (b *CartBook) AddItem(patientID, itemID string) (Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.cartFor(patientID)
	if err != nil {
		return Cart{}, err
	}
	item, err := b.ledger.catalog.Get(itemID)
	if err != nil {
		return Cart{}, err
	}
	if err := c.Add(item); err != nil {
		return Cart{}, err
	}
	return c.clone(), nil
}

func (b *CartBook) ChangeQuantity(patientID, itemID string, delta int) (Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.cartFor(patientID)
	if err != nil {
		return Cart{}, err
	}
	if delta > 0 {
		item, err := b.ledger.catalog.Get(itemID)
		if err != nil {
			return Cart{}, err
		}
		if !item.Orderable() {
			return Cart{}, fmt.Errorf("%w: %s", apperr.ErrOutOfStock, itemID)
		}
	}
	if err := c.ChangeQuantity(itemID, delta); err != nil {
		return Cart{}, err
	}
	return c.clone(), nil
}

func (b *CartBook) Clear(patientID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.cartFor(patientID)
	if err != nil {
		return err
	}
	c.Clear()
	return nil
}

// Checkout places the cart as an order. The cart is emptied only when the
// order is accepted.
func (b *CartBook) Checkout(ctx context.Context, patientID, note string) (Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, err := b.cartFor(patientID)
	if err != nil {
		return Order{}, err
	}

	order, err := b.ledger.PlaceOrder(ctx, PlaceOrderRequest{
		PatientID: patientID,
		Lines:     c.LineRequests(),
		Note:      note,
	})
	if err != nil {
		return Order{}, err
	}

	c.Clear()
	return order, nil
}

// cartFor returns the patient's cart, creating it on first use. Caller holds mu.
func (b *CartBook) cartFor(patientID string) (*Cart, error) {
	if c, ok := b.carts[patientID]; ok {
		return c, nil
	}
	if _, err := b.ledger.registry.Get(patientID); err != nil {
		return nil, err
	}
	c := &Cart{PatientID: patientID}
	b.carts[patientID] = c
	return c, nil
}
