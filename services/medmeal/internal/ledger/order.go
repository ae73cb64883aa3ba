package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/appetiteclub/medmeal/pkg/enums/orderstatus"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/apperr"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/catalog"
)

// LineItem snapshots the menu item as it was when the order was placed.
type LineItem struct {
	Item     catalog.MenuItem `json:"item"`
	Quantity int              `json:"quantity"`
}

// Order is a placed meal request. Total is fixed at placement time.
type Order struct {
	ID          string             `json:"id"`
	PatientID   string             `json:"patient_id"`
	PatientName string             `json:"patient_name"`
	Room        string             `json:"room"`
	Bed         string             `json:"bed"`
	Items       []LineItem         `json:"items"`
	Total       int64              `json:"total"`
	Status      orderstatus.Status `json:"status"`
	Note        string             `json:"note"`
	CreatedAt   time.Time          `json:"created_at"`
	Rating      *int               `json:"rating,omitempty"`
	Feedback    string             `json:"feedback,omitempty"`

	seq uint64
}

// MaxLineQuantity caps the units of a single menu item per order or cart line.
const MaxLineQuantity = 100

// LineRequest asks for qty units of a menu item.
type LineRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

type PlaceOrderRequest struct {
	PatientID string        `json:"patient_id"`
	Lines     []LineRequest `json:"items"`
	Note      string        `json:"note"`
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	PatientID string
	Status    *orderstatus.Status
}

func (f Filter) matches(o *Order) bool {
	if f.PatientID != "" && o.PatientID != f.PatientID {
		return false
	}
	if f.Status != nil && o.Status != *f.Status {
		return false
	}
	return true
}

// IsRated reports whether the order already carries a rating.
func (o Order) IsRated() bool {
	return o.Rating != nil
}

func (o *Order) clone() Order {
	c := *o
	c.Items = append([]LineItem(nil), o.Items...)
	if o.Rating != nil {
		r := *o.Rating
		c.Rating = &r
	}
	return c
}

// computeTotal sums price x qty. It fails with ErrInvalidCart when a line or
// the sum does not fit in an int64.
func computeTotal(items []LineItem) (int64, error) {
	var total int64
	for _, li := range items {
		price, qty := li.Item.Price, int64(li.Quantity)
		if price < 0 || qty < 0 {
			return 0, fmt.Errorf("%w: negative line for %s", apperr.ErrInvalidCart, li.Item.ID)
		}
		if price > 0 && qty > math.MaxInt64/price {
			return 0, fmt.Errorf("%w: line total overflows for %s", apperr.ErrInvalidCart, li.Item.ID)
		}
		line := price * qty
		if total > math.MaxInt64-line {
			return 0, fmt.Errorf("%w: order total overflows", apperr.ErrInvalidCart)
		}
		total += line
	}
	return total, nil
}
