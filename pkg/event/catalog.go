package event

import "time"

const (
	CatalogTopic              = "medmeal.catalog"
	EventMenuItemStockChanged = "catalog.item.stock_changed"
	EventMenuItemPriceChanged = "catalog.item.price_changed"
)

type MenuItemStockChangedEvent struct {
	EventType    string    `json:"event_type"`
	OccurredAt   time.Time `json:"occurred_at"`
	MenuItemID   string    `json:"menu_item_id"`
	MenuItemName string    `json:"menu_item_name,omitempty"`
	InStock      bool      `json:"in_stock"`
}

type MenuItemPriceChangedEvent struct {
	EventType     string    `json:"event_type"`
	OccurredAt    time.Time `json:"occurred_at"`
	MenuItemID    string    `json:"menu_item_id"`
	Price         int64     `json:"price"`
	PreviousPrice int64     `json:"previous_price"`
}
