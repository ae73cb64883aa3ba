package ledger

import (
	"context"
	"time"

	"github.com/appetiteclub/medmeal/pkg/enums/orderstatus"
	"github.com/aquamarinepk/aqm/seed"
)

// Seeds returns the demo order history. It must run after the catalog and
// patient seeds.
func Seeds(l *Ledger) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2025-01-10_ledger_demo_orders",
			Description: "Create the order history of the diabetic demo patient",
			Run: func(ctx context.Context) error {
				orders, err := DemoOrders(l.catalog, l.registry, l.now())
				if err != nil {
					return err
				}
				for _, o := range orders {
					if err := l.Load(o); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

type demoOrder struct {
	id     string
	itemID string
	qty    int
	status orderstatus.Status
	note   string
	age    time.Duration
	rating int
}

// DemoOrders builds the fixture orders relative to now, resolving items and
// the patient snapshot from the given stores.
func DemoOrders(cat Catalog, reg Registry, now time.Time) ([]Order, error) {
	p, err := reg.Get("P2")
	if err != nil {
		return nil, err
	}

	fixtures := []demoOrder{
		{id: "ORD-771", itemID: "m1", qty: 1, status: orderstatus.Statuses.Pending, note: "Ít cơm", age: 10 * time.Minute},
		{id: "ORD-552", itemID: "m2", qty: 1, status: orderstatus.Statuses.Cooking, age: time.Hour},
		{id: "ORD-223", itemID: "m3", qty: 2, status: orderstatus.Statuses.Delivering, note: "Ăn nóng", age: 2 * time.Hour},
		{id: "ORD-001", itemID: "m1", qty: 1, status: orderstatus.Statuses.Completed, age: 24 * time.Hour, rating: 5},
	}

	orders := make([]Order, 0, len(fixtures))
	for _, f := range fixtures {
		item, err := cat.Get(f.itemID)
		if err != nil {
			return nil, err
		}
		items := []LineItem{{Item: item, Quantity: f.qty}}
		total, err := computeTotal(items)
		if err != nil {
			return nil, err
		}
		o := Order{
			ID:          f.id,
			PatientID:   p.ID,
			PatientName: p.Name,
			Room:        p.Room,
			Bed:         p.Bed,
			Items:       items,
			Total:       total,
			Status:      f.status,
			Note:        f.note,
			CreatedAt:   now.Add(-f.age),
		}
		if f.rating > 0 {
			rating := f.rating
			o.Rating = &rating
		}
		orders = append(orders, o)
	}
	return orders, nil
}
