package aggregate

import (
	"time"

	"github.com/appetiteclub/medmeal/services/medmeal/internal/catalog"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/ledger"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/patient"
)

func fixedClock() time.Time {
	return time.Date(2025, time.March, 14, 10, 0, 0, 0, time.Local)
}

type fixture struct {
	catalog  *catalog.Store
	registry *patient.Registry
	ledger   *ledger.Ledger
	engine   *Engine
}

func newFixture() *fixture {
	cat := catalog.NewStore(nil, nil, nil)
	for _, item := range catalog.DemoItems() {
		if err := cat.Add(item); err != nil {
			panic(err)
		}
	}
	reg := patient.NewRegistry(nil, nil, nil)
	for _, p := range patient.DemoPatients() {
		if err := reg.Add(p); err != nil {
			panic(err)
		}
	}
	l := ledger.NewLedger(ledger.Deps{Catalog: cat, Registry: reg, Clock: fixedClock}, nil, nil)

	orders, err := ledger.DemoOrders(cat, reg, fixedClock())
	if err != nil {
		panic(err)
	}
	for _, o := range orders {
		if err := l.Load(o); err != nil {
			panic(err)
		}
	}

	return &fixture{catalog: cat, registry: reg, ledger: l, engine: NewEngine(l, reg)}
}
