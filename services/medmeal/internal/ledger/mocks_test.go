package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/appetiteclub/medmeal/services/medmeal/internal/catalog"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/patient"
)

// MockPublisher is a test mock for events.Publisher
type MockPublisher struct {
	mu              sync.Mutex
	PublishedEvents []PublishedEvent
	PublishFunc     func(ctx context.Context, topic string, data []byte) error
}

type PublishedEvent struct {
	Topic string
	Data  []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		PublishedEvents: make([]PublishedEvent, 0),
	}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{Topic: topic, Data: data})
	return nil
}

func (m *MockPublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.PublishedEvents)
}

// fixedClock returns 10:00 local time on a fixed day, inside ordering hours.
func fixedClock() time.Time {
	return time.Date(2025, time.March, 14, 10, 0, 0, 0, time.Local)
}

type fixture struct {
	catalog   *catalog.Store
	registry  *patient.Registry
	publisher *MockPublisher
	ledger    *Ledger
}

func newFixture(clock func() time.Time) *fixture {
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
	if clock == nil {
		clock = fixedClock
	}
	pub := NewMockPublisher()
	l := NewLedger(Deps{Catalog: cat, Registry: reg, Publisher: pub, Clock: clock}, nil, nil)
	return &fixture{catalog: cat, registry: reg, publisher: pub, ledger: l}
}

func (f *fixture) withDemoOrders() *fixture {
	orders, err := DemoOrders(f.catalog, f.registry, f.ledger.now())
	if err != nil {
		panic(err)
	}
	for _, o := range orders {
		if err := f.ledger.Load(o); err != nil {
			panic(err)
		}
	}
	return f
}
