package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/appetiteclub/medmeal/pkg/enums/orderstatus"
	"github.com/appetiteclub/medmeal/pkg/event"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/apperr"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/catalog"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/patient"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/google/uuid"
)

const (
	CutoffHourKey     = "orders.cutoff.hour"
	DefaultCutoffHour = 20
)

type Catalog interface {
	Get(id string) (catalog.MenuItem, error)
}

type Registry interface {
	Get(id string) (patient.Patient, error)
	MarkOrdered(id string) error
}

type Deps struct {
	Catalog   Catalog
	Registry  Registry
	Publisher events.Publisher
	Clock     func() time.Time
}

// Ledger is the authoritative collection of orders. All mutations are
// serialized by mu, which is also held while reading the catalog and the
// registry so that totals and patient flags come from one consistent view.
type Ledger struct {
	mu     sync.RWMutex
	orders map[string]*Order
	seq    uint64

	catalog    Catalog
	registry   Registry
	publisher  events.Publisher
	now        func() time.Time
	cutoffHour int
	logger     aqm.Logger
}

func NewLedger(deps Deps, config *aqm.Config, logger aqm.Logger) *Ledger {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Ledger{
		orders:     make(map[string]*Order),
		catalog:    deps.Catalog,
		registry:   deps.Registry,
		publisher:  deps.Publisher,
		now:        clock,
		cutoffHour: cutoffHourFrom(config, logger),
		logger:     logger,
	}
}

func cutoffHourFrom(config *aqm.Config, logger aqm.Logger) int {
	if config == nil {
		return DefaultCutoffHour
	}
	raw, _ := config.GetString(CutoffHourKey)
	hour, err := ParseCutoffHour(raw)
	if err != nil {
		logger.Errorf("invalid %s, using %d: %v", CutoffHourKey, DefaultCutoffHour, err)
	}
	return hour
}

// ParseCutoffHour accepts 0-24; 24 keeps ordering open all day. An empty
// value yields the default. Invalid values yield the default and an error.
func ParseCutoffHour(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultCutoffHour, nil
	}
	hour, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultCutoffHour, fmt.Errorf("cut-off hour %q: %w", raw, err)
	}
	if hour < 0 || hour > 24 {
		return DefaultCutoffHour, fmt.Errorf("cut-off hour %d out of range", hour)
	}
	return hour, nil
}

func (l *Ledger) CutoffHour() int {
	return l.cutoffHour
}

// PlaceOrder validates the request against the catalog and the registry and
// records a new PENDING order.
func (l *Ledger) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Hour() >= l.cutoffHour {
		return Order{}, fmt.Errorf("%w: orders close at %02d:00", apperr.ErrPastCutoff, l.cutoffHour)
	}

	if len(req.Lines) == 0 {
		return Order{}, fmt.Errorf("%w: no line items", apperr.ErrInvalidCart)
	}
	for _, line := range req.Lines {
		if line.Quantity <= 0 || line.Quantity > MaxLineQuantity {
			return Order{}, fmt.Errorf("%w: quantity %d for %s", apperr.ErrInvalidCart, line.Quantity, line.MenuItemID)
		}
	}

	p, err := l.registry.Get(req.PatientID)
	if err != nil {
		return Order{}, err
	}

	items := make([]LineItem, 0, len(req.Lines))
	for _, line := range req.Lines {
		item, err := l.catalog.Get(line.MenuItemID)
		if err != nil {
			return Order{}, err
		}
		items = append(items, LineItem{Item: item, Quantity: line.Quantity})
	}
	for _, li := range items {
		if !li.Item.Orderable() {
			return Order{}, fmt.Errorf("%w: %s", apperr.ErrOutOfStock, li.Item.ID)
		}
	}

	total, err := computeTotal(items)
	if err != nil {
		return Order{}, err
	}

	if err := l.registry.MarkOrdered(p.ID); err != nil {
		return Order{}, err
	}

	order := &Order{
		ID:          l.newID(),
		PatientID:   p.ID,
		PatientName: p.Name,
		Room:        p.Room,
		Bed:         p.Bed,
		Items:       items,
		Total:       total,
		Status:      orderstatus.Statuses.Pending,
		Note:        req.Note,
		CreatedAt:   now,
	}
	l.insert(order)

	l.publishPlaced(ctx, order)
	return order.clone(), nil
}

// UpdateStatus moves an order along the lifecycle.
func (l *Ledger) UpdateStatus(ctx context.Context, id string, to orderstatus.Status) (Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	order, ok := l.orders[id]
	if !ok {
		return Order{}, fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
	}
	return l.transition(ctx, order, to)
}

// Advance moves an order to the next status on the linear path.
func (l *Ledger) Advance(ctx context.Context, id string) (Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	order, ok := l.orders[id]
	if !ok {
		return Order{}, fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
	}
	next, ok := orderstatus.Next(order.Status)
	if !ok {
		return Order{}, fmt.Errorf("%w: order %s is %s", apperr.ErrInvalidTransition, id, order.Status.Code())
	}
	return l.transition(ctx, order, next)
}

func (l *Ledger) transition(ctx context.Context, order *Order, to orderstatus.Status) (Order, error) {
	from := order.Status
	if from.IsTerminal() {
		return Order{}, fmt.Errorf("%w: order %s is already %s", apperr.ErrInvalidTransition, order.ID, from.Code())
	}
	if !orderstatus.CanTransition(from, to) {
		return Order{}, fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, from.Code(), to.Code())
	}

	order.Status = to
	l.publishStatusChange(ctx, order, from)
	return order.clone(), nil
}

// Rate stores the patient's rating for a completed order. Only one rating is
// accepted per order.
func (l *Ledger) Rate(ctx context.Context, id string, stars int, feedback string) (Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	order, ok := l.orders[id]
	if !ok {
		return Order{}, fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
	}
	if stars < 1 || stars > 5 {
		return Order{}, fmt.Errorf("%w: %d", apperr.ErrInvalidRating, stars)
	}
	if order.Status != orderstatus.Statuses.Completed {
		return Order{}, fmt.Errorf("%w: order %s is %s", apperr.ErrInvalidState, id, order.Status.Code())
	}
	if order.IsRated() {
		return Order{}, fmt.Errorf("%w: order %s", apperr.ErrAlreadyRated, id)
	}

	order.Rating = &stars
	order.Feedback = feedback
	l.publishRated(ctx, order)
	return order.clone(), nil
}

func (l *Ledger) Get(id string) (Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	order, ok := l.orders[id]
	if !ok {
		return Order{}, fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
	}
	return order.clone(), nil
}

// List returns matching orders, most recent first. Orders created at the
// same instant are returned latest-inserted first.
func (l *Ledger) List(filter Filter) []Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	matched := make([]*Order, 0, len(l.orders))
	for _, o := range l.orders {
		if filter.matches(o) {
			matched = append(matched, o)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.seq > b.seq
	})

	result := make([]Order, len(matched))
	for i, o := range matched {
		result[i] = o.clone()
	}
	return result
}

// Load inserts an already built order, as found in fixtures. It bypasses
// placement checks and publishes nothing.
func (l *Ledger) Load(o Order) error {
	if o.ID == "" {
		return fmt.Errorf("order id is required")
	}
	if orderstatus.ByName(o.Status.Name) == nil {
		return fmt.Errorf("order %s has unknown status %q", o.ID, o.Status.Name)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.orders[o.ID]; exists {
		return fmt.Errorf("order %s already exists", o.ID)
	}
	stored := o.clone()
	l.insert(&stored)
	return nil
}

func (l *Ledger) insert(o *Order) {
	l.seq++
	o.seq = l.seq
	l.orders[o.ID] = o
}

// newID returns an id not yet used in the ledger. Caller holds mu.
func (l *Ledger) newID() string {
	for {
		id := "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
		if _, exists := l.orders[id]; !exists {
			return id
		}
	}
}

func (l *Ledger) publishPlaced(ctx context.Context, o *Order) {
	lines := make([]event.OrderLine, 0, len(o.Items))
	for _, li := range o.Items {
		lines = append(lines, event.OrderLine{
			MenuItemID:   li.Item.ID,
			MenuItemName: li.Item.Name,
			Quantity:     li.Quantity,
		})
	}

	l.publish(ctx, event.OrderPlacedEvent{
		OrderEventMetadata: l.metadata(event.EventOrderPlaced, o),
		Lines:              lines,
		Total:              o.Total,
		Status:             o.Status.Code(),
		Note:               o.Note,
	})
}

func (l *Ledger) publishStatusChange(ctx context.Context, o *Order, previous orderstatus.Status) {
	l.publish(ctx, event.OrderStatusChangedEvent{
		OrderEventMetadata: l.metadata(event.EventOrderStatusChanged, o),
		NewStatus:          o.Status.Code(),
		PreviousStatus:     previous.Code(),
	})
}

func (l *Ledger) publishRated(ctx context.Context, o *Order) {
	l.publish(ctx, event.OrderRatedEvent{
		OrderEventMetadata: l.metadata(event.EventOrderRated, o),
		Rating:             *o.Rating,
		Feedback:           o.Feedback,
	})
}

func (l *Ledger) metadata(eventType string, o *Order) event.OrderEventMetadata {
	return event.OrderEventMetadata{
		EventType:   eventType,
		OccurredAt:  l.now().UTC(),
		OrderID:     o.ID,
		PatientID:   o.PatientID,
		PatientName: o.PatientName,
		Room:        o.Room,
		Bed:         o.Bed,
	}
}

func (l *Ledger) publish(ctx context.Context, evt interface{}) {
	if l.publisher == nil {
		return
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		l.logger.Error("cannot marshal order event", "error", err)
		return
	}

	if err := l.publisher.Publish(ctx, event.OrdersTopic, payload); err != nil {
		l.logger.Error("cannot publish order event", "error", err)
	}
}
