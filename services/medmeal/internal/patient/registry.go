package patient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/appetiteclub/medmeal/pkg/enums/diettype"
	"github.com/appetiteclub/medmeal/pkg/event"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/apperr"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"golang.org/x/text/cases"
)

// Registry holds patients and wards in insertion order.
type Registry struct {
	mu       sync.RWMutex
	patients map[string]*Patient
	order    []string
	wards    []Ward

	publisher events.Publisher
	now       func() time.Time
	logger    aqm.Logger
}

// NewRegistry builds an empty registry. A nil clock means time.Now.
func NewRegistry(publisher events.Publisher, clock func() time.Time, logger aqm.Logger) *Registry {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Registry{
		patients:  make(map[string]*Patient),
		publisher: publisher,
		now:       clock,
		logger:    logger,
	}
}

// Add registers a patient. Used by seeding.
func (r *Registry) Add(p Patient) error {
	if p.ID == "" {
		return fmt.Errorf("patient id is required")
	}
	if diettype.ByName(p.DietType.Name) == nil {
		return fmt.Errorf("%w: %q", apperr.ErrInvalidDiet, p.DietType.Name)
	}
	if p.OrderStatus == "" {
		p.OrderStatus = OrderStatusNone
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.patients[p.ID]; exists {
		return fmt.Errorf("patient %s already exists", p.ID)
	}
	stored := p.clone()
	r.patients[p.ID] = &stored
	r.order = append(r.order, p.ID)
	return nil
}

func (r *Registry) AddWard(w Ward) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wards = append(r.wards, w)
}

func (r *Registry) Get(id string) (Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return Patient{}, fmt.Errorf("%w: patient %s", apperr.ErrNotFound, id)
	}
	return p.clone(), nil
}

// List returns patients whose name or room contains search, compared with
// Unicode case folding. An empty search returns everyone.
func (r *Registry) List(search string) []Patient {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(search))

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Patient, 0, len(r.order))
	for _, id := range r.order {
		p := r.patients[id]
		if needle != "" &&
			!strings.Contains(fold.String(p.Name), needle) &&
			!strings.Contains(fold.String(p.Room), needle) {
			continue
		}
		result = append(result, p.clone())
	}
	return result
}

// SetDietType records a doctor's diet assignment. The change event is
// published under the lock, so events follow the order of assignments.
func (r *Registry) SetDietType(ctx context.Context, id string, diet diettype.Diet) (Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[id]
	if !ok {
		return Patient{}, fmt.Errorf("%w: patient %s", apperr.ErrNotFound, id)
	}
	if diettype.ByName(diet.Name) == nil {
		return Patient{}, fmt.Errorf("%w: %q", apperr.ErrInvalidDiet, diet.Name)
	}
	previous := p.DietType
	p.DietType = diet
	updated := p.clone()

	r.publishDietChanged(ctx, updated, previous)
	return updated, nil
}

// MarkOrdered flags that the patient has placed an order. The flag never
// goes back to NONE.
func (r *Registry) MarkOrdered(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[id]
	if !ok {
		return fmt.Errorf("%w: patient %s", apperr.ErrNotFound, id)
	}
	p.OrderStatus = OrderStatusOrdered
	return nil
}

func (r *Registry) Wards() []Ward {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Ward(nil), r.wards...)
}

func (r *Registry) Ward(id string) (Ward, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wards {
		if w.ID == id {
			return w, nil
		}
	}
	return Ward{}, fmt.Errorf("%w: ward %s", apperr.ErrNotFound, id)
}

func (r *Registry) publishDietChanged(ctx context.Context, p Patient, previous diettype.Diet) {
	if r.publisher == nil {
		return
	}

	evt := event.PatientDietChangedEvent{
		EventType:    event.EventPatientDietChanged,
		OccurredAt:   r.now().UTC(),
		PatientID:    p.ID,
		PatientName:  p.Name,
		NewDiet:      p.DietType.Code(),
		PreviousDiet: previous.Code(),
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		r.logger.Error("cannot marshal diet change event", "error", err)
		return
	}

	if err := r.publisher.Publish(ctx, event.PatientsTopic, payload); err != nil {
		r.logger.Error("cannot publish diet change event", "error", err)
	} else {
		r.logger.Info("published diet change event", "patient_id", p.ID, "diet", p.DietType.Code())
	}
}
