package notification

import (
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

// Listener is told about every emitted notification, after it is stored.
type Listener func(Notification)

// Emitter keeps notifications most recent first. Records are never removed;
// only the read flag changes.
type Emitter struct {
	// emitMu orders insertion and listener delivery together, so listeners
	// see notifications in List order. Listeners must not call Emit.
	emitMu    sync.Mutex
	mu        sync.RWMutex
	items     []*Notification
	listeners []Listener
	now       func() time.Time
	logger    aqm.Logger
}

func NewEmitter(clock func() time.Time, logger aqm.Logger) *Emitter {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Emitter{now: clock, logger: logger}
}

// OnEmit registers l. Not safe to call concurrently with Emit.
func (e *Emitter) OnEmit(l Listener) {
	e.listeners = append(e.listeners, l)
}

func (e *Emitter) Emit(typ Type, title, message string) Notification {
	n := &Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: e.now(),
	}

	e.emitMu.Lock()
	defer e.emitMu.Unlock()

	e.mu.Lock()
	e.items = append([]*Notification{n}, e.items...)
	emitted := *n
	e.mu.Unlock()

	e.logger.Debug("notification emitted", "id", emitted.ID, "type", string(typ))
	for _, l := range e.listeners {
		l(emitted)
	}
	return emitted
}

// MarkRead flags one notification as read. Unknown ids are ignored.
func (e *Emitter) MarkRead(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range e.items {
		if n.ID == id {
			n.IsRead = true
			return
		}
	}
}

func (e *Emitter) MarkAllRead() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range e.items {
		n.IsRead = true
	}
}

func (e *Emitter) List() []Notification {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]Notification, len(e.items))
	for i, n := range e.items {
		result[i] = *n
	}
	return result
}

func (e *Emitter) UnreadCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	count := 0
	for _, n := range e.items {
		if !n.IsRead {
			count++
		}
	}
	return count
}
