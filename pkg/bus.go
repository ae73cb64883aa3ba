package pkg

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aquamarinepk/aqm/events"
)

// LocalBus delivers events to in-process subscribers synchronously, in
// subscription order, before Publish returns.
type LocalBus struct {
	mu       sync.RWMutex
	handlers map[string][]events.HandlerFunc
}

func NewLocalBus() *LocalBus {
	return &LocalBus{handlers: make(map[string][]events.HandlerFunc)}
}

func (b *LocalBus) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	if handler == nil {
		return fmt.Errorf("nil handler for topic %s", topic)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	return nil
}

func (b *LocalBus) Publish(ctx context.Context, topic string, msg []byte) error {
	b.mu.RLock()
	handlers := append([]events.HandlerFunc(nil), b.handlers[topic]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FanoutPublisher publishes every message to all of its targets. The first
// target is expected to be the local bus; remote targets are best effort.
type FanoutPublisher struct {
	targets []events.Publisher
}

func NewFanoutPublisher(targets ...events.Publisher) *FanoutPublisher {
	fp := &FanoutPublisher{}
	for _, t := range targets {
		if t != nil {
			fp.targets = append(fp.targets, t)
		}
	}
	return fp
}

func (f *FanoutPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	var errs []error
	for _, t := range f.targets {
		if err := t.Publish(ctx, topic, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", topic, err))
		}
	}
	return errors.Join(errs...)
}
