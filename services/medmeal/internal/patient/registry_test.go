package patient

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/appetiteclub/medmeal/pkg/enums/diettype"
	"github.com/appetiteclub/medmeal/pkg/event"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/apperr"
)

func TestRegistryList(t *testing.T) {
	tests := []struct {
		name    string
		search  string
		wantIDs []string
	}{
		{name: "emptySearchReturnsAll", search: "", wantIDs: []string{"P1", "P2", "P3"}},
		{name: "blankSearchReturnsAll", search: "   ", wantIDs: []string{"P1", "P2", "P3"}},
		{name: "byRoom", search: "301", wantIDs: []string{"P1", "P2"}},
		{name: "byNameCaseInsensitive", search: "trần thị", wantIDs: []string{"P2"}},
		{name: "byNameUpperCase", search: "LÊ VĂN", wantIDs: []string{"P3"}},
		{name: "noMatch", search: "xyz", wantIDs: []string{}},
	}

	r := newSeededRegistry(NewMockPublisher())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.List(tt.search)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("List(%q) returned %d patients, want %d", tt.search, len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("List(%q)[%d] = %s, want %s", tt.search, i, got[i].ID, id)
				}
			}
		})
	}
}

func TestRegistryGet(t *testing.T) {
	r := newSeededRegistry(NewMockPublisher())

	p, err := r.Get("P2")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.MedicalNote == "" || p.DietType != diettype.Diets.Diabetic {
		t.Errorf("Get() returned unexpected patient %+v", p)
	}

	if _, err := r.Get("P404"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get() unknown error = %v, want ErrNotFound", err)
	}
}

func TestRegistrySetDietType(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		diet        diettype.Diet
		wantErr     error
		wantPublish int
	}{
		{name: "success", id: "P1", diet: diettype.Diets.LowSodium, wantPublish: 1},
		{name: "sameDietStillNotifies", id: "P1", diet: diettype.Diets.Standard, wantPublish: 1},
		{name: "unknownPatient", id: "P9", diet: diettype.Diets.Liquid, wantErr: apperr.ErrNotFound},
		{name: "unknownDiet", id: "P1", diet: diettype.Diet{Name: "KETO"}, wantErr: apperr.ErrInvalidDiet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := NewMockPublisher()
			r := newSeededRegistry(pub)

			p, err := r.SetDietType(context.Background(), tt.id, tt.diet)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SetDietType() error = %v, want %v", err, tt.wantErr)
				}
				if len(pub.PublishedEvents) != 0 {
					t.Error("failed SetDietType() should not publish")
				}
				return
			}
			if err != nil {
				t.Fatalf("SetDietType() error = %v", err)
			}
			if p.DietType != tt.diet {
				t.Errorf("SetDietType().DietType = %v, want %v", p.DietType, tt.diet)
			}
			if len(pub.PublishedEvents) != tt.wantPublish {
				t.Fatalf("published %d events, want %d", len(pub.PublishedEvents), tt.wantPublish)
			}

			var evt event.PatientDietChangedEvent
			if err := json.Unmarshal(pub.PublishedEvents[0].Data, &evt); err != nil {
				t.Fatalf("cannot decode event: %v", err)
			}
			if evt.EventType != event.EventPatientDietChanged || evt.NewDiet != tt.diet.Code() {
				t.Errorf("unexpected event %+v", evt)
			}
			if !evt.OccurredAt.Equal(fixedClock()) {
				t.Errorf("OccurredAt = %v, want %v", evt.OccurredAt, fixedClock())
			}
		})
	}
}

func TestRegistrySetDietTypeEventOrder(t *testing.T) {
	pub := NewMockPublisher()
	r := newSeededRegistry(pub)
	diets := diettype.All

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(d diettype.Diet) {
			defer wg.Done()
			if _, err := r.SetDietType(context.Background(), "P1", d); err != nil {
				t.Errorf("SetDietType() error = %v", err)
			}
		}(diets[i%len(diets)])
	}
	wg.Wait()

	events := pub.Events()
	if len(events) != 50 {
		t.Fatalf("published %d events, want 50", len(events))
	}

	var last event.PatientDietChangedEvent
	if err := json.Unmarshal(events[len(events)-1].Data, &last); err != nil {
		t.Fatalf("cannot decode event: %v", err)
	}
	p, _ := r.Get("P1")
	if last.NewDiet != p.DietType.Code() {
		t.Errorf("last event diet = %s, patient diet = %s", last.NewDiet, p.DietType.Code())
	}

	// Each event starts from the diet the previous one ended on.
	var previous string
	for i, e := range events {
		var evt event.PatientDietChangedEvent
		if err := json.Unmarshal(e.Data, &evt); err != nil {
			t.Fatalf("cannot decode event: %v", err)
		}
		if i > 0 && evt.PreviousDiet != previous {
			t.Fatalf("event %d previous diet = %s, want %s", i, evt.PreviousDiet, previous)
		}
		previous = evt.NewDiet
	}
}

func TestRegistryMarkOrdered(t *testing.T) {
	r := newSeededRegistry(NewMockPublisher())

	if err := r.MarkOrdered("P3"); err != nil {
		t.Fatalf("MarkOrdered() error = %v", err)
	}
	p, _ := r.Get("P3")
	if !p.HasOrdered() {
		t.Error("MarkOrdered() should set order status to ORDERED")
	}

	if err := r.MarkOrdered("P9"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("MarkOrdered() unknown error = %v, want ErrNotFound", err)
	}
}

func TestRegistryReturnsCopies(t *testing.T) {
	r := NewRegistry(nil, nil, nil)
	_ = r.Add(Patient{ID: "P7", DietType: diettype.Diets.Standard, Allergies: []string{"peanut"}})

	p, _ := r.Get("P7")
	p.Allergies[0] = "changed"
	p.Name = "changed"

	again, _ := r.Get("P7")
	if again.Allergies[0] != "peanut" || again.Name != "" {
		t.Error("Get() must not expose internal state")
	}
	if again.OrderStatus != OrderStatusNone {
		t.Errorf("Add() default order status = %q, want NONE", again.OrderStatus)
	}
}

func TestRegistryWards(t *testing.T) {
	r := newSeededRegistry(NewMockPublisher())

	if got := len(r.Wards()); got != 3 {
		t.Errorf("Wards() returned %d, want 3", got)
	}
	w, err := r.Ward("W3")
	if err != nil || w.Name != "Khoa Tim Mạch" {
		t.Errorf("Ward(W3) = %+v, %v", w, err)
	}
	if _, err := r.Ward("W9"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Ward() unknown error = %v, want ErrNotFound", err)
	}
}
