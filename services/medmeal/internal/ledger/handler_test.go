package ledger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aquamarinepk/aqm"
	"github.com/go-chi/chi/v5"
)

func newTestRouter(f *fixture) http.Handler {
	h := NewHandler(f.ledger, NewCartBook(f.ledger), aqm.NewConfig(), aqm.NewNoopLogger())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestNewHandler(t *testing.T) {
	f := newFixture(nil)
	if h := NewHandler(f.ledger, nil, nil, nil); h == nil {
		t.Error("NewHandler() returned nil")
	}
}

func TestHandlerPlaceOrder(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{name: "success", body: `{"patient_id":"P2","items":[{"menu_item_id":"m1","quantity":1}],"note":"Ít cơm"}`, expectedStatus: http.StatusCreated},
		{name: "missingPatient", body: `{"items":[{"menu_item_id":"m1","quantity":1}]}`, expectedStatus: http.StatusBadRequest},
		{name: "emptyCart", body: `{"patient_id":"P2","items":[]}`, expectedStatus: http.StatusBadRequest},
		{name: "unknownItem", body: `{"patient_id":"P2","items":[{"menu_item_id":"x","quantity":1}]}`, expectedStatus: http.StatusNotFound},
		{name: "invalidJSON", body: `{"patient_id":`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(newFixture(nil))

			req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("PlaceOrder() status = %d, want %d, body %s", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestHandlerListOrders(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCount  int
	}{
		{name: "all", query: "", expectedStatus: http.StatusOK, expectedCount: 4},
		{name: "byStatus", query: "?status=DELIVERING", expectedStatus: http.StatusOK, expectedCount: 1},
		{name: "byPatient", query: "?patient_id=P1", expectedStatus: http.StatusOK, expectedCount: 0},
		{name: "invalidStatus", query: "?status=LOST", expectedStatus: http.StatusBadRequest},
	}

	router := newTestRouter(newFixture(nil).withDemoOrders())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/orders"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("ListOrders() status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			data, ok := resp["data"].(map[string]interface{})
			if !ok {
				t.Fatalf("Response does not contain data object: %s", w.Body.String())
			}
			orders, _ := data["orders"].([]interface{})
			if len(orders) != tt.expectedCount {
				t.Errorf("orders count = %d, want %d", len(orders), tt.expectedCount)
			}
		})
	}
}

func TestHandlerStatusAndRating(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{name: "advancePending", method: http.MethodPatch, path: "/orders/ORD-771/advance", expectedStatus: http.StatusOK},
		{name: "advanceCompleted", method: http.MethodPatch, path: "/orders/ORD-001/advance", expectedStatus: http.StatusConflict},
		{name: "setCooking", method: http.MethodPut, path: "/orders/ORD-771/status", body: `{"status":"COOKING"}`, expectedStatus: http.StatusOK},
		{name: "skipToCompleted", method: http.MethodPut, path: "/orders/ORD-771/status", body: `{"status":"COMPLETED"}`, expectedStatus: http.StatusConflict},
		{name: "unknownStatus", method: http.MethodPut, path: "/orders/ORD-771/status", body: `{"status":"LOST"}`, expectedStatus: http.StatusBadRequest},
		{name: "unknownOrder", method: http.MethodPut, path: "/orders/ORD-404/status", body: `{"status":"COOKING"}`, expectedStatus: http.StatusNotFound},
		{name: "rateAlreadyRated", method: http.MethodPost, path: "/orders/ORD-001/rating", body: `{"stars":4}`, expectedStatus: http.StatusConflict},
		{name: "ratePending", method: http.MethodPost, path: "/orders/ORD-771/rating", body: `{"stars":4}`, expectedStatus: http.StatusConflict},
		{name: "rateOutOfRange", method: http.MethodPost, path: "/orders/ORD-001/rating", body: `{"stars":9}`, expectedStatus: http.StatusBadRequest},
		{name: "getOrder", method: http.MethodGet, path: "/orders/ORD-223", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(newFixture(nil).withDemoOrders())

			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("%s %s status = %d, want %d, body %s", tt.method, tt.path, w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestHandlerCartFlow(t *testing.T) {
	f := newFixture(nil)
	router := newTestRouter(f)

	steps := []struct {
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{http.MethodGet, "/patients/P3/cart", "", http.StatusOK},
		{http.MethodPost, "/patients/P3/cart/checkout", "", http.StatusBadRequest},
		{http.MethodPost, "/patients/P3/cart/items", `{"menu_item_id":"m3"}`, http.StatusOK},
		{http.MethodPatch, "/patients/P3/cart/items/m3", `{"delta":1}`, http.StatusOK},
		{http.MethodPost, "/patients/P3/cart/checkout", `{"note":"Ăn nóng"}`, http.StatusCreated},
		{http.MethodPost, "/patients/P3/cart/items", `{"menu_item_id":"m1"}`, http.StatusOK},
		{http.MethodDelete, "/patients/P3/cart", "", http.StatusNoContent},
		{http.MethodGet, "/patients/P9/cart", "", http.StatusNotFound},
	}

	for _, s := range steps {
		req := httptest.NewRequest(s.method, s.path, bytes.NewBufferString(s.body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != s.expectedStatus {
			t.Fatalf("%s %s status = %d, want %d, body %s", s.method, s.path, w.Code, s.expectedStatus, w.Body.String())
		}
	}

	orders := f.ledger.List(Filter{PatientID: "P3"})
	if len(orders) != 1 || orders[0].Total != 70000 {
		t.Errorf("unexpected orders after checkout %+v", orders)
	}
}
