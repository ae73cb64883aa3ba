package ledger

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/appetiteclub/medmeal/pkg/enums/orderstatus"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/apperr"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	ledger *Ledger
	carts  *CartBook
	logger aqm.Logger
	config *aqm.Config
	tlm    *telemetry.HTTP
}

func NewHandler(ledger *Ledger, carts *CartBook, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		ledger: ledger,
		carts:  carts,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.PlaceOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}/status", h.UpdateStatus)
		r.Patch("/{id}/advance", h.AdvanceOrder)
		r.Post("/{id}/rating", h.RateOrder)
	})

	r.Get("/patients/{id}/cart", h.GetCart)
	r.Post("/patients/{id}/cart/items", h.AddCartItem)
	r.Patch("/patients/{id}/cart/items/{itemID}", h.ChangeCartQuantity)
	r.Delete("/patients/{id}/cart", h.ClearCart)
	r.Post("/patients/{id}/cart/checkout", h.Checkout)
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

// Order Handlers

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PlaceOrder")
	defer finish()
	log := h.log(r)

	var req PlaceOrderRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if req.PatientID == "" {
		aqm.RespondError(w, http.StatusBadRequest, "patient_id is required")
		return
	}

	order, err := h.ledger.PlaceOrder(r.Context(), req)
	if err != nil {
		apperr.Respond(w, log, err)
		return
	}

	log.Info("order placed", "order_id", order.ID, "patient_id", order.PatientID, "total", order.Total)
	aqm.Respond(w, http.StatusCreated, order, nil)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()

	filter := Filter{PatientID: r.URL.Query().Get("patient_id")}
	if name := r.URL.Query().Get("status"); name != "" {
		status := orderstatus.ByName(name)
		if status == nil {
			aqm.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		filter.Status = status
	}

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"orders": h.ledger.List(filter),
	}, nil)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()

	order, err := h.ledger.Get(chi.URLParam(r, "id"))
	if err != nil {
		apperr.Respond(w, h.log(r), err)
		return
	}
	aqm.Respond(w, http.StatusOK, order, nil)
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateStatus")
	defer finish()
	log := h.log(r)

	var req StatusUpdateRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	status := orderstatus.ByName(req.Status)
	if status == nil {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	order, err := h.ledger.UpdateStatus(r.Context(), chi.URLParam(r, "id"), *status)
	if err != nil {
		apperr.Respond(w, log, err)
		return
	}

	log.Info("order status updated", "order_id", order.ID, "status", order.Status.Code())
	aqm.Respond(w, http.StatusOK, order, nil)
}

func (h *Handler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdvanceOrder")
	defer finish()
	log := h.log(r)

	order, err := h.ledger.Advance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apperr.Respond(w, log, err)
		return
	}

	log.Info("order advanced", "order_id", order.ID, "status", order.Status.Code())
	aqm.Respond(w, http.StatusOK, order, nil)
}

type RatingRequest struct {
	Stars    int    `json:"stars"`
	Feedback string `json:"feedback"`
}

func (h *Handler) RateOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RateOrder")
	defer finish()
	log := h.log(r)

	var req RatingRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	order, err := h.ledger.Rate(r.Context(), chi.URLParam(r, "id"), req.Stars, req.Feedback)
	if err != nil {
		apperr.Respond(w, log, err)
		return
	}

	log.Info("order rated", "order_id", order.ID, "stars", req.Stars)
	aqm.Respond(w, http.StatusOK, order, nil)
}

// Cart Handlers

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetCart")
	defer finish()

	cart, err := h.carts.Cart(chi.URLParam(r, "id"))
	if err != nil {
		apperr.Respond(w, h.log(r), err)
		return
	}
	aqm.Respond(w, http.StatusOK, cart, nil)
}

type CartItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddCartItem")
	defer finish()
	log := h.log(r)

	var req CartItemRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}
	if req.MenuItemID == "" {
		aqm.RespondError(w, http.StatusBadRequest, "menu_item_id is required")
		return
	}

	cart, err := h.carts.AddItem(chi.URLParam(r, "id"), req.MenuItemID)
	if err != nil {
		apperr.Respond(w, log, err)
		return
	}
	aqm.Respond(w, http.StatusOK, cart, nil)
}

type QuantityChangeRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) ChangeCartQuantity(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ChangeCartQuantity")
	defer finish()
	log := h.log(r)

	var req QuantityChangeRequest
	if !h.decodePayload(w, r, log, &req) {
		return
	}

	cart, err := h.carts.ChangeQuantity(chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), req.Delta)
	if err != nil {
		apperr.Respond(w, log, err)
		return
	}
	aqm.Respond(w, http.StatusOK, cart, nil)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearCart")
	defer finish()

	if err := h.carts.Clear(chi.URLParam(r, "id")); err != nil {
		apperr.Respond(w, h.log(r), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type CheckoutRequest struct {
	Note string `json:"note"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Checkout")
	defer finish()
	log := h.log(r)

	var req CheckoutRequest
	if r.ContentLength != 0 && !h.decodePayload(w, r, log, &req) {
		return
	}

	order, err := h.carts.Checkout(r.Context(), chi.URLParam(r, "id"), req.Note)
	if err != nil {
		apperr.Respond(w, log, err)
		return
	}

	log.Info("cart checked out", "order_id", order.ID, "patient_id", order.PatientID)
	aqm.Respond(w, http.StatusCreated, order, nil)
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, log aqm.Logger, target interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, target); err != nil {
		log.Debug("failed to decode request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}
	return true
}
