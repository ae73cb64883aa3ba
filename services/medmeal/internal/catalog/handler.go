package catalog

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/appetiteclub/medmeal/pkg/enums/mealtype"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/apperr"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	store  *Store
	logger aqm.Logger
	config *aqm.Config
	tlm    *telemetry.HTTP
}

func NewHandler(store *Store, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		store:  store,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/menu/items", func(r chi.Router) {
		r.Get("/", h.ListItems)
		r.Get("/{id}", h.GetItem)
		r.Patch("/{id}/stock", h.SetStock)
		r.Patch("/{id}/toggle-stock", h.ToggleStock)
		r.Patch("/{id}/price", h.SetPrice)
	})
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListItems")
	defer finish()

	filter := mealtype.Meals.All
	if name := r.URL.Query().Get("meal_type"); name != "" {
		meal := mealtype.ByName(name)
		if meal == nil {
			aqm.RespondError(w, http.StatusBadRequest, "Invalid meal type")
			return
		}
		filter = *meal
	}

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"items": h.store.List(filter),
	}, nil)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetItem")
	defer finish()

	item, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		apperr.Respond(w, h.log(r), err)
		return
	}
	aqm.Respond(w, http.StatusOK, item, nil)
}

type StockUpdateRequest struct {
	InStock *bool `json:"in_stock"`
}

func (h *Handler) SetStock(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetStock")
	defer finish()
	log := h.log(r)

	var req StockUpdateRequest
	if !decodePayload(w, r, log, &req) {
		return
	}
	if req.InStock == nil {
		aqm.RespondError(w, http.StatusBadRequest, "in_stock is required")
		return
	}

	item, err := h.store.SetStock(r.Context(), chi.URLParam(r, "id"), *req.InStock)
	if err != nil {
		apperr.Respond(w, log, err)
		return
	}

	log.Info("menu item stock updated", "item_id", item.ID, "in_stock", item.InStock)
	aqm.Respond(w, http.StatusOK, item, nil)
}

func (h *Handler) ToggleStock(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ToggleStock")
	defer finish()
	log := h.log(r)

	item, err := h.store.ToggleStock(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apperr.Respond(w, log, err)
		return
	}

	log.Info("menu item stock toggled", "item_id", item.ID, "in_stock", item.InStock)
	aqm.Respond(w, http.StatusOK, item, nil)
}

type PriceUpdateRequest struct {
	Price *int64 `json:"price"`
}

func (h *Handler) SetPrice(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetPrice")
	defer finish()
	log := h.log(r)

	var req PriceUpdateRequest
	if !decodePayload(w, r, log, &req) {
		return
	}
	if req.Price == nil {
		aqm.RespondError(w, http.StatusBadRequest, "price is required")
		return
	}

	item, err := h.store.SetPrice(r.Context(), chi.URLParam(r, "id"), *req.Price)
	if err != nil {
		apperr.Respond(w, log, err)
		return
	}

	log.Info("menu item price updated", "item_id", item.ID, "price", item.Price)
	aqm.Respond(w, http.StatusOK, item, nil)
}

func decodePayload(w http.ResponseWriter, r *http.Request, log aqm.Logger, target interface{}) bool {
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
