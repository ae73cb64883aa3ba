package notification

import (
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	emitter *Emitter
	hub     *Hub
	logger  aqm.Logger
	tlm     *telemetry.HTTP
}

func NewHandler(emitter *Emitter, hub *Hub, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		emitter: emitter,
		hub:     hub,
		logger:  logger,
		tlm:     telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.ListNotifications)
		r.Patch("/read-all", h.MarkAllRead)
		r.Patch("/{id}/read", h.MarkRead)
		if h.hub != nil {
			r.Get("/ws", h.hub.ServeWS)
		}
	})
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListNotifications")
	defer finish()

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"notifications": h.emitter.List(),
		"unread_count":  h.emitter.UnreadCount(),
	}, nil)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MarkRead")
	defer finish()

	h.emitter.MarkRead(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MarkAllRead")
	defer finish()

	h.emitter.MarkAllRead()
	w.WriteHeader(http.StatusNoContent)
}
