package aggregate

import (
	"net/http"
	"time"

	"github.com/appetiteclub/medmeal/pkg/enums/orderstatus"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/apperr"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/ledger"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	engine *Engine
	now    func() time.Time
	logger aqm.Logger
	tlm    *telemetry.HTTP
}

func NewHandler(engine *Engine, clock func() time.Time, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Handler{
		engine: engine,
		now:    clock,
		logger: logger,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/stats", func(r chi.Router) {
		r.Get("/patients", h.PatientStats)
		r.Get("/production", h.Production)
		r.Get("/nutrition/{patientID}", h.DailyNutrition)
	})
}

func (h *Handler) PatientStats(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PatientStats")
	defer finish()

	aqm.Respond(w, http.StatusOK, h.engine.PatientStats(), nil)
}

func (h *Handler) Production(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Production")
	defer finish()

	filter := ledger.Filter{}
	if name := r.URL.Query().Get("status"); name != "" {
		status := orderstatus.ByName(name)
		if status == nil {
			aqm.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		filter.Status = status
	}

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"lines": h.engine.Production(filter),
	}, nil)
}

func (h *Handler) DailyNutrition(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DailyNutrition")
	defer finish()
	log := h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))

	asOf := h.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err := time.ParseInLocation(time.DateOnly, raw, asOf.Location())
		if err != nil {
			aqm.RespondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		asOf = day
	}

	summary, err := h.engine.DailyNutrition(chi.URLParam(r, "patientID"), asOf)
	if err != nil {
		apperr.Respond(w, log, err)
		return
	}
	aqm.Respond(w, http.StatusOK, summary, nil)
}
