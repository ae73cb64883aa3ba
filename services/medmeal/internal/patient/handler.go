package patient

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/appetiteclub/medmeal/pkg/enums/diettype"
	"github.com/appetiteclub/medmeal/services/medmeal/internal/apperr"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	registry *Registry
	logger   aqm.Logger
	config   *aqm.Config
	tlm      *telemetry.HTTP
}

func NewHandler(registry *Registry, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		registry: registry,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/patients", h.ListPatients)
	r.Get("/patients/{id}", h.GetPatient)
	r.Put("/patients/{id}/diet", h.SetDietType)
	r.Get("/wards", h.ListWards)
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListPatients")
	defer finish()

	patients := h.registry.List(r.URL.Query().Get("q"))
	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"patients": patients,
	}, nil)
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetPatient")
	defer finish()

	p, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		apperr.Respond(w, h.log(r), err)
		return
	}
	aqm.Respond(w, http.StatusOK, p, nil)
}

type DietUpdateRequest struct {
	DietType string `json:"diet_type"`
}

func (h *Handler) SetDietType(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetDietType")
	defer finish()
	log := h.log(r)

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req DietUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Debug("failed to decode request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	p, err := h.registry.SetDietType(r.Context(), chi.URLParam(r, "id"), diettype.Diet{Name: req.DietType})
	if err != nil {
		apperr.Respond(w, log, err)
		return
	}

	log.Info("patient diet changed", "patient_id", p.ID, "diet", p.DietType.Code())
	aqm.Respond(w, http.StatusOK, p, nil)
}

func (h *Handler) ListWards(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListWards")
	defer finish()

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"wards": h.registry.Wards(),
	}, nil)
}
