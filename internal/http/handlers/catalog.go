package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/praxia/citas-gateway/internal/upstream"
	"github.com/praxia/citas-gateway/pkg/logging"
)

// Catalog is the read-only slice of the clinical API the search steps use.
type Catalog interface {
	Especialidades(ctx context.Context, q string) ([]upstream.Especialidad, error)
	Centros(ctx context.Context, especialidadID int) ([]upstream.Centro, error)
	Medicos(ctx context.Context, especialidadID, centroID int, q string) ([]upstream.Medico, error)
	Agendas(ctx context.Context, mceID int) ([]upstream.Agenda, error)
	Slots(ctx context.Context, agendaID int, fecha string) ([]upstream.Slot, error)
	SlotResumen(ctx context.Context, slotID int) (*upstream.SlotResumen, error)
}

// CatalogHandler proxies the wizard's search steps to the clinical API.
// A failed lookup degrades to an empty result list so the step renders
// with nothing to pick instead of breaking the wizard.
type CatalogHandler struct {
	api    Catalog
	logger *logging.Logger
}

// NewCatalogHandler creates the search proxy handler.
func NewCatalogHandler(api Catalog, logger *logging.Logger) *CatalogHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CatalogHandler{api: api, logger: logger}
}

// Especialidades handles GET /citas/especialidades?q=
func (h *CatalogHandler) Especialidades(w http.ResponseWriter, r *http.Request) {
	items, err := h.api.Especialidades(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("especialidades lookup failed", "error", err)
		items = nil
	}
	if items == nil {
		items = []upstream.Especialidad{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Centros handles GET /citas/centros?especialidadId=
func (h *CatalogHandler) Centros(w http.ResponseWriter, r *http.Request) {
	especialidadID, _ := strconv.Atoi(r.URL.Query().Get("especialidadId"))
	items, err := h.api.Centros(r.Context(), especialidadID)
	if err != nil {
		h.logger.Error("centros lookup failed", "error", err, "especialidad_id", especialidadID)
		items = nil
	}
	if items == nil {
		items = []upstream.Centro{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Medicos handles GET /citas/medicos?especialidadId=&centroId=&q=
func (h *CatalogHandler) Medicos(w http.ResponseWriter, r *http.Request) {
	especialidadID, _ := strconv.Atoi(r.URL.Query().Get("especialidadId"))
	centroID, _ := strconv.Atoi(r.URL.Query().Get("centroId"))
	items, err := h.api.Medicos(r.Context(), especialidadID, centroID, r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("medicos lookup failed", "error", err, "especialidad_id", especialidadID, "centro_id", centroID)
		items = nil
	}
	if items == nil {
		items = []upstream.Medico{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Agendas handles GET /citas/mce/{id}/agendas
func (h *CatalogHandler) Agendas(w http.ResponseWriter, r *http.Request) {
	mceID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || mceID <= 0 {
		http.Error(w, "invalid mce id", http.StatusBadRequest)
		return
	}
	items, lookupErr := h.api.Agendas(r.Context(), mceID)
	if lookupErr != nil {
		h.logger.Error("agendas lookup failed", "error", lookupErr, "mce_id", mceID)
		items = nil
	}
	if items == nil {
		items = []upstream.Agenda{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Slots handles GET /citas/agendas/{id}/slots?fecha=
func (h *CatalogHandler) Slots(w http.ResponseWriter, r *http.Request) {
	agendaID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || agendaID <= 0 {
		http.Error(w, "invalid agenda id", http.StatusBadRequest)
		return
	}
	items, lookupErr := h.api.Slots(r.Context(), agendaID, r.URL.Query().Get("fecha"))
	if lookupErr != nil {
		h.logger.Error("slots lookup failed", "error", lookupErr, "agenda_id", agendaID)
		items = nil
	}
	if items == nil {
		items = []upstream.Slot{}
	}
	writeJSON(w, http.StatusOK, items)
}

// GetSlotResumen handles GET /citas/slots/{id}/resumen. Unlike the list
// endpoints this one reports the failure: the payment preview needs to
// know the lookup did not happen.
func (h *CatalogHandler) GetSlotResumen(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || slotID <= 0 {
		http.Error(w, "invalid slot id", http.StatusBadRequest)
		return
	}
	resumen, err := h.api.SlotResumen(r.Context(), slotID)
	if err != nil {
		h.logger.Error("slot resumen lookup failed", "error", err, "slot_id", slotID)
		http.Error(w, "slot no disponible", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, resumen)
}
