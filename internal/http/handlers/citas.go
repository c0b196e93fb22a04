package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/praxia/citas-gateway/internal/citas"
	"github.com/praxia/citas-gateway/internal/http/middleware"
	"github.com/praxia/citas-gateway/internal/upstream"
	"github.com/praxia/citas-gateway/pkg/logging"
)

// CitasHandler exposes the booking wizard over HTTP: the draft, per-step
// navigation, the reservation hold, payment and the confirmation banner.
type CitasHandler struct {
	svc    *citas.Service
	logger *logging.Logger
}

// NewCitasHandler creates the wizard handler.
func NewCitasHandler(svc *citas.Service, logger *logging.Logger) *CitasHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CitasHandler{svc: svc, logger: logger}
}

// GetDraft handles GET /citas/draft
func (h *CitasHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionFromContext(r.Context())
	draft := h.svc.Draft(r.Context(), sessionID)
	writeJSON(w, http.StatusOK, draft)
}

// PatchDraft handles PATCH /citas/draft. The body is a partial draft;
// only the fields present in it are written.
func (h *CitasHandler) PatchDraft(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionFromContext(r.Context())

	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	draft, err := h.svc.UpdateDraft(r.Context(), sessionID, patch)
	if err != nil {
		h.logger.Error("failed to update draft", "error", err, "session_id", sessionID)
		http.Error(w, "failed to update draft", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// DeleteDraft handles DELETE /citas/draft
func (h *CitasHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionFromContext(r.Context())
	if err := h.svc.ResetDraft(r.Context(), sessionID); err != nil {
		h.logger.Error("failed to reset draft", "error", err, "session_id", sessionID)
		http.Error(w, "failed to reset draft", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetNavegacion handles GET /citas/navegacion?paso=
func (h *CitasHandler) GetNavegacion(w http.ResponseWriter, r *http.Request) {
	paso := r.URL.Query().Get("paso")
	if paso == "" {
		http.Error(w, "missing paso parameter", http.StatusBadRequest)
		return
	}
	sessionID, _ := middleware.SessionFromContext(r.Context())
	nav := h.svc.Navegacion(r.Context(), sessionID, citas.Paso(paso))
	writeJSON(w, http.StatusOK, nav)
}

type reservarRequest struct {
	UsuarioID int    `json:"usuarioId"`
	Motivo    string `json:"motivo"`
}

// Reservar handles POST /citas/slots/{id}/reservar. Selecting the slot
// and confirming arrive together, so the slot id is folded into the
// draft before the hold is placed.
func (h *CitasHandler) Reservar(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || slotID <= 0 {
		http.Error(w, "invalid slot id", http.StatusBadRequest)
		return
	}

	var req reservarRequest
	if r.Body != nil {
		// Body is optional; an empty reason is allowed.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	sessionID, _ := middleware.SessionFromContext(r.Context())
	if draft := h.svc.Draft(r.Context(), sessionID); draft.SlotID != slotID {
		patch := map[string]json.RawMessage{"slotId": json.RawMessage(strconv.Itoa(slotID))}
		if _, err := h.svc.UpdateDraft(r.Context(), sessionID, patch); err != nil {
			h.logger.Error("failed to record slot selection", "error", err, "session_id", sessionID)
			http.Error(w, "failed to record slot selection", http.StatusInternalServerError)
			return
		}
	}

	session, err := h.svc.Reservar(r.Context(), sessionID, citas.ReservarInput{
		UsuarioID: usuarioID(r, req.UsuarioID),
		Motivo:    req.Motivo,
	})
	if err != nil {
		h.writeBookingError(w, sessionID, err)
		return
	}
	writeJSON(w, http.StatusCreated, pendingResponse(session, time.Now()))
}

// GetPago handles GET /citas/pago. The optional id and ttl query
// parameters come from a recovery link and rebuild the payment screen
// when the local pending state is gone.
func (h *CitasHandler) GetPago(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionFromContext(r.Context())
	idCita, _ := strconv.Atoi(r.URL.Query().Get("id"))
	ttl, _ := strconv.Atoi(r.URL.Query().Get("ttl"))

	session, err := h.svc.Pending(r.Context(), sessionID, idCita, ttl)
	if err != nil {
		h.writeBookingError(w, sessionID, err)
		return
	}
	if session == nil {
		http.Error(w, "no hay una reserva pendiente de pago", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, pendingResponse(session, time.Now()))
}

type pagarRequest struct {
	MetodoPago     string `json:"metodoPago"`
	AceptaTerminos bool   `json:"aceptaTerminos"`
	UsuarioID      int    `json:"usuarioId"`
	IDCita         int    `json:"idCita"`
	TTLMinutos     int    `json:"ttlMinutos"`
	Email          string `json:"email"`
	Nombre         string `json:"nombre"`
}

// Pagar handles POST /citas/pagar
func (h *CitasHandler) Pagar(w http.ResponseWriter, r *http.Request) {
	var req pagarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.MetodoPago == "" {
		http.Error(w, "metodoPago is required", http.StatusBadRequest)
		return
	}

	sessionID, _ := middleware.SessionFromContext(r.Context())
	msg, err := h.svc.Pagar(r.Context(), sessionID, citas.PagoInput{
		Metodo:         req.MetodoPago,
		AceptaTerminos: req.AceptaTerminos,
		UsuarioID:      usuarioID(r, req.UsuarioID),
		IDCita:         req.IDCita,
		TTLMinutos:     req.TTLMinutos,
		Email:          req.Email,
		Nombre:         req.Nombre,
	})
	if err != nil {
		h.writeBookingError(w, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// eventoPayload is one audit-trail entry as served to diagnostics.
type eventoPayload struct {
	ID        string    `json:"id"`
	IDCita    int       `json:"idCita,omitempty"`
	Evento    string    `json:"evento"`
	Detalle   string    `json:"detalle,omitempty"`
	Monto     float64   `json:"monto,omitempty"`
	Moneda    string    `json:"moneda,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// GetEventos handles GET /citas/eventos. It serves the session's booking
// audit trail for support diagnostics; without a configured event log the
// trail is empty.
func (h *CitasHandler) GetEventos(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionFromContext(r.Context())
	limite, _ := strconv.Atoi(r.URL.Query().Get("limite"))

	records, err := h.svc.Eventos(r.Context(), sessionID, limite)
	if err != nil {
		h.logger.Error("failed to list booking events", "error", err, "session_id", sessionID)
		http.Error(w, "failed to list booking events", http.StatusInternalServerError)
		return
	}

	payload := make([]eventoPayload, 0, len(records))
	for _, rec := range records {
		payload = append(payload, eventoPayload{
			ID:        rec.ID.String(),
			IDCita:    rec.IDCita,
			Evento:    rec.Evento,
			Detalle:   rec.Detalle,
			Monto:     rec.Monto,
			Moneda:    rec.Moneda,
			Timestamp: rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, payload)
}

// usuarioID prefers the id from the request body, falling back to the
// bearer-token claim when one was presented.
func usuarioID(r *http.Request, fromBody int) int {
	if fromBody != 0 {
		return fromBody
	}
	if claims, ok := middleware.UserClaimsFromContext(r.Context()); ok {
		return claims.UsuarioID
	}
	return 0
}

// Cancelar handles DELETE /citas/pago
func (h *CitasHandler) Cancelar(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionFromContext(r.Context())
	if err := h.svc.Cancelar(r.Context(), sessionID); err != nil {
		h.logger.Error("failed to cancel reservation", "error", err, "session_id", sessionID)
		http.Error(w, "failed to cancel reservation", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetConfirmada handles GET /citas/confirmada
func (h *CitasHandler) GetConfirmada(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionFromContext(r.Context())
	msg, err := h.svc.Confirmada(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to read confirmation", "error", err, "session_id", sessionID)
		http.Error(w, "failed to read confirmation", http.StatusInternalServerError)
		return
	}
	if msg == nil {
		http.Error(w, "no confirmed appointment", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// DeleteConfirmada handles DELETE /citas/confirmada
func (h *CitasHandler) DeleteConfirmada(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionFromContext(r.Context())
	if err := h.svc.DescartarConfirmada(r.Context(), sessionID); err != nil {
		h.logger.Error("failed to dismiss confirmation", "error", err, "session_id", sessionID)
		http.Error(w, "failed to dismiss confirmation", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pendingPayload is the payment screen's view of a held reservation.
type pendingPayload struct {
	IDCita           int               `json:"idCita"`
	TTLMinutos       int               `json:"ttlMinutos"`
	Resumen          citas.CitaResumen `json:"resumen"`
	RestanteSegundos int               `json:"restanteSegundos"`
	Restante         string            `json:"restante"`
}

func pendingResponse(session *citas.PendingPaymentSession, now time.Time) pendingPayload {
	remaining := session.RemainingSeconds(now)
	return pendingPayload{
		IDCita:           session.IDCita,
		TTLMinutos:       session.TTLMinutos,
		Resumen:          session.Resumen,
		RestanteSegundos: remaining,
		Restante:         citas.FormatSeconds(remaining),
	}
}

// writeBookingError maps service errors onto HTTP statuses. Upstream
// failures keep their status and body text so the portal shows exactly
// what the clinical API said.
func (h *CitasHandler) writeBookingError(w http.ResponseWriter, sessionID string, err error) {
	switch {
	case errors.Is(err, citas.ErrDraftIncompleto):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, citas.ErrTerminosNoAceptados):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, citas.ErrSinReservaPendiente):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, citas.ErrReservaExpirada):
		http.Error(w, err.Error(), http.StatusGone)
	default:
		var apiErr *upstream.APIError
		if errors.As(err, &apiErr) {
			status := apiErr.StatusCode
			if status < 400 || status > 599 {
				status = http.StatusBadGateway
			}
			http.Error(w, apiErr.Message, status)
			return
		}
		h.logger.Error("booking operation failed", "error", err, "session_id", sessionID)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
