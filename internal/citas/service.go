package citas

import (
	"context"
	"encoding/json"
	"time"

	"github.com/praxia/citas-gateway/internal/observability/metrics"
	"github.com/praxia/citas-gateway/internal/upstream"
	"github.com/praxia/citas-gateway/pkg/logging"
)

// ReservaAPI is the slice of the clinical API the booking service needs.
type ReservaAPI interface {
	SlotResumen(ctx context.Context, slotID int) (*upstream.SlotResumen, error)
	Reservar(ctx context.Context, slotID int, req upstream.ReservarRequest) (*upstream.ReservaConfirmada, error)
	CitaResumen(ctx context.Context, idCita int) (*upstream.CitaResumen, error)
	Pagar(ctx context.Context, req upstream.PagarRequest) (*upstream.PagoResultado, error)
}

// ConfirmationNotifier tells the patient their appointment is paid for.
type ConfirmationNotifier interface {
	CitaConfirmada(ctx context.Context, to, nombre string, msg ConfirmedCitaMessage) error
}

// Service drives the booking wizard: draft mutations, navigation,
// reservation, the payment guards and the handoff to the confirmation
// banner. One in-flight booking per session.
type Service struct {
	drafts    *DraftStore
	pending   *PendingPaymentStore
	confirmed *ConfirmedMessageStore
	api       ReservaAPI
	events    *EventLog
	notifier  ConfirmationNotifier
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger

	reservaTTLMin      int
	recuperacionTTLMin int
	displaySegundos    int

	now func() time.Time
}

// Config wires a Service. Events, Notifier and Metrics are optional; the
// TTL and display knobs fall back to the package defaults when zero.
type Config struct {
	Drafts    *DraftStore
	Pending   *PendingPaymentStore
	Confirmed *ConfirmedMessageStore
	API       ReservaAPI
	Events    *EventLog
	Notifier  ConfirmationNotifier
	Metrics   *metrics.BookingMetrics
	Logger    *logging.Logger

	ReservaTTLMinutos      int
	RecuperacionTTLMinutos int
	ConfirmadaDisplaySeg   int
}

func NewService(cfg Config) *Service {
	if cfg.Drafts == nil || cfg.Pending == nil || cfg.Confirmed == nil {
		panic("citas: all three stores are required")
	}
	if cfg.API == nil {
		panic("citas: upstream API is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ReservaTTLMinutos <= 0 {
		cfg.ReservaTTLMinutos = DefaultTTLMinutos
	}
	if cfg.RecuperacionTTLMinutos <= 0 {
		cfg.RecuperacionTTLMinutos = RecuperacionTTLMinuto
	}
	if cfg.ConfirmadaDisplaySeg <= 0 {
		cfg.ConfirmadaDisplaySeg = DisplaySegundosPorDefecto
	}
	return &Service{
		drafts:    cfg.Drafts,
		pending:   cfg.Pending,
		confirmed: cfg.Confirmed,
		api:       cfg.API,
		events:    cfg.Events,
		notifier:  cfg.Notifier,
		metrics:   cfg.Metrics,
		logger:    logger,

		reservaTTLMin:      cfg.ReservaTTLMinutos,
		recuperacionTTLMin: cfg.RecuperacionTTLMinutos,
		displaySegundos:    cfg.ConfirmadaDisplaySeg,

		now: time.Now,
	}
}

// Draft returns the session's current draft.
func (s *Service) Draft(ctx context.Context, sessionID string) CitaDraft {
	return s.drafts.Read(ctx, sessionID)
}

// UpdateDraft shallow-merges the patch into the draft. Picking the
// booking kind starts the wizard over: the prior draft is discarded
// before the patch lands, even when the same kind is picked again.
func (s *Service) UpdateDraft(ctx context.Context, sessionID string, patch map[string]json.RawMessage) (CitaDraft, error) {
	if raw, ok := patch["tipo"]; ok {
		var tipo string
		if err := json.Unmarshal(raw, &tipo); err == nil {
			if err := s.drafts.Clear(ctx, sessionID); err != nil {
				return CitaDraft{}, err
			}
		}
	}
	return s.drafts.Merge(ctx, sessionID, patch)
}

// ResetDraft discards the draft entirely.
func (s *Service) ResetDraft(ctx context.Context, sessionID string) error {
	return s.drafts.Clear(ctx, sessionID)
}

// Navegacion computes the navigation state for a step of this session.
func (s *Service) Navegacion(ctx context.Context, sessionID string, paso Paso) Navegacion {
	return Navegar(s.drafts.Read(ctx, sessionID), paso)
}

// ReservarInput carries what the confirmation screen submits.
type ReservarInput struct {
	UsuarioID int
	Motivo    string
}

// Reservar places the hold on the chosen slot and opens the payment
// window. The draft stays intact on failure so the user can retry.
func (s *Service) Reservar(ctx context.Context, sessionID string, in ReservarInput) (*PendingPaymentSession, error) {
	draft := s.drafts.Read(ctx, sessionID)
	if draft.SlotID == 0 || draft.PacienteID == 0 {
		return nil, ErrDraftIncompleto
	}

	// Enrich the local preview with the slot's location detail; a failed
	// lookup only degrades the preview, it never blocks the reservation.
	slotResumen, err := s.api.SlotResumen(ctx, draft.SlotID)
	if err != nil {
		s.logger.Warn("slot resumen unavailable", "error", err, "slot_id", draft.SlotID)
		slotResumen = nil
	}
	local := MergeSlotResumen(draft, in.Motivo, slotResumen)

	reserva, err := s.api.Reservar(ctx, draft.SlotID, upstream.ReservarRequest{
		PacienteID: draft.PacienteID,
		UsuarioID:  in.UsuarioID,
		Motivo:     in.Motivo,
	})
	if err != nil {
		s.metrics.ObserveReserva("error")
		s.recordEvent(ctx, BookingEvent{SessionID: sessionID, Evento: EventoReservaFallida, Detalle: err.Error()})
		return nil, err
	}

	ttl := reserva.TTLMinutos
	if ttl <= 0 {
		ttl = s.reservaTTLMin
	}
	session := PendingPaymentSession{
		IDCita:     reserva.IDCita,
		TTLMinutos: ttl,
		Resumen:    ResumenDeReserva(local, reserva),
		CreadaEn:   s.now(),
	}
	if err := s.pending.Save(ctx, sessionID, session); err != nil {
		return nil, err
	}

	s.metrics.ObserveReserva("ok")
	s.recordEvent(ctx, BookingEvent{
		SessionID: sessionID,
		IDCita:    session.IDCita,
		Evento:    EventoReservaCreada,
		Monto:     session.Resumen.CostoMonto,
		Moneda:    session.Resumen.Moneda,
	})
	return &session, nil
}

// Pending returns the session's pending payment, falling back to server
// recovery when local state is gone but a reservation id is known. Returns
// nil when there is nothing to pay.
func (s *Service) Pending(ctx context.Context, sessionID string, idCita, ttlMinutos int) (*PendingPaymentSession, error) {
	session, err := s.pending.Read(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}
	if idCita <= 0 {
		return nil, nil
	}
	return s.Recuperar(ctx, sessionID, idCita, ttlMinutos)
}

// PagoInput carries what the payment screen submits. IDCita/TTLMinutos
// mirror the recovery query parameters for a payment issued straight from
// a shared link.
type PagoInput struct {
	Metodo         string
	AceptaTerminos bool
	UsuarioID      int
	IDCita         int
	TTLMinutos     int
	Email          string
	Nombre         string
}

// Pagar settles the pending reservation. Local guards run first: a
// missing session, unaccepted terms or an elapsed countdown reject the
// payment without touching the upstream. The upstream stays authoritative
// for actual expiry; its failure leaves the pending session intact for a
// retry.
func (s *Service) Pagar(ctx context.Context, sessionID string, in PagoInput) (*ConfirmedCitaMessage, error) {
	session, err := s.Pending(ctx, sessionID, in.IDCita, in.TTLMinutos)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSinReservaPendiente
	}
	if !in.AceptaTerminos {
		return nil, ErrTerminosNoAceptados
	}
	if session.RemainingSeconds(s.now()) <= 0 {
		s.metrics.ObservePago(in.Metodo, "expirado")
		s.recordEvent(ctx, BookingEvent{SessionID: sessionID, IDCita: session.IDCita, Evento: EventoPagoExpirado})
		return nil, ErrReservaExpirada
	}

	moneda := session.Resumen.Moneda
	if moneda == "" {
		moneda = monedaPorDefecto
	}
	referencia := "WEB"
	if in.Metodo == "EFECTIVO" {
		referencia = "CAJA"
	}

	resultado, err := s.api.Pagar(ctx, upstream.PagarRequest{
		IDCita:         session.IDCita,
		Monto:          session.Resumen.CostoMonto,
		Moneda:         moneda,
		MetodoPago:     in.Metodo,
		UsuarioID:      in.UsuarioID,
		AceptaTerminos: true,
		Referencia:     referencia,
	})
	if err != nil {
		s.metrics.ObservePago(in.Metodo, "error")
		s.recordEvent(ctx, BookingEvent{SessionID: sessionID, IDCita: session.IDCita, Evento: EventoPagoRechazado, Detalle: err.Error()})
		return nil, err
	}

	estado := resultado.StdPago
	if estado == "" {
		estado = "PAGADO"
		if in.Metodo == "EFECTIVO" {
			estado = "PENDIENTE"
		}
	}

	if err := s.pending.Clear(ctx, sessionID); err != nil {
		s.logger.Error("failed to clear pending payment after pago", "error", err, "session_id", sessionID)
	}

	msg := ConfirmedCitaMessage{
		Resumen: session.Resumen,
		Pago: PagoInfo{
			Metodo: in.Metodo,
			Estado: estado,
			Monto:  session.Resumen.CostoMonto,
			Moneda: moneda,
		},
		Timestamp:       s.now().UTC(),
		DisplaySegundos: s.displaySegundos,
	}
	if err := s.confirmed.Save(ctx, sessionID, msg); err != nil {
		s.logger.Error("failed to persist confirmation banner", "error", err, "session_id", sessionID)
	}
	if err := s.drafts.Clear(ctx, sessionID); err != nil {
		s.logger.Error("failed to clear draft after pago", "error", err, "session_id", sessionID)
	}

	s.metrics.ObservePago(in.Metodo, "ok")
	s.recordEvent(ctx, BookingEvent{
		SessionID: sessionID,
		IDCita:    session.IDCita,
		Evento:    EventoPagoConfirmado,
		Detalle:   estado,
		Monto:     msg.Pago.Monto,
		Moneda:    msg.Pago.Moneda,
	})

	if s.notifier != nil && in.Email != "" {
		if err := s.notifier.CitaConfirmada(ctx, in.Email, in.Nombre, msg); err != nil {
			s.logger.Error("confirmation email failed", "error", err, "session_id", sessionID)
		}
	}
	return &msg, nil
}

// Cancelar abandons the pending reservation. The upstream hold is left to
// expire on its own.
func (s *Service) Cancelar(ctx context.Context, sessionID string) error {
	session, err := s.pending.Read(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.pending.Clear(ctx, sessionID); err != nil {
		return err
	}
	if session != nil {
		s.recordEvent(ctx, BookingEvent{SessionID: sessionID, IDCita: session.IDCita, Evento: EventoReservaCancelada})
	}
	return nil
}

// Confirmada reads the one-shot confirmation banner.
func (s *Service) Confirmada(ctx context.Context, sessionID string) (*ConfirmedCitaMessage, error) {
	return s.confirmed.Read(ctx, sessionID)
}

// DescartarConfirmada dismisses the banner.
func (s *Service) DescartarConfirmada(ctx context.Context, sessionID string) error {
	return s.confirmed.Clear(ctx, sessionID)
}

// Eventos returns the session's audit trail, oldest first. Without a
// configured event log the trail is empty.
func (s *Service) Eventos(ctx context.Context, sessionID string, limit int) ([]BookingEventRecord, error) {
	records, err := s.events.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []BookingEventRecord{}
	}
	return records, nil
}

func (s *Service) recordEvent(ctx context.Context, evt BookingEvent) {
	if err := s.events.Record(ctx, evt); err != nil {
		s.logger.Error("failed to record booking event", "error", err, "evento", evt.Evento)
	}
}
