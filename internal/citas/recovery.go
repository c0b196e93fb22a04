package citas

// Session recovery: the payment screen can be reached with nothing in the
// pending store — a refresh after the session aged out, or a shared link
// that only carries the reservation id. The reservation still exists
// upstream, so an equivalent session is rebuilt from its resumé.

import "context"

// Recuperar reconstructs a pending payment session from the upstream
// reservation snapshot. The ttl comes from the caller (the link's query
// parameter), falling back to the recovery default. The result is served
// for the current request only and is never written back to the pending
// store; a later reload recovers again instead of trusting stale state.
func (s *Service) Recuperar(ctx context.Context, sessionID string, idCita, ttlMinutos int) (*PendingPaymentSession, error) {
	resumen, err := s.api.CitaResumen(ctx, idCita)
	if err != nil {
		s.metrics.ObserveRecuperacion("error")
		s.logger.Warn("reservation recovery failed", "error", err, "id_cita", idCita)
		return nil, err
	}

	if ttlMinutos <= 0 {
		ttlMinutos = s.recuperacionTTLMin
	}
	session := &PendingPaymentSession{
		IDCita:     idCita,
		TTLMinutos: ttlMinutos,
		Resumen:    ResumenDeCita(resumen),
		CreadaEn:   s.now(),
	}

	s.metrics.ObserveRecuperacion("ok")
	s.recordEvent(ctx, BookingEvent{SessionID: sessionID, IDCita: idCita, Evento: EventoSesionRecuperada})
	return session, nil
}
