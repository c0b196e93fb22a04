package citas

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Booking audit events.
const (
	EventoReservaCreada    = "reserva_creada"
	EventoReservaFallida   = "reserva_fallida"
	EventoReservaCancelada = "reserva_cancelada"
	EventoPagoConfirmado   = "pago_confirmado"
	EventoPagoRechazado    = "pago_rechazado"
	EventoPagoExpirado     = "pago_expirado"
	EventoSesionRecuperada = "sesion_recuperada"
)

// EventLog records booking milestones and failures to PostgreSQL for
// diagnostics. A nil log (no database configured) is a no-op everywhere.
type EventLog struct {
	db *sql.DB
}

func NewEventLog(db *sql.DB) *EventLog {
	if db == nil {
		return nil
	}
	return &EventLog{db: db}
}

// BookingEvent is one audit entry.
type BookingEvent struct {
	SessionID string
	IDCita    int
	Evento    string
	Detalle   string
	Monto     float64
	Moneda    string
}

// BookingEventRecord is a stored audit entry.
type BookingEventRecord struct {
	ID        uuid.UUID
	SessionID string
	IDCita    int
	Evento    string
	Detalle   string
	Monto     float64
	Moneda    string
	CreatedAt time.Time
}

// Record persists one event.
func (l *EventLog) Record(ctx context.Context, evt BookingEvent) error {
	if l == nil || l.db == nil {
		return nil
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO booking_events (
			id, session_id, id_cita, evento, detalle, monto, moneda, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.New(), evt.SessionID, evt.IDCita, evt.Evento, evt.Detalle, evt.Monto, evt.Moneda, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("citas: failed to record event: %w", err)
	}
	return nil
}

// ListBySession returns a session's events, oldest first.
func (l *EventLog) ListBySession(ctx context.Context, sessionID string, limit int) ([]BookingEventRecord, error) {
	if l == nil || l.db == nil {
		return nil, nil
	}

	query := `
		SELECT id, session_id, id_cita, evento, COALESCE(detalle, ''), monto, COALESCE(moneda, ''), created_at
		FROM booking_events
		WHERE session_id = $1
		ORDER BY created_at ASC
	`
	args := []any{sessionID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("citas: failed to list events: %w", err)
	}
	defer rows.Close()

	var events []BookingEventRecord
	for rows.Next() {
		var rec BookingEventRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.IDCita, &rec.Evento, &rec.Detalle, &rec.Monto, &rec.Moneda, &rec.CreatedAt); err != nil {
			continue
		}
		events = append(events, rec)
	}
	return events, rows.Err()
}
