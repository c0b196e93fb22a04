package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/praxia/citas-gateway/internal/citas"
	"github.com/praxia/citas-gateway/pkg/logging"
)

// Service sends booking notifications to patients.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, logger: logger}
}

// CitaConfirmada emails the patient their paid appointment summary.
func (s *Service) CitaConfirmada(ctx context.Context, to, nombre string, msg citas.ConfirmedCitaMessage) error {
	if s.email == nil {
		s.logger.Debug("notify: email sender not configured, skipping confirmation")
		return nil
	}
	if strings.TrimSpace(to) == "" {
		return nil
	}

	r := msg.Resumen
	subject := fmt.Sprintf("Cita confirmada · %s · %s", r.Especialidad, r.Fecha)

	var b strings.Builder
	if nombre != "" {
		fmt.Fprintf(&b, "Hola %s,\n\n", nombre)
	}
	b.WriteString("Tu cita ha quedado confirmada.\n\n")
	fmt.Fprintf(&b, "Especialidad: %s\n", r.Especialidad)
	fmt.Fprintf(&b, "Médico: %s\n", r.Medico)
	fmt.Fprintf(&b, "Fecha: %s, %s - %s\n", r.Fecha, r.HoraInicio, r.HoraFin)
	if r.Centro != "" {
		fmt.Fprintf(&b, "Centro: %s\n", r.Centro)
		if r.Direccion != "" {
			fmt.Fprintf(&b, "Dirección: %s\n", r.Direccion)
		}
	}
	fmt.Fprintf(&b, "\nPago: %s (%s) · %.2f %s\n", msg.Pago.Metodo, msg.Pago.Estado, msg.Pago.Monto, msg.Pago.Moneda)
	b.WriteString("\nGracias por confiar en Praxia.\n")

	err := s.email.Send(ctx, EmailMessage{
		To:      to,
		ToName:  nombre,
		Subject: subject,
		Body:    b.String(),
	})
	if err != nil {
		return fmt.Errorf("notify: confirmation email: %w", err)
	}
	return nil
}
