package citas

import "time"

// Booking kinds as the portal stores them.
const (
	TipoPresencial = "presencial"
	TipoVirtual    = "virtual"
	TipoChequeo    = "chequeo"
)

// Search modes for the doctor step.
const (
	ModoEspecialidad = "especialidad"
	ModoMedico       = "medico"
)

// CitaDraft is the accumulating selection for one booking attempt. Every
// field is optional until the wizard step that owns it has run; the zero
// value means "not chosen yet".
type CitaDraft struct {
	Tipo                    string  `json:"tipo,omitempty"`
	PacienteID              int     `json:"pacienteId,omitempty"`
	PacienteNombre          string  `json:"pacienteNombre,omitempty"`
	Modo                    string  `json:"modo,omitempty"`
	EspecialidadID          int     `json:"especialidadId,omitempty"`
	EspecialidadNombre      string  `json:"especialidadNombre,omitempty"`
	EspecialidadDescripcion string  `json:"especialidadDescripcion,omitempty"`
	CentroID                int     `json:"centroId,omitempty"`
	CentroNombre            string  `json:"centroNombre,omitempty"`
	CentroDireccion         string  `json:"centroDireccion,omitempty"`
	CentroTelefono          string  `json:"centroTelefono,omitempty"`
	CentroUbicacion         string  `json:"centroUbicacion,omitempty"`
	MedicoID                int     `json:"medicoId,omitempty"`
	MedicoNombre            string  `json:"medicoNombre,omitempty"`
	MedicoCmp               string  `json:"medicoCmp,omitempty"`
	MedicoPerfil            string  `json:"medicoPerfil,omitempty"`
	MedicoTarifa            float64 `json:"medicoTarifa,omitempty"`
	MedicoMoneda            string  `json:"medicoMoneda,omitempty"`
	MceID                   int     `json:"mceId,omitempty"`
	CostoMonto              float64 `json:"costoMonto,omitempty"`
	CostoMoneda             string  `json:"costoMoneda,omitempty"`
	IDAgenda                int     `json:"idAgenda,omitempty"`
	SlotID                  int     `json:"slotId,omitempty"`
	SlotFecha               string  `json:"slotFecha,omitempty"`
	SlotHoraInicio          string  `json:"slotHoraInicio,omitempty"`
	SlotHoraFin             string  `json:"slotHoraFin,omitempty"`
}

// CitaResumen is the appointment snapshot shown on the payment screen and
// in the confirmation banner.
type CitaResumen struct {
	Especialidad string  `json:"especialidad,omitempty"`
	Centro       string  `json:"centro,omitempty"`
	Direccion    string  `json:"direccion,omitempty"`
	Distrito     string  `json:"distrito,omitempty"`
	Provincia    string  `json:"provincia,omitempty"`
	Departamento string  `json:"departamento,omitempty"`
	Medico       string  `json:"medico,omitempty"`
	Fecha        string  `json:"fecha,omitempty"`
	HoraInicio   string  `json:"horaInicio,omitempty"`
	HoraFin      string  `json:"horaFin,omitempty"`
	CostoMonto   float64 `json:"costoMonto,omitempty"`
	Moneda       string  `json:"moneda,omitempty"`
	Motivo       string  `json:"motivo,omitempty"`
	Telefono     string  `json:"telefono,omitempty"`
}

// PendingPaymentSession is a server-confirmed, not-yet-paid reservation.
// CreadaEn anchors the payment countdown across requests; a recovered
// session gets a fresh anchor, matching the portal behavior of restarting
// the visible countdown after a reload.
type PendingPaymentSession struct {
	IDCita     int         `json:"idCita"`
	TTLMinutos int         `json:"ttlMinutos"`
	Resumen    CitaResumen `json:"resumen"`
	CreadaEn   time.Time   `json:"creadaEn,omitempty"`
}

// RemainingSeconds reports how much of the reservation hold is left at
// now. Never negative. The upstream service stays authoritative; this is
// a display/guard value only.
func (p *PendingPaymentSession) RemainingSeconds(now time.Time) int {
	if p == nil {
		return 0
	}
	total := p.TTLMinutos * 60
	if p.CreadaEn.IsZero() {
		return total
	}
	elapsed := int(now.Sub(p.CreadaEn).Seconds())
	if elapsed >= total {
		return 0
	}
	return total - elapsed
}

// PagoInfo is the payment outcome attached to a confirmation message.
type PagoInfo struct {
	Metodo string  `json:"metodo"`
	Estado string  `json:"estado"`
	Monto  float64 `json:"monto,omitempty"`
	Moneda string  `json:"moneda,omitempty"`
}

// ConfirmedCitaMessage is the one-shot success banner payload shown on the
// home screen after payment. DisplaySegundos is a hint for the consumer's
// auto-dismiss timer; the store itself never expires the banner.
type ConfirmedCitaMessage struct {
	Resumen         CitaResumen `json:"resumen"`
	Pago            PagoInfo    `json:"pago"`
	Timestamp       time.Time   `json:"timestamp"`
	DisplaySegundos int         `json:"displaySegundos,omitempty"`
}
