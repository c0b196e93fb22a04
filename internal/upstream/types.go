package upstream

import "fmt"

// Especialidad is a searchable medical specialty.
type Especialidad struct {
	ID                 int    `json:"id"`
	Nombre             string `json:"nombre"`
	Descripcion        string `json:"descripcion,omitempty"`
	MedicosDisponibles int    `json:"medicos_disponibles"`
}

// Centro is a medical center offering a specialty.
type Centro struct {
	ID              int    `json:"id"`
	Nombre          string `json:"nombre"`
	Direccion       string `json:"direccion"`
	Telefono        string `json:"telefono"`
	Distrito        string `json:"distrito"`
	Provincia       string `json:"provincia"`
	Departamento    string `json:"departamento"`
	MedicosEnCentro int    `json:"medicos_en_centro"`
}

// Medico is a doctor available for a specialty/center pair. The
// id_medico_centro_especialidad link is what the schedule lookup keys on.
type Medico struct {
	IDMedico                   int     `json:"id_medico"`
	Nombre                     string  `json:"nombre"`
	CMP                        string  `json:"cmp"`
	Perfil                     string  `json:"perfil"`
	IDMedicoCentroEspecialidad int     `json:"id_medico_centro_especialidad"`
	Tarifa                     float64 `json:"tarifa"`
	CodMoneda                  string  `json:"cod_moneda"`
	AgendasDisponibles         int     `json:"agendas_disponibles"`
}

// Agenda is one bookable day for a doctor/center/specialty link.
type Agenda struct {
	IDAgenda         int    `json:"id_agenda"`
	Fecha            string `json:"fecha"`
	HoraInicio       string `json:"hora_inicio"`
	HoraFin          string `json:"hora_fin"`
	SlotsDisponibles int    `json:"slots_disponibles"`
}

// Slot is one bookable time slot within an agenda.
type Slot struct {
	IDSlot      int    `json:"id_slot"`
	Fecha       string `json:"fecha"`
	HoraInicio  string `json:"hora_inicio"`
	HoraFin     string `json:"hora_fin"`
	Disponibles int    `json:"disponibles"`
	StdSlot     string `json:"std_slot"`
}

// SlotResumen enriches a chosen slot with location detail before
// confirmation.
type SlotResumen struct {
	Especialidad string  `json:"especialidad,omitempty"`
	Centro       string  `json:"centro,omitempty"`
	Direccion    string  `json:"direccion,omitempty"`
	Distrito     string  `json:"distrito,omitempty"`
	Provincia    string  `json:"provincia,omitempty"`
	Departamento string  `json:"departamento,omitempty"`
	Medico       string  `json:"medico,omitempty"`
	Fecha        string  `json:"fecha,omitempty"`
	HoraInicio   string  `json:"hora_inicio,omitempty"`
	HoraFin      string  `json:"hora_fin,omitempty"`
	Tarifa       float64 `json:"tarifa,omitempty"`
	CodMoneda    string  `json:"cod_moneda,omitempty"`
}

// ReservarRequest creates a reservation hold on a slot.
type ReservarRequest struct {
	PacienteID int    `json:"pacienteId"`
	UsuarioID  int    `json:"usuarioId"`
	Motivo     string `json:"motivo"`
}

// ReservaResumen is the snapshot the reservation endpoint returns.
type ReservaResumen struct {
	Especialidad    string `json:"especialidad"`
	Centro          string `json:"centro"`
	CentroDireccion string `json:"centro_direccion"`
	Distrito        string `json:"distrito"`
	Provincia       string `json:"provincia"`
	Departamento    string `json:"departamento"`
	Medico          string `json:"medico"`
	Fecha           string `json:"fecha"`
	HoraInicio      string `json:"hora_inicio"`
	HoraFin         string `json:"hora_fin"`
}

// ReservaConfirmada is a successful reservation hold.
type ReservaConfirmada struct {
	IDCita     int            `json:"id_cita"`
	TTLMinutos int            `json:"ttl_minutos"`
	Resumen    ReservaResumen `json:"resumen"`
	Monto      float64        `json:"monto"`
	Moneda     string         `json:"moneda"`
}

// CitaResumen is the recovery-path snapshot for an existing reservation.
// Amounts and currency come under two names depending on the upstream
// code path.
type CitaResumen struct {
	Especialidad    string  `json:"especialidad"`
	Centro          string  `json:"centro"`
	CentroDireccion string  `json:"centro_direccion"`
	Distrito        string  `json:"distrito"`
	Provincia       string  `json:"provincia"`
	Departamento    string  `json:"departamento"`
	Medico          string  `json:"medico"`
	Fecha           string  `json:"fecha"`
	HoraInicio      string  `json:"hora_inicio"`
	HoraFin         string  `json:"hora_fin"`
	Monto           float64 `json:"monto,omitempty"`
	Tarifa          float64 `json:"tarifa,omitempty"`
	Moneda          string  `json:"moneda,omitempty"`
	CodMoneda       string  `json:"cod_moneda,omitempty"`
	Motivo          string  `json:"motivo,omitempty"`
}

// PagarRequest settles a reserved appointment.
type PagarRequest struct {
	IDCita         int     `json:"idCita"`
	Monto          float64 `json:"monto"`
	Moneda         string  `json:"moneda"`
	MetodoPago     string  `json:"metodoPago"`
	UsuarioID      int     `json:"usuarioId"`
	AceptaTerminos bool    `json:"aceptaTerminos"`
	Referencia     string  `json:"referencia"`
}

// PagoResultado is the payment status as the upstream records it.
type PagoResultado struct {
	StdPago string `json:"std_pago"`
}

// APIError is a non-2xx upstream response. Message carries the upstream's
// plain-text body so screens can surface it verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream: status %d", e.StatusCode)
}
