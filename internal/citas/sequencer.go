package citas

// Paso identifies a wizard step.
type Paso string

const (
	PasoTipo         Paso = "tipo"
	PasoPaciente     Paso = "paciente"
	PasoModo         Paso = "modo"
	PasoEspecialidad Paso = "especialidad"
	PasoCentro       Paso = "centro"
	PasoMedico       Paso = "medico"
	PasoHorario      Paso = "horario"
	PasoConfirmar    Paso = "confirmar"
	PasoPago         Paso = "pago"
)

var (
	secuenciaPorMedico = []Paso{
		PasoTipo, PasoPaciente, PasoModo, PasoMedico, PasoHorario, PasoConfirmar,
	}
	secuenciaPorEspecialidad = []Paso{
		PasoTipo, PasoPaciente, PasoModo, PasoEspecialidad, PasoCentro, PasoMedico, PasoHorario, PasoConfirmar,
	}
)

// Secuencia returns the ordered wizard steps for a search mode. Searching
// directly by doctor skips the specialty and center steps.
func Secuencia(modo string) []Paso {
	if modo == ModoMedico {
		return secuenciaPorMedico
	}
	return secuenciaPorEspecialidad
}

// Navegacion is the computed navigation state for one step of a draft.
// Anterior/Siguiente are empty when there is no such step; Indice is -1
// when the step is not part of the sequence (e.g. the payment screen).
type Navegacion struct {
	Secuencia    []Paso `json:"secuencia"`
	Indice       int    `json:"indice"`
	Anterior     Paso   `json:"anterior,omitempty"`
	Siguiente    Paso   `json:"siguiente,omitempty"`
	PuedeAvanzar bool   `json:"puedeAvanzar"`
}

// Navegar computes the navigation state for the given step against the
// current draft. Pure: call it on every request, the draft may change
// without a step change.
func Navegar(draft CitaDraft, actual Paso) Navegacion {
	seq := Secuencia(draft.Modo)
	idx := -1
	for i, p := range seq {
		if p == actual {
			idx = i
			break
		}
	}

	nav := Navegacion{Secuencia: seq, Indice: idx}
	if idx > 0 {
		nav.Anterior = seq[idx-1]
	}
	if idx >= 0 && idx < len(seq)-1 {
		nav.Siguiente = seq[idx+1]
	}
	nav.PuedeAvanzar = nav.Siguiente != "" && pasoCompleto(draft, actual)
	return nav
}

// pasoCompleto reports whether the draft satisfies the step's completion
// predicate. Steps without a predicate never allow forward navigation.
func pasoCompleto(draft CitaDraft, actual Paso) bool {
	switch actual {
	case PasoTipo:
		return draft.Tipo != ""
	case PasoPaciente:
		return draft.PacienteID != 0
	case PasoModo:
		return draft.Modo != ""
	case PasoEspecialidad:
		return draft.EspecialidadID != 0
	case PasoCentro:
		// A virtual appointment needs no physical center.
		return draft.Tipo == TipoVirtual || draft.CentroID != 0
	case PasoMedico:
		return draft.MceID != 0
	case PasoHorario:
		return draft.SlotID != 0
	default:
		return false
	}
}
