package citas

import "testing"

func TestSecuenciaPorMedicoSkipsEspecialidadAndCentro(t *testing.T) {
	seq := Secuencia(ModoMedico)
	want := []Paso{PasoTipo, PasoPaciente, PasoModo, PasoMedico, PasoHorario, PasoConfirmar}
	if len(seq) != len(want) {
		t.Fatalf("expected %d steps, got %v", len(want), seq)
	}
	for i, p := range want {
		if seq[i] != p {
			t.Fatalf("expected %v, got %v", want, seq)
		}
	}
}

func TestSecuenciaDefaultsToEspecialidad(t *testing.T) {
	for _, modo := range []string{ModoEspecialidad, ""} {
		seq := Secuencia(modo)
		if len(seq) != 8 {
			t.Fatalf("modo %q: expected full sequence, got %v", modo, seq)
		}
		if seq[3] != PasoEspecialidad || seq[4] != PasoCentro {
			t.Fatalf("modo %q: expected especialidad+centro steps, got %v", modo, seq)
		}
	}
}

func TestNavegarFirstStepHasNoAnterior(t *testing.T) {
	nav := Navegar(CitaDraft{}, PasoTipo)
	if nav.Indice != 0 {
		t.Fatalf("expected index 0, got %d", nav.Indice)
	}
	if nav.Anterior != "" {
		t.Fatalf("expected no previous step, got %q", nav.Anterior)
	}
	if nav.Siguiente != PasoPaciente {
		t.Fatalf("expected paciente next, got %q", nav.Siguiente)
	}
}

func TestNavegarLastStepHasNoSiguiente(t *testing.T) {
	nav := Navegar(CitaDraft{Modo: ModoMedico}, PasoConfirmar)
	if nav.Siguiente != "" {
		t.Fatalf("expected no next step, got %q", nav.Siguiente)
	}
	if nav.PuedeAvanzar {
		t.Fatalf("expected no forward navigation on last step")
	}
}

func TestNavegarOffSequenceStepHasIndexMinusOne(t *testing.T) {
	nav := Navegar(CitaDraft{}, PasoPago)
	if nav.Indice != -1 {
		t.Fatalf("expected -1 for off-sequence step, got %d", nav.Indice)
	}
	if nav.Anterior != "" || nav.Siguiente != "" {
		t.Fatalf("expected no neighbors, got %+v", nav)
	}
	if nav.PuedeAvanzar {
		t.Fatalf("expected no forward navigation off sequence")
	}
}

func TestNavegarPuedeAvanzarTracksCompletion(t *testing.T) {
	if nav := Navegar(CitaDraft{}, PasoTipo); nav.PuedeAvanzar {
		t.Fatalf("expected incomplete tipo step to block")
	}
	if nav := Navegar(CitaDraft{Tipo: TipoPresencial}, PasoTipo); !nav.PuedeAvanzar {
		t.Fatalf("expected complete tipo step to allow advancing")
	}
}

func TestNavegarCentroPredicate(t *testing.T) {
	// A physical appointment needs a chosen center.
	if nav := Navegar(CitaDraft{Tipo: TipoPresencial}, PasoCentro); nav.PuedeAvanzar {
		t.Fatalf("expected presencial without centro to block")
	}
	if nav := Navegar(CitaDraft{Tipo: TipoPresencial, CentroID: 5}, PasoCentro); !nav.PuedeAvanzar {
		t.Fatalf("expected presencial with centro to pass")
	}
	// A virtual one passes with no center at all.
	if nav := Navegar(CitaDraft{Tipo: TipoVirtual}, PasoCentro); !nav.PuedeAvanzar {
		t.Fatalf("expected virtual to pass without centro")
	}
}

func TestNavegarModeChangeRecomputesSequence(t *testing.T) {
	draft := CitaDraft{Modo: ModoEspecialidad, EspecialidadID: 3}
	if nav := Navegar(draft, PasoModo); nav.Siguiente != PasoEspecialidad {
		t.Fatalf("expected especialidad next, got %q", nav.Siguiente)
	}

	draft.Modo = ModoMedico
	if nav := Navegar(draft, PasoModo); nav.Siguiente != PasoMedico {
		t.Fatalf("expected medico next after mode switch, got %q", nav.Siguiente)
	}
}
