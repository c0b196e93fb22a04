package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/praxia/citas-gateway/internal/upstream"
)

type fakeCatalog struct {
	especialidades []upstream.Especialidad
	centros        []upstream.Centro
	medicos        []upstream.Medico
	agendas        []upstream.Agenda
	slots          []upstream.Slot
	resumen        *upstream.SlotResumen
	err            error

	lastQuery string
	lastFecha string
}

func (f *fakeCatalog) Especialidades(ctx context.Context, q string) ([]upstream.Especialidad, error) {
	f.lastQuery = q
	return f.especialidades, f.err
}

func (f *fakeCatalog) Centros(ctx context.Context, especialidadID int) ([]upstream.Centro, error) {
	return f.centros, f.err
}

func (f *fakeCatalog) Medicos(ctx context.Context, especialidadID, centroID int, q string) ([]upstream.Medico, error) {
	f.lastQuery = q
	return f.medicos, f.err
}

func (f *fakeCatalog) Agendas(ctx context.Context, mceID int) ([]upstream.Agenda, error) {
	return f.agendas, f.err
}

func (f *fakeCatalog) Slots(ctx context.Context, agendaID int, fecha string) ([]upstream.Slot, error) {
	f.lastFecha = fecha
	return f.slots, f.err
}

func (f *fakeCatalog) SlotResumen(ctx context.Context, slotID int) (*upstream.SlotResumen, error) {
	return f.resumen, f.err
}

func TestEspecialidadesPassesQuery(t *testing.T) {
	catalog := &fakeCatalog{
		especialidades: []upstream.Especialidad{{ID: 3, Nombre: "Cardiología"}},
	}
	h := NewCatalogHandler(catalog, nil)

	rec := doRequest(t, h.Especialidades, http.MethodGet, "/citas/especialidades?q=cardio", "sess-1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if catalog.lastQuery != "cardio" {
		t.Fatalf("expected query forwarded, got %q", catalog.lastQuery)
	}

	var items []upstream.Especialidad
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].Nombre != "Cardiología" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestSearchFailureDegradesToEmptyList(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("upstream down")}
	h := NewCatalogHandler(catalog, nil)

	rec := doRequest(t, h.Especialidades, http.MethodGet, "/citas/especialidades", "sess-1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite upstream failure, got %d", rec.Code)
	}

	var items []upstream.Especialidad
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %+v", items)
	}
}

func TestSlotsForwardsFecha(t *testing.T) {
	catalog := &fakeCatalog{
		slots: []upstream.Slot{{IDSlot: 42, HoraInicio: "10:30:00"}},
	}
	h := NewCatalogHandler(catalog, nil)

	rec := doRequest(t, h.Slots, http.MethodGet, "/citas/agendas/5/slots?fecha=2026-09-01", "sess-1", "",
		map[string]string{"id": "5"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if catalog.lastFecha != "2026-09-01" {
		t.Fatalf("expected fecha forwarded, got %q", catalog.lastFecha)
	}
}

func TestAgendasRejectsBadID(t *testing.T) {
	h := NewCatalogHandler(&fakeCatalog{}, nil)

	rec := doRequest(t, h.Agendas, http.MethodGet, "/citas/mce/abc/agendas", "sess-1", "",
		map[string]string{"id": "abc"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetSlotResumenReportsFailure(t *testing.T) {
	h := NewCatalogHandler(&fakeCatalog{err: errors.New("upstream down")}, nil)

	rec := doRequest(t, h.GetSlotResumen, http.MethodGet, "/citas/slots/42/resumen", "sess-1", "",
		map[string]string{"id": "42"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}
