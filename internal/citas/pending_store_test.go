package citas

import (
	"context"
	"testing"
	"time"
)

func TestPendingStoreRoundTrip(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewPendingPaymentStore(client, time.Hour)
	ctx := context.Background()

	created := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	saved := PendingPaymentSession{
		IDCita:     901,
		TTLMinutos: 15,
		Resumen:    CitaResumen{Medico: "Dra. Rojas", CostoMonto: 80, Moneda: "PEN"},
		CreadaEn:   created,
	}
	if err := store.Save(ctx, "sess-1", saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Read(ctx, "sess-1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a session")
	}
	if got.IDCita != 901 || got.TTLMinutos != 15 {
		t.Fatalf("unexpected session: %+v", got)
	}
	if !got.CreadaEn.Equal(created) {
		t.Fatalf("expected countdown anchor preserved, got %v", got.CreadaEn)
	}
}

func TestPendingStoreReadAbsentIsNil(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewPendingPaymentStore(client, time.Hour)

	got, err := store.Read(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent session, got %+v", got)
	}
}

func TestPendingStoreCorruptValueReadsAsNil(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewPendingPaymentStore(client, time.Hour)

	if err := mr.Set("praxia:pending_payment:sess-1", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err := store.Read(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for corrupt value, got %+v", got)
	}
}

func TestPendingStoreSaveOverwrites(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewPendingPaymentStore(client, time.Hour)
	ctx := context.Background()

	store.Save(ctx, "sess-1", PendingPaymentSession{IDCita: 901, TTLMinutos: 15})
	store.Save(ctx, "sess-1", PendingPaymentSession{IDCita: 902, TTLMinutos: 20})

	got, err := store.Read(ctx, "sess-1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.IDCita != 902 {
		t.Fatalf("expected latest reservation to win, got %+v", got)
	}
}

func TestPendingStoreClearIsIdempotent(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewPendingPaymentStore(client, time.Hour)
	ctx := context.Background()

	store.Save(ctx, "sess-1", PendingPaymentSession{IDCita: 901})
	if err := store.Clear(ctx, "sess-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(ctx, "sess-1"); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if got, _ := store.Read(ctx, "sess-1"); got != nil {
		t.Fatalf("expected session gone, got %+v", got)
	}
}

func TestRemainingSecondsNeverNegative(t *testing.T) {
	created := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	session := &PendingPaymentSession{IDCita: 1, TTLMinutos: 15, CreadaEn: created}

	if got := session.RemainingSeconds(created); got != 900 {
		t.Fatalf("expected full window at creation, got %d", got)
	}
	if got := session.RemainingSeconds(created.Add(5 * time.Minute)); got != 600 {
		t.Fatalf("expected 600s after 5m, got %d", got)
	}
	if got := session.RemainingSeconds(created.Add(time.Hour)); got != 0 {
		t.Fatalf("expected floor at zero, got %d", got)
	}
}

func TestRemainingSecondsWithoutAnchorIsFullWindow(t *testing.T) {
	session := &PendingPaymentSession{IDCita: 1, TTLMinutos: 10}
	if got := session.RemainingSeconds(time.Now()); got != 600 {
		t.Fatalf("expected full window without anchor, got %d", got)
	}
}
