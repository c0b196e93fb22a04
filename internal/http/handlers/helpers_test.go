package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/praxia/citas-gateway/internal/citas"
	"github.com/praxia/citas-gateway/internal/http/middleware"
	"github.com/praxia/citas-gateway/internal/upstream"
	"github.com/praxia/citas-gateway/pkg/logging"
)

// fakeReservaAPI scripts the upstream responses for one test.
type fakeReservaAPI struct {
	slotResumen *upstream.SlotResumen
	reserva     *upstream.ReservaConfirmada
	reservaErr  error
	cita        *upstream.CitaResumen
	citaErr     error
	pago        *upstream.PagoResultado
	pagoErr     error

	pagarCalls int
}

func (f *fakeReservaAPI) SlotResumen(ctx context.Context, slotID int) (*upstream.SlotResumen, error) {
	if f.slotResumen == nil {
		return nil, &upstream.APIError{StatusCode: 404, Message: "slot no encontrado"}
	}
	return f.slotResumen, nil
}

func (f *fakeReservaAPI) Reservar(ctx context.Context, slotID int, req upstream.ReservarRequest) (*upstream.ReservaConfirmada, error) {
	if f.reservaErr != nil {
		return nil, f.reservaErr
	}
	return f.reserva, nil
}

func (f *fakeReservaAPI) CitaResumen(ctx context.Context, idCita int) (*upstream.CitaResumen, error) {
	if f.citaErr != nil {
		return nil, f.citaErr
	}
	return f.cita, nil
}

func (f *fakeReservaAPI) Pagar(ctx context.Context, req upstream.PagarRequest) (*upstream.PagoResultado, error) {
	f.pagarCalls++
	if f.pagoErr != nil {
		return nil, f.pagoErr
	}
	return f.pago, nil
}

// newTestService builds a Service over miniredis with the scripted API.
func newTestService(t *testing.T, api citas.ReservaAPI) *citas.Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return citas.NewService(citas.Config{
		Drafts:    citas.NewDraftStore(client, time.Hour),
		Pending:   citas.NewPendingPaymentStore(client, time.Hour),
		Confirmed: citas.NewConfirmedMessageStore(client),
		API:       api,
		Logger:    logging.Default(),
	})
}

// doRequest runs a handler func through the session middleware with a
// fixed session id and optional chi URL params.
func doRequest(t *testing.T, handler http.HandlerFunc, method, target, sessionID, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set(middleware.SessionHeader, sessionID)

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	rec := httptest.NewRecorder()
	middleware.Session(time.Hour)(handler).ServeHTTP(rec, req)
	return rec
}
