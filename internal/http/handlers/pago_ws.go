package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/praxia/citas-gateway/internal/citas"
	"github.com/praxia/citas-gateway/internal/http/middleware"
	"github.com/praxia/citas-gateway/pkg/logging"
	"golang.org/x/net/websocket"
)

// PagoSocket streams the payment countdown so every open tab shows the
// same clock without polling.
type PagoSocket struct {
	svc    *citas.Service
	logger *logging.Logger
}

// NewPagoSocket creates the countdown stream handler.
func NewPagoSocket(svc *citas.Service, logger *logging.Logger) *PagoSocket {
	if logger == nil {
		logger = logging.Default()
	}
	return &PagoSocket{svc: svc, logger: logger}
}

// CountdownTick is one frame of the stream.
type CountdownTick struct {
	Type             string `json:"type"` // "tick", "expirado", "error"
	RestanteSegundos int    `json:"restanteSegundos,omitempty"`
	Restante         string `json:"restante,omitempty"`
	Mensaje          string `json:"mensaje,omitempty"`
}

// HandleWebSocket handles GET /citas/pago/ws. Recovery parameters work
// the same as on the payment screen itself.
func (h *PagoSocket) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *PagoSocket) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		_ = websocket.JSON.Send(conn, CountdownTick{Type: "error", Mensaje: "sesión no identificada"})
		return
	}

	idCita, _ := strconv.Atoi(r.URL.Query().Get("id"))
	ttl, _ := strconv.Atoi(r.URL.Query().Get("ttl"))

	session, err := h.svc.Pending(r.Context(), sessionID, idCita, ttl)
	if err != nil || session == nil {
		_ = websocket.JSON.Send(conn, CountdownTick{Type: "error", Mensaje: "no hay una reserva pendiente de pago"})
		return
	}

	remaining := session.RemainingSeconds(time.Now())
	_ = websocket.JSON.Send(conn, CountdownTick{
		Type:             "tick",
		RestanteSegundos: remaining,
		Restante:         citas.FormatSeconds(remaining),
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Stop ticking as soon as the tab goes away.
	go func() {
		defer cancel()
		for {
			var discard string
			if err := websocket.Message.Receive(conn, &discard); err != nil {
				return
			}
		}
	}()

	h.logger.Info("countdown stream opened", "session_id", sessionID, "id_cita", session.IDCita)

	countdown := citas.NewCountdown(remaining)
	countdown.Run(ctx, func(left int) {
		_ = websocket.JSON.Send(conn, CountdownTick{
			Type:             "tick",
			RestanteSegundos: left,
			Restante:         citas.FormatSeconds(left),
		})
	})

	if countdown.Expired() && ctx.Err() == nil {
		_ = websocket.JSON.Send(conn, CountdownTick{Type: "expirado", Restante: citas.FormatSeconds(0)})
	}
}
