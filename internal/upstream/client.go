package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/praxia/citas-gateway/internal/observability/metrics"
	"github.com/praxia/citas-gateway/pkg/logging"
)

const (
	defaultUserAgent = "praxia-citas-gateway/0.1"
	maxErrorBody     = 4 << 10
)

// Config controls how the clinical API client behaves.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
	UserAgent  string
	Metrics    *metrics.BookingMetrics
}

// Client wraps the clinical API endpoints the booking wizard relies on.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	userAgent  string
	metrics    *metrics.BookingMetrics
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("upstream: base URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
		metrics:    cfg.Metrics,
	}, nil
}

// Especialidades searches specialties by free text.
func (c *Client) Especialidades(ctx context.Context, q string) ([]Especialidad, error) {
	query := url.Values{}
	if q != "" {
		query.Set("q", q)
	}
	var out []Especialidad
	if err := c.get(ctx, "/citas/especialidades", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Centros lists medical centers offering a specialty.
func (c *Client) Centros(ctx context.Context, especialidadID int) ([]Centro, error) {
	query := url.Values{"especialidadId": {strconv.Itoa(especialidadID)}}
	var out []Centro
	if err := c.get(ctx, "/citas/centros", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Medicos lists doctors, optionally filtered by specialty, center and text.
func (c *Client) Medicos(ctx context.Context, especialidadID, centroID int, q string) ([]Medico, error) {
	query := url.Values{}
	if especialidadID != 0 {
		query.Set("especialidadId", strconv.Itoa(especialidadID))
	}
	if centroID != 0 {
		query.Set("centroId", strconv.Itoa(centroID))
	}
	if q != "" {
		query.Set("q", q)
	}
	var out []Medico
	if err := c.get(ctx, "/citas/medicos", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Agendas lists bookable days for a doctor/center/specialty link.
func (c *Client) Agendas(ctx context.Context, mceID int) ([]Agenda, error) {
	var out []Agenda
	if err := c.get(ctx, fmt.Sprintf("/citas/mce/%d/agendas", mceID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Slots lists the open slots of an agenda for a date.
func (c *Client) Slots(ctx context.Context, agendaID int, fecha string) ([]Slot, error) {
	query := url.Values{}
	if fecha != "" {
		query.Set("fecha", fecha)
	}
	var out []Slot
	if err := c.get(ctx, fmt.Sprintf("/citas/agendas/%d/slots", agendaID), query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SlotResumen fetches the location detail for a slot before confirmation.
func (c *Client) SlotResumen(ctx context.Context, slotID int) (*SlotResumen, error) {
	var out SlotResumen
	if err := c.get(ctx, fmt.Sprintf("/citas/slots/%d/resumen", slotID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reservar places a hold on a slot.
func (c *Client) Reservar(ctx context.Context, slotID int, req ReservarRequest) (*ReservaConfirmada, error) {
	var out ReservaConfirmada
	if err := c.post(ctx, fmt.Sprintf("/citas/slots/%d/reservar", slotID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CitaResumen fetches the current snapshot of an existing reservation.
func (c *Client) CitaResumen(ctx context.Context, idCita int) (*CitaResumen, error) {
	var out CitaResumen
	if err := c.get(ctx, fmt.Sprintf("/citas/%d/resumen", idCita), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Pagar settles a reserved appointment.
func (c *Client) Pagar(ctx context.Context, req PagarRequest) (*PagoResultado, error) {
	var out PagoResultado
	if err := c.post(ctx, "/citas/pagar", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("upstream: build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("upstream: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveUpstreamLatency(endpointLabel(req.URL.Path), time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("upstream: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Failures arrive as plain text meant for the patient's screen.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("upstream: decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

// endpointLabel collapses numeric path segments so the latency metric keeps a
// bounded label set.
func endpointLabel(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.Atoi(p); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
