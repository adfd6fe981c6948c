// Package client talks to the salon booking API and turns its error
// envelopes back into the store's error values.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"salon-booking-server/internal/booking"
	"salon-booking-server/internal/catalogue"
	"salon-booking-server/internal/models"
)

// TransportError wraps failures where no usable answer came back: the
// request never completed, the server failed, or the body was not an
// envelope.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a 4xx answer with no matching store error.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Fields  []string        `json:"fields"`
	Invalid []string        `json:"invalid"`
}

// Service is a catalogue entry as served by the API.
type Service struct {
	catalogue.Service
	DisplayPrice string `json:"displayPrice,omitempty"`
}

// AppointmentList is the admin view of the store.
type AppointmentList struct {
	Appointments []models.Appointment              `json:"appointments"`
	Counts       map[models.AppointmentStatus]int `json:"counts"`
}

// ListOptions narrows List. Zero values mean no filter.
type ListOptions struct {
	Date   string
	Status models.AppointmentStatus
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client is safe for concurrent use once configured.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create books an appointment. It satisfies wizard.Submitter.
func (c *Client) Create(ctx context.Context, req booking.CreateRequest) (*booking.Confirmation, error) {
	var conf booking.Confirmation
	if err := c.do(ctx, "create appointment", http.MethodPost, "/api/v1/appointments", req, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Client) List(ctx context.Context, opts ListOptions) (*AppointmentList, error) {
	q := url.Values{}
	if opts.Date != "" {
		q.Set("date", opts.Date)
	}
	if opts.Status != "" {
		q.Set("status", string(opts.Status))
	}
	path := "/api/v1/appointments"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var list AppointmentList
	if err := c.do(ctx, "list appointments", http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := c.do(ctx, "get appointment", http.MethodGet, "/api/v1/appointments/"+url.PathEscape(id), nil, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	var appt models.Appointment
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, "update status", http.MethodPatch, "/api/v1/appointments/"+url.PathEscape(id)+"/status", body, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

// Login exchanges admin credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, "login", http.MethodPost, "/api/v1/auth/login", body, &resp); err != nil {
		return "", err
	}
	c.token = resp.AccessToken
	return resp.AccessToken, nil
}

func (c *Client) Services(ctx context.Context) ([]Service, error) {
	var services []Service
	if err := c.do(ctx, "list services", http.MethodGet, "/api/v1/services", nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// Availability reports which slots of date are still free.
func (c *Client) Availability(ctx context.Context, date string) ([]booking.SlotAvailability, error) {
	var resp struct {
		Slots []booking.SlotAvailability `json:"slots"`
	}
	path := "/api/v1/slots?" + url.Values{"date": {date}}.Encode()
	if err := c.do(ctx, "availability", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Slots, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode >= 500 {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("server error: %s", strings.TrimSpace(string(raw)))}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if resp.StatusCode >= 300 {
		return mapError(resp.StatusCode, env)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}

func mapError(status int, env envelope) error {
	switch env.Code {
	case "missing_fields":
		return &models.ValidationError{Missing: env.Fields, Invalid: env.Invalid}
	case "slot_taken":
		return models.ErrSlotTaken
	case "not_found":
		return models.ErrAppointmentNotFound
	case "invalid_transition":
		terr := &models.InvalidTransitionError{}
		_ = json.Unmarshal(env.Data, terr)
		return terr
	}
	msg := env.Error
	if msg == "" {
		msg = env.Message
	}
	return &APIError{Status: status, Code: env.Code, Message: msg}
}
