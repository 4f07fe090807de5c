// Package gateway talks to the spreadsheet-backed web app that is the
// system of record for fleet movements.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tableflip.dev/frota/pkg/log"
	"tableflip.dev/frota/pkg/movement"
)

// Actions understood by the gateway.
const (
	ActionLists   = "listas"
	ActionHistory = "historico"
	ActionInit    = "init"
	ActionSave    = "salvar"
	ActionClear   = "limpar"
)

// ErrRejected is returned when the gateway answers with success=false.
var ErrRejected = errors.New("gateway: request rejected")

// Gateway is the set of remote operations frota relies on.
type Gateway interface {
	Lists(ctx context.Context) (movement.Lists, error)
	History(ctx context.Context) (movement.History, error)
	// Init validates the spreadsheet behind the endpoint and may return
	// the reference lists it found.
	Init(ctx context.Context) (*movement.Lists, error)
	Save(ctx context.Context, r movement.Record) error
	Clear(ctx context.Context) error
}

// RejectedError carries the message the gateway sent with a rejection.
type RejectedError struct {
	Action  string
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway: %s rejected", e.Action)
	}
	return fmt.Sprintf("gateway: %s rejected: %s", e.Action, e.Message)
}

// Is makes errors.Is(err, ErrRejected) hold.
func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

// Request is the body of a POST call.
type Request struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Envelope is the gateway's response wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each round trip. Zero keeps the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger used for skipped rows and failures.
func WithLogger(l log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// Client is the HTTP implementation of Gateway.
type Client struct {
	endpoint string
	http     *http.Client
	log      log.Logger
}

var _ Gateway = (*Client)(nil)

// New returns a client for endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimSpace(endpoint),
		http:     &http.Client{},
		log:      log.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint is the URL this client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) Lists(ctx context.Context) (movement.Lists, error) {
	data, err := c.get(ctx, ActionLists)
	if err != nil {
		return movement.Lists{}, err
	}
	var lists movement.Lists
	if len(data) > 0 && !bytes.Equal(data, []byte("null")) {
		if err := json.Unmarshal(data, &lists); err != nil {
			return movement.Lists{}, fmt.Errorf("gateway: decode lists: %w", err)
		}
	}
	return lists, nil
}

func (c *Client) History(ctx context.Context) (movement.History, error) {
	data, err := c.get(ctx, ActionHistory)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return movement.History{}, nil
	}
	return movement.DecodeHistory(data, func(i int, err error) {
		c.log.Warn("history row kept with zero fields", "row", i, "error", err.Error())
	})
}

func (c *Client) Init(ctx context.Context) (*movement.Lists, error) {
	data, err := c.post(ctx, Request{Action: ActionInit})
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var lists movement.Lists
	if err := json.Unmarshal(data, &lists); err != nil {
		// Init succeeded; the lists will arrive with the next refresh.
		c.log.Warn("ignoring init payload", "error", err.Error())
		return nil, nil
	}
	return &lists, nil
}

func (c *Client) Save(ctx context.Context, r movement.Record) error {
	payload, err := json.Marshal(movement.SavePayload(r))
	if err != nil {
		return fmt.Errorf("gateway: encode record: %w", err)
	}
	_, err = c.post(ctx, Request{Action: ActionSave, Data: payload})
	return err
}

func (c *Client) Clear(ctx context.Context) error {
	_, err := c.post(ctx, Request{Action: ActionClear})
	return err
}

func (c *Client) get(ctx context.Context, action string) (json.RawMessage, error) {
	u, err := c.actionURL(action)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: %w", action, err)
	}
	return c.do(req, action)
}

func (c *Client) post(ctx context.Context, body Request) (json.RawMessage, error) {
	if c.endpoint == "" {
		return nil, errors.New("gateway: endpoint required")
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: %w", body.Action, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: %w", body.Action, err)
	}
	// Apps Script web apps reject preflighted content types.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	return c.do(req, body.Action)
}

func (c *Client) actionURL(action string) (string, error) {
	if c.endpoint == "" {
		return "", errors.New("gateway: endpoint required")
	}
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("gateway: parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("action", action)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) do(req *http.Request, action string) (json.RawMessage, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: %w", action, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: read body: %w", action, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("gateway: %s: unexpected status %s", action, res.Status)
	}
	c.log.Debug("gateway response", "action", action, "bytes", len(body))
	return unwrap(action, body)
}

// unwrap accepts either an Envelope or a bare JSON payload.
func unwrap(action string, body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if body[0] == '{' {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(body, &probe); err != nil {
			return nil, fmt.Errorf("gateway: %s: decode response: %w", action, err)
		}
		if _, ok := probe["success"]; ok {
			var env Envelope
			if err := json.Unmarshal(body, &env); err != nil {
				return nil, fmt.Errorf("gateway: %s: decode response: %w", action, err)
			}
			if !env.Success {
				return nil, &RejectedError{Action: action, Message: env.Error}
			}
			return env.Data, nil
		}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("gateway: %s: response is not JSON", action)
	}
	return json.RawMessage(body), nil
}

// Message extracts the text a person should see for err.
func Message(err error) string {
	var re *RejectedError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return ""
}

// Dialer builds a Gateway for an endpoint URL.
type Dialer func(endpoint string) Gateway

// HTTPDialer returns a Dialer producing Clients with opts.
func HTTPDialer(opts ...Option) Dialer {
	return func(endpoint string) Gateway {
		return New(endpoint, opts...)
	}
}
