package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNotConfigured is returned when the relay still has placeholder
// credentials. No request is made.
var ErrNotConfigured = errors.New("contact relay is not configured")

// Message is one contact form submission.
type Message struct {
	Name    string
	Email   string
	Message string
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// sendRequest is the EmailJS send API body.
type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams templateParams `json:"template_params"`
}

type templateParams struct {
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	Message   string `json:"message"`
	ToEmail   string `json:"to_email"`
}

// Relay posts messages to the EmailJS REST API. Each Send is a single
// attempt.
type Relay struct {
	cfg    RelayConfig
	client *http.Client
}

// NewRelay creates a relay. A nil client uses http.DefaultClient.
func NewRelay(cfg RelayConfig, client *http.Client) *Relay {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &Relay{cfg: cfg, client: client}
}

// Config returns the relay configuration.
func (r *Relay) Config() RelayConfig {
	return r.cfg
}

// Send submits msg. It returns ErrNotConfigured without touching the
// network when credentials are placeholders.
func (r *Relay) Send(ctx context.Context, msg Message) error {
	if !r.cfg.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:  r.cfg.ServiceID,
		TemplateID: r.cfg.TemplateID,
		UserID:     r.cfg.PublicKey,
		TemplateParams: templateParams{
			FromName:  msg.Name,
			FromEmail: msg.Email,
			Message:   msg.Message,
			ToEmail:   r.cfg.ToEmail,
		},
	})
	if err != nil {
		return fmt.Errorf("encode send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("relay returned %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}
	return nil
}
