// Package contact submits the contact form through the EmailJS REST relay
// and tracks the form's submission status.
package contact

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Placeholder credentials shipped in the default configuration. A relay
// still carrying any of them is not configured.
const (
	PlaceholderServiceID  = "YOUR_SERVICE_ID"
	PlaceholderTemplateID = "YOUR_TEMPLATE_ID"
	PlaceholderPublicKey  = "YOUR_PUBLIC_KEY"
)

// DefaultEndpoint is the EmailJS send API.
const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// DefaultToEmail is the site owner's address. Messages are relayed to it
// and the failure text quotes it.
const DefaultToEmail = "bilalfaisal400@gmail.com"

// RelayConfig holds the EmailJS credentials and the recipient address.
type RelayConfig struct {
	ServiceID  string `env:"EMAILJS_SERVICE_ID"  envDefault:"YOUR_SERVICE_ID"`
	TemplateID string `env:"EMAILJS_TEMPLATE_ID" envDefault:"YOUR_TEMPLATE_ID"`
	PublicKey  string `env:"EMAILJS_PUBLIC_KEY"  envDefault:"YOUR_PUBLIC_KEY"`
	Endpoint   string `env:"EMAILJS_ENDPOINT"    envDefault:"https://api.emailjs.com/api/v1.0/email/send"`
	ToEmail    string `env:"CONTACT_TO_EMAIL"    envDefault:"bilalfaisal400@gmail.com"`
}

// LoadRelayConfig reads the relay configuration from the environment.
func LoadRelayConfig() (RelayConfig, error) {
	var cfg RelayConfig
	if err := env.Parse(&cfg); err != nil {
		return RelayConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ToEmail == "" {
		cfg.ToEmail = DefaultToEmail
	}
	return cfg, nil
}

// Configured reports whether real credentials replaced every placeholder.
func (c RelayConfig) Configured() bool {
	return c.ServiceID != "" && c.ServiceID != PlaceholderServiceID &&
		c.TemplateID != "" && c.TemplateID != PlaceholderTemplateID &&
		c.PublicKey != "" && c.PublicKey != PlaceholderPublicKey
}
