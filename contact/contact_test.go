package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func configured(endpoint string) RelayConfig {
	return RelayConfig{
		ServiceID:  "service_abc",
		TemplateID: "template_xyz",
		PublicKey:  "pk_123",
		Endpoint:   endpoint,
		ToEmail:    "owner@example.com",
	}
}

func TestLoadRelayConfigDefaults(t *testing.T) {
	for _, k := range []string{"EMAILJS_SERVICE_ID", "EMAILJS_TEMPLATE_ID", "EMAILJS_PUBLIC_KEY", "EMAILJS_ENDPOINT", "CONTACT_TO_EMAIL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := LoadRelayConfig()
	require.NoError(t, err)
	assert.Equal(t, PlaceholderServiceID, cfg.ServiceID)
	assert.Equal(t, PlaceholderTemplateID, cfg.TemplateID)
	assert.Equal(t, PlaceholderPublicKey, cfg.PublicKey)
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultToEmail, cfg.ToEmail)
	assert.False(t, cfg.Configured())
}

func TestLoadRelayConfigFromEnv(t *testing.T) {
	t.Setenv("EMAILJS_SERVICE_ID", "svc")
	t.Setenv("EMAILJS_TEMPLATE_ID", "tpl")
	t.Setenv("EMAILJS_PUBLIC_KEY", "key")
	t.Setenv("EMAILJS_ENDPOINT", "http://localhost:9/send")
	t.Setenv("CONTACT_TO_EMAIL", "me@example.com")

	cfg, err := LoadRelayConfig()
	require.NoError(t, err)
	assert.Equal(t, RelayConfig{
		ServiceID:  "svc",
		TemplateID: "tpl",
		PublicKey:  "key",
		Endpoint:   "http://localhost:9/send",
		ToEmail:    "me@example.com",
	}, cfg)
	assert.True(t, cfg.Configured())
}

func TestConfiguredRejectsAnyPlaceholder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RelayConfig)
	}{
		{"service", func(c *RelayConfig) { c.ServiceID = PlaceholderServiceID }},
		{"template", func(c *RelayConfig) { c.TemplateID = PlaceholderTemplateID }},
		{"public key", func(c *RelayConfig) { c.PublicKey = PlaceholderPublicKey }},
		{"empty key", func(c *RelayConfig) { c.PublicKey = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := configured("")
			tt.mutate(&cfg)
			assert.False(t, cfg.Configured())
		})
	}
}

func TestRelaySendPostsTemplateParams(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("OK"))
	}))
	defer srv.Close()

	relay := NewRelay(configured(srv.URL), srv.Client())
	err := relay.Send(context.Background(), Message{Name: "Ada", Email: "ada@example.com", Message: "Hello"})
	require.NoError(t, err)

	assert.Equal(t, "service_abc", got["service_id"])
	assert.Equal(t, "template_xyz", got["template_id"])
	assert.Equal(t, "pk_123", got["user_id"])
	assert.Equal(t, map[string]any{
		"from_name":  "Ada",
		"from_email": "ada@example.com",
		"message":    "Hello",
		"to_email":   "owner@example.com",
	}, got["template_params"])
}

func TestRelayNotConfiguredMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	cfg := configured(srv.URL)
	cfg.TemplateID = PlaceholderTemplateID
	err := NewRelay(cfg, srv.Client()).Send(context.Background(), Message{Name: "a", Email: "b", Message: "c"})

	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Zero(t, calls.Load())
}

func TestRelayHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "The user ID is invalid", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewRelay(configured(srv.URL), srv.Client()).Send(context.Background(), Message{Name: "a", Email: "b", Message: "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "The user ID is invalid")
}

// stubSender returns err and counts calls.
type stubSender struct {
	err   error
	calls int
	last  Message
}

func (s *stubSender) Send(_ context.Context, m Message) error {
	s.calls++
	s.last = m
	return s.err
}

// manualTimer captures scheduled dismissals so tests fire them directly.
type manualTimer struct {
	fns     []func()
	stopped int
}

func (m *manualTimer) after(_ time.Duration, f func()) func() bool {
	m.fns = append(m.fns, f)
	return func() bool { m.stopped++; return true }
}

func newTestForm(s Sender) (*Form, *manualTimer) {
	f := NewForm(s, "owner@example.com")
	mt := &manualTimer{}
	f.after = mt.after
	return f, mt
}

func TestFormSuccessClearsFieldsAndDismisses(t *testing.T) {
	s := &stubSender{}
	f, mt := newTestForm(s)
	f.SetFields(Message{Name: "Ada", Email: "ada@example.com", Message: "Hi"})

	require.NoError(t, f.Submit(context.Background()))

	st := f.State()
	assert.Equal(t, StatusSuccess, st.Status)
	assert.Equal(t, "Thank you for your message! I will get back to you soon.", st.Message)
	assert.Equal(t, Message{}, st.Fields)
	assert.Equal(t, "Ada", s.last.Name)

	require.Len(t, mt.fns, 1)
	mt.fns[0]()
	st = f.State()
	assert.Equal(t, StatusIdle, st.Status)
	assert.Empty(t, st.Message)
}

func TestFormErrorKeepsFields(t *testing.T) {
	s := &stubSender{err: ErrNotConfigured}
	f, mt := newTestForm(s)
	fields := Message{Name: "Ada", Email: "ada@example.com", Message: "Hi"}
	f.SetFields(fields)

	err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	st := f.State()
	assert.Equal(t, StatusError, st.Status)
	assert.Equal(t, "Failed to send message. Please try again or contact me directly at owner@example.com", st.Message)
	assert.Equal(t, fields, st.Fields)
	assert.Len(t, mt.fns, 1)
}

func TestFormRejectsMissingFields(t *testing.T) {
	s := &stubSender{}
	f, mt := newTestForm(s)
	f.SetFields(Message{Name: "Ada", Email: "  "})

	err := f.Submit(context.Background())
	var missing *MissingFieldsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"email", "message"}, missing.Fields)
	assert.Zero(t, s.calls)
	assert.Equal(t, StatusIdle, f.State().Status)
	assert.Empty(t, mt.fns)
}

func TestStaleDismissDoesNotClearNewerStatus(t *testing.T) {
	s := &stubSender{err: errors.New("boom")}
	f, mt := newTestForm(s)
	f.SetFields(Message{Name: "a", Email: "b", Message: "c"})

	require.Error(t, f.Submit(context.Background()))
	s.err = nil
	require.NoError(t, f.Submit(context.Background()))
	require.Len(t, mt.fns, 2)

	// First dismissal fires late, after the second submit.
	mt.fns[0]()
	assert.Equal(t, StatusSuccess, f.State().Status)

	mt.fns[1]()
	assert.Equal(t, StatusIdle, f.State().Status)
}

func TestFormRealTimerDismisses(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := NewForm(&stubSender{}, "")
	fired := make(chan struct{})
	f.after = func(_ time.Duration, fn func()) func() bool {
		return afterFunc(time.Millisecond, func() {
			fn()
			close(fired)
		})
	}
	f.SetFields(Message{Name: "a", Email: "b", Message: "c"})
	require.NoError(t, f.Submit(context.Background()))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("status was not dismissed")
	}
	assert.Equal(t, StatusIdle, f.State().Status)
	f.Close()
}

func TestFailureTextWithoutRecipient(t *testing.T) {
	f := NewForm(&stubSender{}, "")
	assert.Equal(t, "Failed to send message. Please try again or contact me directly at "+DefaultToEmail, f.FailureText())
}

func TestDefaultConfigFormTakesErrorPath(t *testing.T) {
	defer goleak.VerifyNone(t)
	for _, k := range []string{"EMAILJS_SERVICE_ID", "EMAILJS_TEMPLATE_ID", "EMAILJS_PUBLIC_KEY", "EMAILJS_ENDPOINT", "CONTACT_TO_EMAIL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := LoadRelayConfig()
	require.NoError(t, err)

	f := NewForm(NewRelay(cfg, nil), cfg.ToEmail)
	mt := &manualTimer{}
	f.after = mt.after
	f.SetFields(Message{Name: "Ada", Email: "ada@example.com", Message: "Hi"})

	err = f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	st := f.State()
	assert.Equal(t, StatusError, st.Status)
	assert.Contains(t, st.Message, "@")
	assert.Contains(t, st.Message, DefaultToEmail)
	assert.Equal(t, "Ada", st.Fields.Name)
	require.Len(t, mt.fns, 1)

	mt.fns[0]()
	assert.Equal(t, StatusIdle, f.State().Status)
	f.Close()
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "sending", StatusSending.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
