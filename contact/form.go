package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Status is the submission state of a form.
type Status int

const (
	StatusIdle Status = iota
	StatusSending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSending:
		return "sending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// StatusDismissAfter is how long a success or error status stays visible.
const StatusDismissAfter = 5 * time.Second

const successText = "Thank you for your message! I will get back to you soon."

// ErrBusy is returned by Submit while a submission is in flight.
var ErrBusy = errors.New("submission already in progress")

// MissingFieldsError lists required fields left blank.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// FormState is a point-in-time view of a form.
type FormState struct {
	Fields  Message
	Status  Status
	Message string // status text; empty when idle or sending
}

// timerFunc schedules f after d and returns a stop function.
type timerFunc func(d time.Duration, f func()) (stop func() bool)

func afterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Form holds the contact form fields and drives one submission at a time.
type Form struct {
	mu      sync.Mutex
	sender  Sender
	toEmail string
	after   timerFunc

	fields  Message
	status  Status
	text    string
	gen     uint64 // bumped on every status change
	stopTmr func() bool
}

// NewForm creates an idle form that submits through sender. toEmail is the
// address quoted in the failure text; empty means DefaultToEmail.
func NewForm(sender Sender, toEmail string) *Form {
	if toEmail == "" {
		toEmail = DefaultToEmail
	}
	return &Form{sender: sender, toEmail: toEmail, after: afterFunc}
}

// SetFields replaces the field values.
func (f *Form) SetFields(m Message) {
	f.mu.Lock()
	f.fields = m
	f.mu.Unlock()
}

// State returns the current fields and status.
func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormState{Fields: f.fields, Status: f.status, Message: f.text}
}

// FailureText is the status text shown when a submission fails.
func (f *Form) FailureText() string {
	return "Failed to send message. Please try again or contact me directly at " + f.toEmail
}

// Submit validates the fields and sends them once. On success the fields
// are cleared. Either outcome sets a status that returns to idle after
// StatusDismissAfter. The send error, if any, is returned.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.status == StatusSending {
		f.mu.Unlock()
		return ErrBusy
	}
	msg := f.fields
	if err := validate(msg); err != nil {
		f.mu.Unlock()
		return err
	}
	f.setStatusLocked(StatusSending, "")
	f.mu.Unlock()

	err := f.sender.Send(ctx, msg)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		slog.Error("contact relay error", "error", err)
		f.setStatusLocked(StatusError, f.FailureText())
	} else {
		f.fields = Message{}
		f.setStatusLocked(StatusSuccess, successText)
	}
	f.scheduleDismissLocked()
	return err
}

func (f *Form) setStatusLocked(s Status, text string) {
	if f.stopTmr != nil {
		f.stopTmr()
		f.stopTmr = nil
	}
	f.status = s
	f.text = text
	f.gen++
}

func (f *Form) scheduleDismissLocked() {
	gen := f.gen
	f.stopTmr = f.after(StatusDismissAfter, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		// A newer status owns the display.
		if f.gen != gen {
			return
		}
		f.status = StatusIdle
		f.text = ""
		f.gen++
		f.stopTmr = nil
	})
}

// Close cancels a pending status dismissal.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopTmr != nil {
		f.stopTmr()
		f.stopTmr = nil
	}
}

func validate(m Message) error {
	var missing []string
	if strings.TrimSpace(m.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(m.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(m.Message) == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}
