// Command contact submits one contact form message through the EmailJS
// relay and prints the resulting status text.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/backdrop/contact"
)

func main() {
	name := flag.String("name", "", "Sender name")
	email := flag.String("email", "", "Sender email address")
	message := flag.String("message", "", "Message body")
	timeout := flag.Duration("timeout", 15*time.Second, "Request timeout")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := contact.LoadRelayConfig()
	if err != nil {
		slog.Error("failed to load relay config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	relay := contact.NewRelay(cfg, &http.Client{Timeout: *timeout})
	form := contact.NewForm(relay, cfg.ToEmail)
	defer form.Close()

	form.SetFields(contact.Message{Name: *name, Email: *email, Message: *message})
	err = form.Submit(ctx)

	var missing *contact.MissingFieldsError
	if errors.As(err, &missing) {
		fmt.Fprintln(os.Stderr, missing.Error())
		flag.Usage()
		os.Exit(2)
	}

	fmt.Println(form.State().Message)
	if err != nil {
		if errors.Is(err, contact.ErrNotConfigured) {
			slog.Warn("set EMAILJS_SERVICE_ID, EMAILJS_TEMPLATE_ID and EMAILJS_PUBLIC_KEY to enable the relay")
		}
		os.Exit(1)
	}
}
