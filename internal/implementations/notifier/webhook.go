package notifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	"time"
)

// Webhook posts events to an automation endpoint. Only 200 OK counts as
// delivered.
type Webhook struct {
	log        logging.Logger
	url        string
	httpClient http.Client
	now        func() time.Time
}

func NewWebhook(log logging.Logger, url string, timeout time.Duration, now func() time.Time) *Webhook {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if url == "" {
		panic("webhook url must not be empty")
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Webhook{
		log:        log,
		url:        url,
		httpClient: http.Client{Timeout: timeout},
		now:        now,
	}
}

func (w *Webhook) Notify(ctx context.Context, eventType reminder.EventType, payload reminder.Payload) error {
	body, err := NewEnvelope(eventType, payload, w.now()).Marshal()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	w.log.Info(ctx, "Webhook event has been sent.", logging.Entry("eventType", eventType))
	return nil
}
