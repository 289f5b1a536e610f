package notification

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/frahmantamala/facility-management/internal/core/events"
	"github.com/go-resty/resty/v2"
)

const (
	SignatureHeader = "X-Signature"
	EventTypeHeader = "X-Event-Type"
)

var (
	ErrQueueFull = errors.New("notification queue full")
	ErrClosed    = errors.New("notifier is shut down")
)

type Config struct {
	WebhookURL    string
	SigningSecret string
	Timeout       time.Duration
	RetryCount    int
	RetryWaitTime time.Duration
	Workers       int
	QueueSize     int
}

// Envelope is the JSON body posted to the webhook.
type Envelope struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// WebhookNotifier forwards domain events to an HTTP endpoint through a bounded worker pool.
type WebhookNotifier struct {
	client *resty.Client
	url    string
	secret []byte
	logger *slog.Logger

	jobs    chan events.Event
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	workers int
}

func NewWebhookNotifier(cfg Config, logger *slog.Logger) *WebhookNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryWaitTime <= 0 {
		cfg.RetryWaitTime = 500 * time.Millisecond
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWaitTime).
		SetRetryMaxWaitTime(4*cfg.RetryWaitTime).
		SetHeader("Content-Type", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	n := &WebhookNotifier{
		client:  client,
		url:     cfg.WebhookURL,
		secret:  []byte(cfg.SigningSecret),
		logger:  logger,
		jobs:    make(chan events.Event, cfg.QueueSize),
		workers: cfg.Workers,
	}
	n.start()
	return n
}

func (n *WebhookNotifier) start() {
	for i := 0; i < n.workers; i++ {
		n.wg.Add(1)
		go func(id int) {
			defer n.wg.Done()
			for event := range n.jobs {
				if err := n.Deliver(context.Background(), event); err != nil {
					n.logger.Error("webhook delivery failed",
						"worker_id", id, "event_type", event.EventType(), "event_id", event.EventID(), "error", err)
				}
			}
		}(i)
	}
	n.logger.Info("webhook notifier started", "workers", n.workers, "queue_size", cap(n.jobs))
}

// Handle queues the event for delivery. It is an events.Handler and never blocks the publisher.
func (n *WebhookNotifier) Handle(_ context.Context, event events.Event) error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		return ErrClosed
	}
	select {
	case n.jobs <- event:
		return nil
	default:
		n.logger.Warn("webhook queue full, dropping event", "event_type", event.EventType(), "event_id", event.EventID())
		return ErrQueueFull
	}
}

// Deliver posts one event synchronously, retrying transport errors and 5xx answers.
func (n *WebhookNotifier) Deliver(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(Envelope{
		ID:         event.EventID(),
		Type:       event.EventType(),
		OccurredAt: event.OccurredAt(),
		Data:       event.Payload(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader(SignatureHeader, Sign(n.secret, body)).
		SetHeader(EventTypeHeader, event.EventType()).
		SetBody(body).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}

	n.logger.Debug("webhook delivered",
		"event_type", event.EventType(), "event_id", event.EventID(), "attempts", resp.Request.Attempt)
	return nil
}

// Shutdown stops accepting events and waits for queued deliveries to finish.
func (n *WebhookNotifier) Shutdown(ctx context.Context) error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.jobs)
	}
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		n.logger.Info("webhook notifier shutdown complete")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
