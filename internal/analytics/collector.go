package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/go-resty/resty/v2"
)

const collectorTimeout = 3 * time.Second

// HTTPCollector posts each event as JSON to a collector endpoint from a
// background goroutine. Delivery failures are logged at debug level only.
type HTTPCollector struct {
	url    string
	client *resty.Client
	logger *slog.Logger
}

type collectorPayload struct {
	Event      string         `json:"event"`
	Properties map[string]any `json:"properties"`
	Timestamp  time.Time      `json:"timestamp"`
}

func NewHTTPCollector(url string, logger *slog.Logger) *HTTPCollector {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPCollector{
		url:    url,
		client: resty.New().SetTimeout(collectorTimeout),
		logger: logger,
	}
}

func (c *HTTPCollector) Track(_ context.Context, event string, props map[string]any) {
	payload := collectorPayload{
		Event:      event,
		Properties: maps.Clone(props),
		Timestamp:  time.Now().UTC(),
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Warn("analytics delivery panicked", "event", event, "panic", r)
			}
		}()
		if err := c.send(payload); err != nil {
			c.logger.Debug("analytics delivery failed", "event", event, "error", err)
		}
	}()
}

func (c *HTTPCollector) send(p collectorPayload) error {
	ctx, cancel := context.WithTimeout(context.Background(), collectorTimeout)
	defer cancel()

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(p).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("collector responded %d", resp.StatusCode())
	}
	return nil
}
