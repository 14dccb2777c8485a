package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"time"

	"cluster_fan/internal/logger"
	"cluster_fan/internal/models"
)

const (
	DefaultEndpoint = "/api/temperature"
	maxBodyBytes    = 1 << 16
)

// NodeClient fetches one temperature from a remote agent. It never returns
// an error: every outcome is folded into a models.Reading.
type NodeClient struct {
	httpClient *http.Client
	endpoint   string
	timeout    time.Duration
	log        *logger.Logger
	now        func() time.Time
}

// NewNodeClient builds a client with a bounded per-request timeout.
func NewNodeClient(timeout time.Duration, endpoint string, log *logger.Logger) *NodeClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &NodeClient{
		// per-request deadline comes from the context; the transport
		// timeout is a backstop for callers that pass context.Background()
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		timeout:    timeout,
		log:        logger.Or(log),
		now:        time.Now,
	}
}

// Timeout is the configured per-request bound.
func (c *NodeClient) Timeout() time.Duration {
	return c.timeout
}

type temperatureResponse struct {
	Temperature *json.Number `json:"temperature"`
}

// Fetch performs one GET against the node's temperature endpoint. No retries.
func (c *NodeClient) Fetch(ctx context.Context, node models.Node) models.Reading {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("http://%s%s", node.HostPort(), c.endpoint)
	reading := models.Reading{Node: node.Name, Slot: node.Slot}

	fail := func(kind models.FailureKind, err error) models.Reading {
		reading.Failure = kind
		reading.Detail = err.Error()
		reading.Timestamp = c.now().UTC()
		c.log.Warnw("node_poll_failed", "node", node.Name, "url", url, "failure", kind, "err", err)
		return reading
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fail(models.FailureUnreachable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(classifyTransportError(ctx, err), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fail(classifyTransportError(ctx, err), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(models.FailureMalformed, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	t, err := parseTemperature(body)
	if err != nil {
		return fail(models.FailureMalformed, err)
	}

	reading.TemperatureC = t
	reading.Timestamp = c.now().UTC()
	c.log.Debugw("node_poll_ok", "node", node.Name, "temperature_c", t)
	return reading
}

func parseTemperature(body []byte) (float64, error) {
	var payload temperatureResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("decode body: %w", err)
	}
	if payload.Temperature == nil {
		return 0, errors.New("no temperature in response")
	}
	t, err := payload.Temperature.Float64()
	if err != nil {
		return 0, fmt.Errorf("temperature is not a number: %w", err)
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, errors.New("temperature is not finite")
	}
	return t, nil
}

// classifyTransportError separates deadline expiry from refused/unreachable hosts.
func classifyTransportError(ctx context.Context, err error) models.FailureKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return models.FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.FailureTimeout
	}
	return models.FailureUnreachable
}
