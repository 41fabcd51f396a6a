// Package formrelay submits multipart forms to a hosted form-relay endpoint.
package formrelay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/3marnadates-alt/3marna.art/domain/form"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// DefaultEndpoint is the storefront's form-relay target.
const DefaultEndpoint = "https://formspree.io/f/xkglkljq"

// Outcome classifies a submission attempt.
type Outcome string

const (
	// OutcomeAccepted means the relay answered with a 2xx status.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeRejected means the relay answered with any other status.
	OutcomeRejected Outcome = "rejected"
	// OutcomeUnreachable means no response was received.
	OutcomeUnreachable Outcome = "unreachable"
)

// Result is the outcome of a single submission attempt. There are no retries.
type Result struct {
	Outcome    Outcome `json:"outcome"`
	StatusCode int     `json:"status_code,omitempty"`
	Err        error   `json:"-"`
}

// Success reports whether the relay accepted the form.
func (r Result) Success() bool {
	return r.Outcome == OutcomeAccepted
}

// Submitter posts forms to the relay.
type Submitter interface {
	Submit(ctx context.Context, fields form.Fields) Result
}

// Config holds client configuration.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// DefaultConfig returns the production endpoint with a 15s timeout.
func DefaultConfig() Config {
	return Config{
		Endpoint: DefaultEndpoint,
		Timeout:  15 * time.Second,
	}
}

// Client submits forms with the Fiber HTTP agent.
type Client struct {
	config Config
	logger types.Logger
}

// NewClient creates a form-relay client.
func NewClient(config Config, logger types.Logger) *Client {
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	return &Client{config: config, logger: logger}
}

// Submit posts fields as multipart/form-data with Accept: application/json.
func (c *Client) Submit(ctx context.Context, fields form.Fields) Result {
	if err := ctx.Err(); err != nil {
		return Result{Outcome: OutcomeUnreachable, Err: err}
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	for _, f := range fields {
		args.Add(f.Name, f.Value)
	}

	a := fiber.Post(c.config.Endpoint)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.config.Timeout > 0 {
		a.Timeout(c.config.Timeout)
	}
	a.MultipartForm(args)

	if err := a.Parse(); err != nil {
		c.logger.Error("Invalid form relay request", "endpoint", c.config.Endpoint, "error", err)
		return Result{Outcome: OutcomeUnreachable, Err: fmt.Errorf("parse request: %w", err)}
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		c.logger.Warn("Form relay unreachable", "endpoint", c.config.Endpoint, "error", err)
		return Result{Outcome: OutcomeUnreachable, Err: err}
	}

	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		c.logger.Warn("Form relay rejected submission", "status", code, "body", string(body))
		return Result{
			Outcome:    OutcomeRejected,
			StatusCode: code,
			Err:        fmt.Errorf("form relay returned status %d", code),
		}
	}

	c.logger.Debug("Form relay accepted submission", "fields", len(fields))
	return Result{Outcome: OutcomeAccepted, StatusCode: code}
}
