// Package couchbase provides a minimal client for the Couchbase HTTP REST
// statistics API.
package couchbase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// DefaultPort is the port of the Couchbase REST API.
const DefaultPort = 8091

// Fetcher retrieves and decodes a JSON document from a REST path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (any, error)
}

// Config describes how to reach a cluster node.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Client issues GET requests against one node's REST API.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *logrus.Logger
	tracer trace.Tracer
}

// NewClient creates a client for the node described by cfg.
// A port of zero leaves the host as given.
func NewClient(cfg Config, logger *logrus.Logger) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("couchbase: host is required")
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}

	host := cfg.Host
	if cfg.Port > 0 {
		host = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	}
	base := &url.URL{Scheme: "http", Host: host}
	if cfg.Username != "" || cfg.Password != "" {
		base.User = url.UserPassword(cfg.Username, cfg.Password)
	}

	return &Client{
		base:   base,
		http:   &http.Client{},
		logger: logger,
		tracer: tracenoop.NewTracerProvider().Tracer(""),
	}, nil
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// WithTracer records a span for every request.
func (c *Client) WithTracer(t trace.Tracer) *Client {
	c.tracer = t
	return c
}

// URL resolves path against the node's base URL.
func (c *Client) URL(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("couchbase: invalid path %q: %w", path, err)
	}
	return c.base.ResolveReference(ref), nil
}

// Fetch GETs path and decodes the JSON body into a generic tree.
func (c *Client) Fetch(ctx context.Context, path string) (any, error) {
	target, err := c.URL(path)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "couchbase.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("server.address", target.Hostname()),
			attribute.String("url.path", target.Path),
		),
	)
	defer span.End()

	doc, status, err := c.get(ctx, target)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return doc, nil
}

func (c *Client) get(ctx context.Context, target *url.URL) (any, int, error) {
	log := c.logger.WithField("url", target.Redacted())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("couchbase: cannot build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithField("error", err).Debug("Request failed")
		return nil, 0, err
	}
	defer resp.Body.Close()

	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("Request completed")

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("couchbase: cannot read response body: %w", err)
	}
	if len(body) == 0 {
		return nil, resp.StatusCode, ErrEmptyBody
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, resp.StatusCode, &DecodeError{Err: err}
	}
	return doc, resp.StatusCode, nil
}
