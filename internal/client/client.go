// Package client implements the HTTP clients for the three backend services.
//
// Each client is a thin typed boundary: it forms the request, decodes the
// response, and reports failures as *RemoteError. There are no retries here;
// retry policy belongs to the callers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// maxErrorBody bounds how much of an error response body is read when
// extracting the detail message.
const maxErrorBody = 64 << 10

// RemoteError is any failure talking to a backend service: either a transport
// failure (Status 0, no response) or an application error response.
type RemoteError struct {
	// Status is the HTTP status code of the error response, or 0 when no
	// response was received.
	Status int
	// Detail is the machine-readable detail string from the response body,
	// when the service provided one.
	Detail string

	cause error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Status == 0 && e.cause != nil:
		return "service unreachable: " + e.cause.Error()
	case e.Status == 0:
		return "service unreachable"
	case e.Detail != "":
		return fmt.Sprintf("service returned %d: %s", e.Status, e.Detail)
	default:
		return fmt.Sprintf("service returned %d", e.Status)
	}
}

func (e *RemoteError) Unwrap() error { return e.cause }

// UserMessage is the text worth showing to a user: the server-provided detail
// when present, a generic connectivity message otherwise.
func (e *RemoteError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Status == 0 {
		return "service unreachable"
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Options configures the shared HTTP transport for the service clients.
type Options struct {
	// Timeout bounds each request end to end. Defaults to 10s.
	Timeout time.Duration

	// TracerProvider and MeterProvider instrument the transport when set.
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

func (o Options) httpClient() *http.Client {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var opts []otelhttp.Option
	if o.TracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(o.TracerProvider))
	}
	if o.MeterProvider != nil {
		opts = append(opts, otelhttp.WithMeterProvider(o.MeterProvider))
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport, opts...),
	}
}

// base carries the pieces shared by all three service clients.
type base struct {
	http    *http.Client
	baseURL string
}

func newBase(baseURL string, opts Options) base {
	return base{
		http:    opts.httpClient(),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// do sends one JSON request and decodes the response into out (when out is
// non-nil). Non-2xx responses and transport failures come back as *RemoteError.
func (b base) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reqBody = bytes.NewReader(buf)
	}

	u := b.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return &RemoteError{cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RemoteError{Status: resp.StatusCode, Detail: errorDetail(payload)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "decode response")
		}
	}
	return nil
}

// errorDetail pulls the optional "detail" field out of an error response
// body. Bodies are not guaranteed to be JSON objects, so any parse failure
// just yields an empty detail.
func errorDetail(body []byte) string {
	var detail string
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "detail" {
			return d.Skip()
		}
		s, err := d.Str()
		if err != nil {
			return err
		}
		detail = s
		return nil
	}); err != nil {
		return ""
	}
	return detail
}
