// Package clientrt is the runtime shared by generated Go clients.
package clientrt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// Request is one outgoing call. Body is the serialized JSON payload, nil when absent.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
	// CORS asks browser-backed transports for a cross-origin request
	CORS bool
}

// Response is a completed call with its body fully read
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// Transport performs requests for a generated client
type Transport interface {
	RoundTrip(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to Transport
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// RoundTrip calls f
func (f TransportFunc) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// HTTPTransport sends requests with an *http.Client. CORS has no meaning here and is ignored.
type HTTPTransport struct {
	Client *http.Client
}

// RoundTrip implements Transport
func (t HTTPTransport) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
