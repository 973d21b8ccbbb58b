package clientrt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"
)

// DefaultContentType is sent when Config leaves ContentType empty
const DefaultContentType = "application/json"

// Config is the state captured by a generated client. It is read-only after construction.
type Config struct {
	Transport   Transport
	CORS        bool
	ServerBase  string
	BasePath    string
	ContentType string
}

func (c *Config) transport() Transport {
	if c.Transport == nil {
		return HTTPTransport{}
	}
	return c.Transport
}

func (c *Config) contentType() string {
	if c.ContentType == "" {
		return DefaultContentType
	}
	return c.ContentType
}

// Param is one ordered key/value pair of a query string or header set.
// A nil Value, or a nil pointer, leaves the pair out.
type Param struct {
	Key   string
	Value any
}

// Default returns p, or a pointer to def when p is nil
func Default[T any](p *T, def T) *T {
	if p != nil {
		return p
	}
	return &def
}

// Query renders params as "?k=v&k2=v2" in the given order, or "" when every value is absent.
// Slices render as comma separated lists.
func Query(params ...Param) string {
	var parts []string
	for _, p := range params {
		s, ok := render(p.Value)
		if !ok {
			continue
		}
		parts = append(parts, encodeComponent(p.Key)+"="+encodeComponent(s))
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}

var placeholder = regexp.MustCompile(`\{([^{}]+)\}`)

// ExpandPath substitutes every {name} placeholder of template in one pass.
// Substituted values are path escaped; placeholders without a value are left as they are.
func ExpandPath(template string, values map[string]any) string {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		v, ok := values[m[1:len(m)-1]]
		if !ok {
			return m
		}
		s, ok := render(v)
		if !ok {
			return m
		}
		return url.PathEscape(s)
	})
}

// Do sends one request built from cfg and decodes the JSON answer into T.
// An empty answer leaves T at its zero value. Every failure is an *Error.
func Do[T any](ctx context.Context, cfg *Config, method, path string, headers []Param, body any) (T, error) {
	var out T
	target := cfg.ServerBase + cfg.BasePath + path

	req := &Request{Method: method, URL: target, Header: make(http.Header), CORS: cfg.CORS}
	for _, h := range headers {
		if s, ok := render(h.Value); ok {
			req.Header.Set(h.Key, s)
		}
	}
	req.Header.Set("Content-Type", cfg.contentType())

	fail := func(err error) (T, error) {
		return out, &Error{URL: target, Method: method, Headers: flatten(req.Header), Body: body, Cause: err}
	}

	if !isNil(body) {
		data, err := json.Marshal(body)
		if err != nil {
			return fail(fmt.Errorf("marshal request body: %w", err))
		}
		req.Body = data
	}

	resp, err := cfg.transport().RoundTrip(ctx, req)
	if err != nil {
		return fail(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(&StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: resp.Body})
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return fail(fmt.Errorf("decode response: %w", err))
	}
	return out, nil
}

// componentUnescaper undoes the QueryEscape escapes that encodeURIComponent leaves alone
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes like JavaScript's encodeURIComponent
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// render formats a parameter value, dereferencing pointers. ok is false for absent values.
func render(v any) (string, bool) {
	if isNil(v) {
		return "", false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
		items := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if s, ok := render(rv.Index(i).Interface()); ok {
				items = append(items, s)
			}
		}
		return strings.Join(items, ","), true
	}
	return fmt.Sprint(rv.Interface()), true
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func flatten(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}
