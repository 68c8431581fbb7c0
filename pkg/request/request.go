/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/masteryyh/storefront/pkg/config"
	"github.com/masteryyh/storefront/pkg/customerrors"
)

const userAgent = "storefront-cli"

// Kind tells how a successful response body should be read.
type Kind int

const (
	KindJSON Kind = iota
	KindText
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindText:
		return "text"
	default:
		return "blob"
	}
}

type Response struct {
	Status      int
	Header      http.Header
	ContentType string
	Kind        Kind
	Body        []byte
}

// Text returns the body as a string regardless of its kind.
func (r *Response) Text() string {
	return string(r.Body)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	username   string
	password   string
	validate   *validator.Validate
}

type ClientOption func(*Client)

func WithCookieJar(jar http.CookieJar) ClientOption {
	return func(c *Client) {
		c.httpClient.Jar = jar
	}
}

func NewClient(cfg *config.APIConfig, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{},
		timeout:    cfg.Timeout,
		username:   cfg.Username,
		password:   cfg.Password,
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type options struct {
	method   string
	headers  map[string]string
	body     any
	params   map[string]any
	timeout  time.Duration
	validate bool
}

type Option func(*options)

func WithMethod(method string) Option {
	return func(o *options) {
		o.method = strings.ToUpper(method)
	}
}

func WithBody(body any) Option {
	return func(o *options) {
		o.body = body
	}
}

func WithParams(params map[string]any) Option {
	return func(o *options) {
		o.params = params
	}
}

func WithHeaders(headers map[string]string) Option {
	return func(o *options) {
		o.headers = headers
	}
}

// WithTimeout bounds the request only when the caller context carries no
// cancellation of its own.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithValidation runs struct validation on the body before it is sent.
func WithValidation() Option {
	return func(o *options) {
		o.validate = true
	}
}

// Do performs one request against path and reads the whole response body.
// Any non-2xx status is returned as *customerrors.HTTPError.
func (c *Client) Do(ctx context.Context, path string, opts ...Option) (*Response, error) {
	o := &options{method: http.MethodGet, timeout: c.timeout}
	for _, opt := range opts {
		opt(o)
	}

	if ctx.Done() == nil && o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	fullURL, err := BuildURL(JoinPaths(c.baseURL, path), o.params)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json, text/plain, */*",
		"User-Agent":   userAgent,
	}
	for k, v := range o.headers {
		headers[k] = v
	}

	var body io.Reader
	if o.body != nil && o.method != http.MethodGet {
		if form, ok := o.body.(*FormData); ok {
			reader, contentType, err := form.encode()
			if err != nil {
				return nil, fmt.Errorf("failed to encode form data: %w", err)
			}
			body = reader
			headers["Content-Type"] = contentType
		} else {
			if o.validate {
				if err := c.validateBody(o.body); err != nil {
					return nil, err
				}
			}
			data, err := json.Marshal(o.body)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request body: %w", err)
			}
			body = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequestWithContext(ctx, o.method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	slog.DebugContext(ctx, "request finished",
		"method", o.method,
		"url", fullURL,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"requestId", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, customerrors.NewHTTPError(resp.StatusCode, http.StatusText(resp.StatusCode), string(respBody))
	}

	contentType := resp.Header.Get("Content-Type")
	kind := kindOf(contentType)
	if kind == KindJSON && len(bytes.TrimSpace(respBody)) > 0 && !json.Valid(respBody) {
		return nil, fmt.Errorf("%w: invalid JSON from %s", customerrors.ErrDecode, fullURL)
	}

	return &Response{
		Status:      resp.StatusCode,
		Header:      resp.Header,
		ContentType: contentType,
		Kind:        kind,
		Body:        respBody,
	}, nil
}

// Validate runs struct validation on body. Non-struct bodies pass.
func (c *Client) Validate(body any) error {
	return c.validateBody(body)
}

func (c *Client) validateBody(body any) error {
	v := reflect.ValueOf(body)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	if err := c.validate.Struct(body); err != nil {
		return customerrors.InvalidParams(err)
	}
	return nil
}

func kindOf(contentType string) Kind {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(contentType)
	}
	switch {
	case strings.Contains(mediaType, "application/json"):
		return KindJSON
	case strings.HasPrefix(mediaType, "text/"):
		return KindText
	default:
		return KindBlob
	}
}

// Decode reads a response body into T. JSON bodies are unmarshalled, text
// bodies can be read into a string, an empty body yields the zero value.
func Decode[T any](resp *Response) (T, error) {
	var out T
	if resp == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return out, nil
	}

	switch resp.Kind {
	case KindJSON:
		if err := json.Unmarshal(resp.Body, &out); err != nil {
			return out, fmt.Errorf("%w: %w", customerrors.ErrDecode, err)
		}
		return out, nil
	default:
		switch target := any(&out).(type) {
		case *string:
			*target = string(resp.Body)
		case *[]byte:
			*target = resp.Body
		default:
			return out, fmt.Errorf("%w: cannot read %s body as %T", customerrors.ErrDecode, resp.Kind, out)
		}
		return out, nil
	}
}

func Get[T any](ctx context.Context, c *Client, path string, params map[string]any) (T, error) {
	resp, err := c.Do(ctx, path, WithParams(params))
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](resp)
}

// Send issues a body-carrying request with validation enabled.
func Send[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	resp, err := c.Do(ctx, path, WithMethod(method), WithBody(body), WithValidation())
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](resp)
}

func isAbsolute(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// JoinPaths prefixes path with base unless path is already an absolute URL.
func JoinPaths(base, path string) string {
	if isAbsolute(path) {
		return path
	}
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// BuildURL appends params to rawURL. Nil values, nil pointers and empty
// strings are skipped. Keys are emitted in sorted order.
func BuildURL(rawURL string, params map[string]any) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	query := u.Query()
	for key, value := range params {
		s, ok := stringify(value)
		if !ok {
			continue
		}
		query.Add(key, s)
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

func stringify(value any) (string, bool) {
	if value == nil {
		return "", false
	}

	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "", false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		if v.String() == "" {
			return "", false
		}
		return v.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), true
	default:
		return fmt.Sprint(v.Interface()), true
	}
}
