// Package apiactions is a small helper for calling an HTTP API from tests and asserting on what
// comes back.
package apiactions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRetries = 0
	retryBackoff   = 100 * time.Millisecond
)

// Logger is the subset of framework.Logger that the helper uses.
type Logger interface {
	Printf(message string, args ...interface{})
}

// RequestOptions can be passed to any request method. All fields are optional.
type RequestOptions struct {
	Headers map[string]string
	Timeout time.Duration

	// Retries is the number of extra attempts made when the request fails at the transport level
	// or times out. HTTP error statuses are never retried.
	Retries ldvalue.OptionalInt
}

// WithBearer returns options that send an Authorization header with the given token.
func WithBearer(token string) RequestOptions {
	return RequestOptions{Headers: map[string]string{"Authorization": "Bearer " + token}}
}

// FilePart is one file in a multipart request.
type FilePart struct {
	FieldName string
	FileName  string
	MimeType  string
	Content   []byte
}

// TimeoutError is returned when a request does not complete within its timeout.
type TimeoutError struct {
	Method  string
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s %s timed out after %s", e.Method, e.URL, e.Timeout)
}

// IsTimeout returns true if err is or wraps a *TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// APIActions issues requests against one API.
type APIActions struct {
	baseURL string
	client  *http.Client
	logger  Logger
	timeout time.Duration
}

// New creates an APIActions. Request paths that begin with "/" are resolved against baseURL.
//
// If the client has a Timeout, it becomes the default timeout for requests, and RequestOptions.Timeout
// can make it longer or shorter. The helper uses a copy of the client without the Timeout, since the
// deadline of each request is set on its context.
func New(baseURL string, client *http.Client, logger Logger) *APIActions {
	timeout := defaultTimeout
	if client == nil {
		client = &http.Client{}
	} else if client.Timeout > 0 {
		timeout = client.Timeout
		c := *client
		c.Timeout = 0
		client = &c
	}
	if logger == nil {
		logger = nullLogger{}
	}
	return &APIActions{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		logger:  logger,
		timeout: timeout,
	}
}

type nullLogger struct{}

func (nullLogger) Printf(string, ...interface{}) {}

// BaseURL returns the URL that relative paths are resolved against.
func (a *APIActions) BaseURL() string {
	return a.baseURL
}

func (a *APIActions) Get(url string, opts ...RequestOptions) (*Response, error) {
	return a.do(http.MethodGet, url, nil, "", opts)
}

func (a *APIActions) Delete(url string, opts ...RequestOptions) (*Response, error) {
	return a.do(http.MethodDelete, url, nil, "", opts)
}

// Post sends body as JSON, unless it is a []byte or string, which are sent as-is.
func (a *APIActions) Post(url string, body interface{}, opts ...RequestOptions) (*Response, error) {
	return a.doWithBody(http.MethodPost, url, body, opts)
}

func (a *APIActions) Put(url string, body interface{}, opts ...RequestOptions) (*Response, error) {
	return a.doWithBody(http.MethodPut, url, body, opts)
}

func (a *APIActions) Patch(url string, body interface{}, opts ...RequestOptions) (*Response, error) {
	return a.doWithBody(http.MethodPatch, url, body, opts)
}

// PostMultipart sends a multipart/form-data request containing the given files. An empty list is
// sent as a valid multipart body with no parts.
func (a *APIActions) PostMultipart(url string, files []FilePart, opts ...RequestOptions) (*Response, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, f.FieldName, f.FileName))
		mimeType := f.MimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		header.Set("Content-Type", mimeType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return a.do(http.MethodPost, url, buf.Bytes(), w.FormDataContentType(), opts)
}

func (a *APIActions) doWithBody(method, url string, body interface{}, opts []RequestOptions) (*Response, error) {
	switch b := body.(type) {
	case nil:
		return a.do(method, url, nil, "", opts)
	case []byte:
		return a.do(method, url, b, "application/json", opts)
	case string:
		return a.do(method, url, []byte(b), "application/json", opts)
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body for %s %s: %w", method, url, err)
		}
		return a.do(method, url, data, "application/json", opts)
	}
}

func (a *APIActions) resolve(url string) string {
	if strings.HasPrefix(url, "/") {
		return a.baseURL + url
	}
	return url
}

func mergeOptions(opts []RequestOptions) RequestOptions {
	ret := RequestOptions{Headers: map[string]string{}}
	for _, o := range opts {
		for k, v := range o.Headers {
			ret.Headers[k] = v
		}
		if o.Timeout > 0 {
			ret.Timeout = o.Timeout
		}
		if o.Retries.IsDefined() {
			ret.Retries = o.Retries
		}
	}
	return ret
}

func (a *APIActions) do(method, url string, body []byte, contentType string, opts []RequestOptions) (*Response, error) {
	options := mergeOptions(opts)
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = a.timeout
	}
	retries := options.Retries.OrElse(defaultRetries)
	if retries < 0 {
		retries = 0
	}
	fullURL := a.resolve(url)

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			a.logger.Printf("%s %s failed (%s), retrying (%d of %d)", method, fullURL, lastErr, attempt, retries)
			time.Sleep(retryBackoff * time.Duration(attempt))
		}
		resp, err := a.doOnce(method, fullURL, body, contentType, options.Headers, timeout)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (a *APIActions) doOnce(
	method, url string,
	body []byte,
	contentType string,
	headers map[string]string,
	timeout time.Duration,
) (*Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("invalid request %s %s: %w", method, url, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	started := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, a.transportError(method, url, timeout, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, a.transportError(method, url, timeout, err)
	}
	elapsed := time.Since(started)
	a.logger.Printf("%s %s -> %d (%s)", method, url, resp.StatusCode, elapsed.Round(time.Millisecond))

	return &Response{
		method:  method,
		url:     url,
		status:  resp.StatusCode,
		header:  resp.Header,
		body:    data,
		elapsed: elapsed,
	}, nil
}

func (a *APIActions) transportError(method, url string, timeout time.Duration, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Method: method, URL: url, Timeout: timeout}
	}
	return fmt.Errorf("%s %s failed: %w", method, url, err)
}
