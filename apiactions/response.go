package apiactions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Response is the result of a request. The body has already been read in full; it is only
// parsed as JSON when asked for, and then only once.
type Response struct {
	method  string
	url     string
	status  int
	header  http.Header
	body    []byte
	elapsed time.Duration

	parsed   bool
	value    ldvalue.Value
	parseErr error
}

func (r *Response) Method() string { return r.method }
func (r *Response) URL() string { return r.url }
func (r *Response) Status() int { return r.status }
func (r *Response) Header() http.Header { return r.header }
func (r *Response) Body() []byte { return r.body }
func (r *Response) Text() string { return string(r.body) }
func (r *Response) Elapsed() time.Duration { return r.elapsed }

// OK returns true for a 2xx status.
func (r *Response) OK() bool {
	return r.status >= 200 && r.status <= 299
}

// JSON returns the body parsed as an arbitrary JSON value.
func (r *Response) JSON() (ldvalue.Value, error) {
	if !r.parsed {
		r.parsed = true
		if err := json.Unmarshal(r.body, &r.value); err != nil {
			r.parseErr = r.malformed(err)
		}
	}
	return r.value, r.parseErr
}

func (r *Response) malformed(err error) error {
	return fmt.Errorf("malformed JSON in response from %s %s: %w", r.method, r.url, err)
}

func (r *Response) String() string {
	return fmt.Sprintf("%s %s -> %d", r.method, r.url, r.status)
}

// GetResponseJSON decodes the body into a T. The only validation is that the body is well-formed
// JSON; a body that is valid JSON but does not fit T gives a decode error naming T.
func GetResponseJSON[T any](r *Response) (T, error) {
	var ret T
	if !json.Valid(r.body) {
		_, err := r.JSON()
		return ret, err
	}
	if err := json.Unmarshal(r.body, &ret); err != nil {
		return ret, fmt.Errorf("could not decode response from %s %s as %T: %w", r.method, r.url, ret, err)
	}
	return ret, nil
}
