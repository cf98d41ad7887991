// Package transport issues bounded-time requests against the API and
// normalizes every outcome, success or failure, into a Result envelope.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds every request. A call that has not settled by then
	// is aborted and reported as a timeout result.
	DefaultTimeout = 10 * time.Second

	timeoutMessage   = "Request timeout. Please try again."
	networkMessage   = "Network error. Please check your connection."
	genericMessage   = "An error occurred"
	malformedMessage = "Invalid response from server."
)

// CredentialSource exposes the bearer token attached to outgoing requests.
// A nil source, or one reporting no token, sends unauthenticated requests.
type CredentialSource interface {
	Token() (string, bool)
}

// Client issues requests against a base URL. Construct one per process and
// inject it; there is no package-level instance.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request budget.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithJar installs a shared cookie jar, letting the session store mirror the
// credential into an auth_token cookie that rides along on every request.
func WithJar(jar http.CookieJar) Option {
	return func(c *Client) { c.http.Jar = jar }
}

// New creates a Client for the given API base URL.
func New(baseURL string, creds CredentialSource, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		creds:   creds,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send performs a single JSON request. The returned Result captures every
// outcome; Send never panics and never surfaces a raw error to the caller.
func (c *Client) Send(ctx context.Context, method, endpoint string, body any, headers http.Header) Result {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Failure(KindTransport, "Failed to encode request: "+err.Error())
		}
		reader = bytes.NewReader(payload)
	}
	return c.do(ctx, method, endpoint, reader, "application/json", headers)
}

// FileUpload is one file part of a multipart request.
type FileUpload struct {
	Field   string
	Name    string
	Content io.Reader
}

// SendMultipart performs a single multipart/form-data request, for endpoints
// that accept file uploads. The JSON content type is omitted; lifecycle and
// error normalization are identical to Send.
func (c *Client) SendMultipart(ctx context.Context, method, endpoint string, fields map[string]string, files []FileUpload, headers http.Header) Result {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return Failure(KindTransport, "Failed to encode request: "+err.Error())
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err == nil {
			_, err = io.Copy(part, f.Content)
		}
		if err != nil {
			return Failure(KindTransport, "Failed to encode request: "+err.Error())
		}
	}
	if err := w.Close(); err != nil {
		return Failure(KindTransport, "Failed to encode request: "+err.Error())
	}
	return c.do(ctx, method, endpoint, &buf, w.FormDataContentType(), headers)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string, headers http.Header) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return Failure(KindTransport, "Invalid request: "+err.Error())
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if c.creds != nil {
		if token, ok := c.creds.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Failure(KindTimeout, timeoutMessage)
		}
		return Failure(KindTransport, networkMessage)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Failure(KindTimeout, timeoutMessage)
		}
		return Failure(KindTransport, networkMessage)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeFailure(raw)
	}
	return decodeSuccess(raw)
}

// decodeSuccess accepts both response shapes the API family uses: a payload
// wrapped under a top-level "data" key, or the payload returned directly.
// A non-empty body that is not JSON at all is a transport fault, not a
// success: body-less calls would otherwise confirm on garbage.
func decodeSuccess(raw []byte) Result {
	res := Result{Success: true}
	if len(raw) == 0 {
		return res
	}
	if !json.Valid(raw) {
		return Failure(KindTransport, malformedMessage)
	}
	res.Data = json.RawMessage(raw)

	var wrapper struct {
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil {
		if wrapper.Data != nil {
			res.Data = wrapper.Data
		}
		res.Message = wrapper.Message
	}
	return res
}

func decodeFailure(raw []byte) Result {
	var body struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	_ = json.Unmarshal(raw, &body)
	if body.Message == "" {
		body.Message = genericMessage
	}
	return Result{Kind: KindApplication, Message: body.Message, Errors: body.Errors}
}
