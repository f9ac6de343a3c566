package jira

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// FetchError wraps a transport failure or a non-success HTTP status from
// the activity stream endpoint. Retrying is the caller's decision.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s failed: HTTP %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewHTTPClient builds the HTTP client the fetcher delegates to: request
// timeout and TLS client-certificate authentication are configured here,
// once, instead of on an ambient global session.
func NewHTTPClient(certFile, keyFile string, timeout time.Duration) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if certFile != "" {
		cert, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		transport.TLSClientConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
		}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}

// Client fetches the Jira activity stream. It only builds URLs and
// passes raw bytes through; transport concerns live in the injected
// HTTP client.
type Client struct {
	httpClient *http.Client
	host       string
	userAgent  string
	maxResults int
}

func NewClient(httpClient *http.Client, host, userAgent string, maxResults int) *Client {
	return &Client{
		httpClient: httpClient,
		host:       strings.TrimRight(host, "/"),
		userAgent:  userAgent,
		maxResults: maxResults,
	}
}

// WithMaxResults returns a copy of the client with a different entry cap,
// used for per-source overrides.
func (c *Client) WithMaxResults(maxResults int) *Client {
	clone := *c
	clone.maxResults = maxResults
	return &clone
}

// Fetch retrieves the raw activity stream for a username. An empty
// username resolves to the authenticated user via the myself endpoint.
// A nil start/end pair means no update-date window filter.
func (c *Client) Fetch(ctx context.Context, username string, start, end *time.Time) ([]byte, error) {
	if username == "" {
		resolved, err := c.CurrentUsername(ctx)
		if err != nil {
			return nil, err
		}
		username = resolved
	}

	requestURL := c.activityURL(username, start, end)
	slog.Debug("Fetching activity stream", "url", requestURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &FetchError{URL: requestURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: requestURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: requestURL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: requestURL, Err: err}
	}

	return decodeCharset(data, resp.Header.Get("Content-Type")), nil
}

// CurrentUsername resolves the username of the authenticated identity.
func (c *Client) CurrentUsername(ctx context.Context) (string, error) {
	requestURL := c.host + "/rest/api/latest/myself"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", &FetchError{URL: requestURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: requestURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: requestURL, StatusCode: resp.StatusCode}
	}

	var myself struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&myself); err != nil {
		return "", &FetchError{URL: requestURL, Err: err}
	}
	if myself.Name == "" {
		return "", &FetchError{URL: requestURL, Err: fmt.Errorf("myself response has no name")}
	}

	return myself.Name, nil
}

func (c *Client) activityURL(username string, start, end *time.Time) string {
	params := url.Values{}
	params.Set("maxResults", strconv.Itoa(c.maxResults))
	params.Add("streams", fmt.Sprintf("user IS %s", username))
	if start != nil && end != nil {
		params.Add("streams", fmt.Sprintf("update-date BETWEEN %d %d", start.UnixMilli(), end.UnixMilli()))
	}
	params.Set("os_authType", "basic")
	params.Set("title", "undefined")

	return c.host + "/activity?" + params.Encode()
}

// decodeCharset transcodes a response body to UTF-8 based on the
// declared charset. Corporate instances occasionally serve legacy
// encodings; on any doubt the body passes through unchanged.
func decodeCharset(data []byte, contentType string) []byte {
	if contentType == "" {
		return data
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return data
	}

	charset := strings.ToLower(params["charset"])
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return data
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return data
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return data
	}

	return decoded
}
