// Package httpclient builds the process-wide HTTP client shared by all outbound adapters.
package httpclient

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"
)

const redacted = "REDACTED"

// New returns a pooled client. Create it once at startup and call Close on shutdown.
func New(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 32,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// Close releases the idle connections held by client.
func Close(client *http.Client) {
	if client != nil {
		client.CloseIdleConnections()
	}
}

// RedactError masks every query value in the URL carried by a *url.Error.
// Providers take credentials as query parameters and url.Error prints the full URL.
// The returned error still unwraps to the underlying cause.
func RedactError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{Op: urlErr.Op, URL: RedactURL(urlErr.URL), Err: urlErr.Err}
}

// RedactURL replaces every query value of raw with a placeholder, keeping the keys.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return redacted
	}
	if u.RawQuery == "" {
		return u.String()
	}
	q := u.Query()
	for k := range q {
		q[k] = []string{redacted}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
