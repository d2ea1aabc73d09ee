package denylist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

const maxResponseBytes = 10 << 20 // 10 MiB safety cap

var errTruncated = errors.New("denylist exceeds maximum size, skipping to avoid partial data")

// Source yields the remote part of the denylist.
type Source interface {
	Fetch(ctx context.Context) (Set, error)
	Name() string
}

// HTTPSource downloads a newline-delimited domain list.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource builds a source for rawURL. When proxyURL is non-empty the
// request is routed through it; http, https, socks5 and socks5h schemes are
// accepted.
func NewHTTPSource(rawURL string, timeout time.Duration, proxyURL string) (*HTTPSource, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("denylist url is empty")
	}

	transport, err := newTransport(proxyURL, timeout)
	if err != nil {
		return nil, err
	}

	return &HTTPSource{
		url:    rawURL,
		client: &http.Client{Timeout: timeout, Transport: transport},
	}, nil
}

func (s *HTTPSource) Name() string {
	return sanitizeURL(s.url)
}

func (s *HTTPSource) Fetch(ctx context.Context) (Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// One extra byte tells "exactly at the limit" apart from "truncated".
	lr := &io.LimitedReader{R: resp.Body, N: maxResponseBytes + 1}
	set, err := ParseLines(lr)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if lr.N == 0 {
		return nil, errTruncated
	}
	return set, nil
}

func newTransport(proxyURL string, timeout time.Duration) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	proxyURL = strings.TrimSpace(proxyURL)
	if proxyURL == "" {
		return transport, nil
	}

	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("parse proxy url: %w", err)
	}

	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		transport.Proxy = http.ProxyURL(parsed)
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(parsed, &net.Dialer{Timeout: timeout})
		if err != nil {
			return nil, fmt.Errorf("build socks dialer: %w", err)
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", parsed.Scheme)
	}

	return transport, nil
}

// sanitizeURL keeps only scheme and host for logging.
func sanitizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	return u.Scheme + "://" + u.Host
}
