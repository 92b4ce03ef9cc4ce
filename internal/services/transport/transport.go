// Package transport builds the outbound HTTP clients used to reach model
// providers, optionally routed through an HTTP or SOCKS5 proxy.
package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

const dialTimeout = 30 * time.Second

// NewHTTPClient returns an http.Client with the given overall timeout. When
// proxyAddr is set, connections are routed through it: http/https proxies use
// the transport's Proxy hook, socks/socks5/socks5h proxies replace the dialer.
func NewHTTPClient(timeout time.Duration, proxyAddr string) (*http.Client, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("transport: unexpected default transport %T", http.DefaultTransport)
	}
	rt := base.Clone()

	proxyAddr = strings.TrimSpace(proxyAddr)
	if proxyAddr != "" {
		u, err := ParseProxyURL(proxyAddr)
		if err != nil {
			return nil, err
		}
		switch u.Scheme {
		case "http", "https":
			rt.Proxy = http.ProxyURL(u)
		default:
			dialer, err := proxy.FromURL(u, &net.Dialer{Timeout: dialTimeout})
			if err != nil {
				return nil, fmt.Errorf("transport: proxy %s: %w", u.Redacted(), err)
			}
			rt.Proxy = nil
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				rt.DialContext = cd.DialContext
			} else {
				rt.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
					return dialer.Dial(network, addr)
				}
			}
		}
	}

	return &http.Client{Timeout: timeout, Transport: rt}, nil
}

// ParseProxyURL parses a proxy address, normalizing the bare "socks" scheme
// to socks5.
func ParseProxyURL(addr string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(addr))
	if err != nil {
		return nil, fmt.Errorf("transport: parse proxy address: %w", err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme == "socks" {
		u.Scheme = "socks5"
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("transport: unsupported proxy scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("transport: proxy address %q has no host", addr)
	}
	return u, nil
}
