// Package transport builds the HTTP round trippers used for upstream
// reference-data fetches (card network lists).
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// Options selects the upstream transport.
type Options struct {
	// DialTimeout bounds TCP connect and TLS handshake.
	DialTimeout time.Duration

	// ChromeFingerprint presents Chrome's TLS ClientHello instead of Go's.
	// Some CDNs fronting static reference data rate-limit Go's JA3 fingerprint.
	ChromeFingerprint bool
}

// DefaultDialTimeout is used when Options.DialTimeout is zero.
const DefaultDialTimeout = 10 * time.Second

// New returns a round tripper for opts.
func New(opts Options) http.RoundTripper {
	if opts.DialTimeout == 0 {
		opts.DialTimeout = DefaultDialTimeout
	}
	if opts.ChromeFingerprint {
		return NewChromeTransport(opts.DialTimeout)
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.TLSHandshakeTimeout = opts.DialTimeout
	return t
}

// NewChromeTransport returns a round tripper that dials TLS with uTLS
// (HelloChrome_Auto), lets ALPN pick h2 or http/1.1, and uses
// http2.Transport for framing when h2 is negotiated.
func NewChromeTransport(timeout time.Duration) http.RoundTripper {
	dialer := &net.Dialer{Timeout: timeout}

	dial := func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialChromeTLS(ctx, dialer, network, addr)
	}

	return &chromeTransport{
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dial(ctx, network, addr)
			},
		},
		h1: &http.Transport{
			DialTLSContext:    dial,
			ForceAttemptHTTP2: false,
		},
	}
}

type chromeTransport struct {
	h2 *http2.Transport
	h1 *http.Transport
}

// RoundTrip implements http.RoundTripper.
// Plain HTTP goes straight to the HTTP/1.1 transport; HTTPS tries HTTP/2 first.
func (t *chromeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.h1.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}
	return t.h1.RoundTrip(req)
}

func dialChromeTLS(ctx context.Context, dialer *net.Dialer, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	tlsConn := utls.UClient(conn, &utls.Config{ServerName: host}, utls.HelloChrome_Auto)
	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
