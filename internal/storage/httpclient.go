package storage

import (
	"errors"
	"net/http"
	"time"
)

const defaultUpstreamTimeout = 30 * time.Second

// UserAgent identifies upstream requests.
const UserAgent = "contractviewer/1.0"

// agentTransport stamps a User-Agent on every outgoing request. It never
// retries: a failed upstream call fails the caller's request immediately.
type agentTransport struct {
	Base  http.RoundTripper
	Agent string
}

func (t *agentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}
	r := req
	if req.Header.Get("User-Agent") == "" {
		// Clone so the caller's request is not mutated.
		r = req.Clone(req.Context())
		r.Header.Set("User-Agent", t.Agent)
	}
	return t.Base.RoundTrip(r)
}

// NewHTTPClient builds the client used for object-store calls, with bounded
// handshake and header timeouts and an overall timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultUpstreamTimeout
	}
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          10,
	}
	return &http.Client{
		Transport: &agentTransport{Base: base, Agent: UserAgent},
		Timeout:   timeout,
	}
}
