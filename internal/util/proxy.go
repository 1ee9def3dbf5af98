// Package util holds helpers shared by the outbound HTTP clients.
package util

import (
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/http/httpproxy"

	"github.com/ppiankov/rumorscope/internal/model"
)

// ProxyFunc picks the proxy for an outbound request. Configured proxies win
// over HTTP_PROXY/HTTPS_PROXY; an https request without an https proxy uses
// the http one. no_proxy (config, else environment) is honoured either way.
func ProxyFunc(cfg model.HTTPConfig) func(*http.Request) (*url.URL, error) {
	pc := httpproxy.FromEnvironment()
	if cfg.HTTPProxy != "" || cfg.HTTPSProxy != "" {
		pc = &httpproxy.Config{
			HTTPProxy:  cfg.HTTPProxy,
			HTTPSProxy: cfg.HTTPSProxy,
			NoProxy:    pc.NoProxy,
		}
		if pc.HTTPSProxy == "" {
			pc.HTTPSProxy = pc.HTTPProxy
		}
	}
	if cfg.NoProxy != "" {
		pc.NoProxy = cfg.NoProxy
	}

	resolve := pc.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return resolve(req.URL)
	}
}

// NewHTTPClient builds a client for the evidence, translation and post
// fetching calls. A zero timeout falls back to the configured HTTP timeout.
func NewHTTPClient(cfg model.HTTPConfig, timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = cfg.Timeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: ProxyFunc(cfg),
		},
	}
}
