package util

import (
	"net/http"
	"net/url"
	"time"
)

// NewProxyFunc returns a proxy function for the given proxy URL.
// An empty URL falls back to the HTTP(S)_PROXY environment variables.
func NewProxyFunc(proxy string) func(*http.Request) (*url.URL, error) {
	if proxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		return url.Parse(proxy)
	}
}

// NewHTTPClient creates an HTTP client for LLM API calls
func NewHTTPClient(timeout time.Duration, proxy string) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = NewProxyFunc(proxy)

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
