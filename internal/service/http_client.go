package service

import (
	"net/http"
	"time"
)

// NewHTTPClient creates an optimized HTTP client with connection pooling,
// shared by the vendor clients. LLM calls run minutes, so they get their
// own client with a longer timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}
