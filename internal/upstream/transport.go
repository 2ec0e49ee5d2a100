// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package upstream builds the HTTP plumbing used to talk to the catalog API.
package upstream

import (
	"net"
	"net/http"
	"time"

	"github.com/apex/log"
	"golang.org/x/net/http2"
)

// NewTransport returns a pooled transport with HTTP/2 enabled.
func NewTransport() *http.Transport {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 32,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2: true,
	}
	if err := http2.ConfigureTransport(tr); err != nil {
		log.Warnf("http2 not configured: %v", err)
	}
	return tr
}

// NewClient returns an http.Client using NewTransport and the given overall
// request timeout.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: NewTransport(),
		Timeout:   timeout,
	}
}
