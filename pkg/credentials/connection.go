/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package credentials

import (
	"fmt"
	"net/http"
	"sync"

	"k8s.io/client-go/rest"
)

// Connection is a transport handle bound to one client configuration. It is
// owned by the scope that created it and must not be shared across concurrent
// acquisitions. Close is safe to call more than once; the underlying transport
// is released exactly once.
type Connection struct {
	config     *rest.Config
	httpClient *http.Client

	closeOnce sync.Once
	closeFn   func()
}

// Dial builds a Connection from the given client configuration. No network
// traffic happens here; the transport connects lazily on first use.
func Dial(config *rest.Config) (*Connection, error) {
	httpClient, err := rest.HTTPClientFor(config)
	if err != nil {
		return nil, fmt.Errorf("failed to build transport for %q: %w", config.Host, err)
	}
	return &Connection{config: config, httpClient: httpClient}, nil
}

// Config returns the client configuration this connection is bound to.
func (c *Connection) Config() *rest.Config {
	return c.config
}

// Close releases the connection's transport resources. Only the first call
// has an effect.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		if c.closeFn != nil {
			c.closeFn()
			return
		}
		if c.httpClient != nil {
			c.httpClient.CloseIdleConnections()
		}
	})
}
