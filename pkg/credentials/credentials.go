/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package credentials resolves cluster access configuration and produces
// resource-scoped clients.
//
// Resolution is a fixed, ordered fallback chain: an explicitly stored
// ClusterConfig wins, then ambient in-cluster identity, then the platform
// default kubeconfig file. Only the expected absence of in-cluster identity
// (CONFIG_UNAVAILABLE) continues the chain; every other failure propagates.
//
// WithClient is the primary entry point: it binds the resolved configuration
// to a fresh connection, hands a typed client to the caller's function, and
// closes the connection on every exit path.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/NVIDIA/cluster-access/pkg/clusterconfig"
	caerrors "github.com/NVIDIA/cluster-access/pkg/errors"
)

// Resolution tier labels, in fallback order.
const (
	tierExplicit    = "explicit"
	tierStored      = "stored"
	tierInCluster   = "in_cluster"
	tierDefaultFile = "default_file"

	// tierCanceled labels resolutions aborted by context cancellation, so
	// cancellations are not misattributed to a real tier in metrics.
	tierCanceled = "canceled"
)

// Credentials resolves cluster access configuration. The zero value resolves
// from the environment; setting ClusterConfig short-circuits resolution to the
// stored document. Each acquisition is independent and carries its own
// connection-local configuration, so a single Credentials value may be used
// from concurrent goroutines.
type Credentials struct {
	// ClusterConfig, when set, is the sole configuration source.
	ClusterConfig *clusterconfig.ClusterConfig

	// Loader and dialer hooks, replaceable in tests. Nil fields use the
	// real implementations.
	loadInCluster func() (*rest.Config, error)
	loadDefault   func() (*rest.Config, error)
	dial          func(*rest.Config) (*Connection, error)
}

// New returns Credentials backed by the given stored configuration.
// A nil clusterConfig yields environment-based resolution.
func New(clusterConfig *clusterconfig.ClusterConfig) *Credentials {
	return &Credentials{ClusterConfig: clusterConfig}
}

// WithClient resolves configuration, opens a connection and passes a typed
// client for the requested resource family to fn. The connection is closed
// exactly once when fn returns, whether it succeeds, fails, or the context is
// canceled inside it.
//
// explicit, when non-nil, is a caller-owned connection-local configuration
// that takes precedence over the resolution chain. Callers working against
// several clusters concurrently must use it instead of global activation.
func (c *Credentials) WithClient(ctx context.Context, clientType ClientType, explicit *rest.Config, fn func(*Client) error) error {
	if !clientType.IsValid() {
		return invalidClientTypeError(clientType)
	}

	start := time.Now()
	acquisitionID := uuid.NewString()

	config, tier, err := c.Resolve(ctx, explicit)
	if err != nil {
		resolutionErrors.WithLabelValues(tier).Inc()
		return err
	}
	resolutionTotal.WithLabelValues(tier).Inc()

	conn, err := c.dialer()(config)
	if err != nil {
		return err
	}
	defer conn.Close()

	slog.Debug("acquired scoped client",
		"acquisition", acquisitionID, "tier", tier, "type", string(clientType), "host", config.Host)

	client, err := NewResourceClient(clientType, conn)
	if err != nil {
		return err
	}

	defer func() {
		acquisitionDuration.Observe(time.Since(start).Seconds())
	}()
	return fn(client)
}

// ResourceClient performs the same resolution and global activation as
// Configure, then wraps the caller-supplied connection in a typed client.
// Unlike WithClient it never constructs a connection of its own; the caller
// keeps ownership of conn and its lifecycle.
func (c *Credentials) ResourceClient(ctx context.Context, clientType ClientType, conn *Connection) (*Client, error) {
	if !clientType.IsValid() {
		return nil, invalidClientTypeError(clientType)
	}
	if _, err := c.Configure(ctx); err != nil {
		return nil, err
	}
	return NewResourceClient(clientType, conn)
}

// Configure runs the resolution chain and installs the winning configuration
// as the process-wide default. This mutates shared state; see
// clusterconfig.SetDefaultConfig for the concurrency caveats.
func (c *Credentials) Configure(ctx context.Context) (*rest.Config, error) {
	config, tier, err := c.Resolve(ctx, nil)
	if err != nil {
		resolutionErrors.WithLabelValues(tier).Inc()
		return nil, err
	}
	resolutionTotal.WithLabelValues(tier).Inc()
	clusterconfig.SetDefaultConfig(config)
	return config, nil
}

// Resolve is the single implementation of the fallback chain, shared by the
// scoped and non-scoped entry points. It returns the winning configuration and
// the tier label that produced it: "explicit", "stored", "in_cluster" or
// "default_file". A resolution aborted by context cancellation reports
// "canceled". Most callers want WithClient instead; Resolve exists for
// introspection and for callers managing their own connections.
func (c *Credentials) Resolve(ctx context.Context, explicit *rest.Config) (*rest.Config, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, tierCanceled, err
	}

	if explicit != nil {
		return explicit, tierExplicit, nil
	}

	if c.ClusterConfig != nil {
		config, err := c.ClusterConfig.RESTConfig()
		if err != nil {
			return nil, tierStored, err
		}
		return config, tierStored, nil
	}

	config, err := c.inClusterLoader()()
	if err == nil {
		return config, tierInCluster, nil
	}
	if !caerrors.IsCode(err, caerrors.ErrCodeConfigUnavailable) {
		// Not the expected "not running in a cluster" condition; do not swallow.
		return nil, tierInCluster, err
	}
	slog.Debug("in-cluster configuration unavailable, falling back to default kubeconfig")

	if err := ctx.Err(); err != nil {
		return nil, tierCanceled, err
	}
	config, err = c.defaultLoader()()
	if err != nil {
		return nil, tierDefaultFile, err
	}
	return config, tierDefaultFile, nil
}

func (c *Credentials) inClusterLoader() func() (*rest.Config, error) {
	if c.loadInCluster != nil {
		return c.loadInCluster
	}
	return loadInClusterConfig
}

func (c *Credentials) defaultLoader() func() (*rest.Config, error) {
	if c.loadDefault != nil {
		return c.loadDefault
	}
	return loadDefaultKubeconfig
}

func (c *Credentials) dialer() func(*rest.Config) (*Connection, error) {
	if c.dial != nil {
		return c.dial
	}
	return Dial
}

// loadInClusterConfig loads ambient service account identity. The expected
// "not running inside a cluster" condition maps to CONFIG_UNAVAILABLE so the
// chain can continue; any other failure is terminal.
func loadInClusterConfig() (*rest.Config, error) {
	config, err := rest.InClusterConfig()
	if err != nil {
		if errors.Is(err, rest.ErrNotInCluster) {
			return nil, caerrors.Wrap(caerrors.ErrCodeConfigUnavailable,
				"in-cluster configuration not available", err)
		}
		return nil, fmt.Errorf("failed to load in-cluster config: %w", err)
	}
	return config, nil
}

// loadDefaultKubeconfig loads the platform default kubeconfig, honoring
// KUBECONFIG and the standard home location.
func loadDefaultKubeconfig() (*rest.Config, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules, &clientcmd.ConfigOverrides{})
	config, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load default kubeconfig: %w", err)
	}
	return config, nil
}
