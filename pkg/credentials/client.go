/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package credentials

import (
	"fmt"
	"strings"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	appsv1 "k8s.io/client-go/kubernetes/typed/apps/v1"
	batchv1 "k8s.io/client-go/kubernetes/typed/batch/v1"
	corev1 "k8s.io/client-go/kubernetes/typed/core/v1"

	caerrors "github.com/NVIDIA/cluster-access/pkg/errors"
)

// ClientType selects the resource family a client is scoped to.
type ClientType string

const (
	// ClientTypeApps scopes a client to apps/v1 resources (deployments, daemonsets).
	ClientTypeApps ClientType = "apps"
	// ClientTypeBatch scopes a client to batch/v1 resources (jobs, cronjobs).
	ClientTypeBatch ClientType = "batch"
	// ClientTypeCore scopes a client to core/v1 resources (pods, services, configmaps).
	ClientTypeCore ClientType = "core"
	// ClientTypeCustomObjects scopes a client to arbitrary custom resources.
	ClientTypeCustomObjects ClientType = "custom_objects"
)

// SupportedClientTypes returns the closed set of valid client types.
func SupportedClientTypes() []ClientType {
	return []ClientType{ClientTypeApps, ClientTypeBatch, ClientTypeCore, ClientTypeCustomObjects}
}

// IsValid reports whether t is one of the supported client types.
func (t ClientType) IsValid() bool {
	switch t {
	case ClientTypeApps, ClientTypeBatch, ClientTypeCore, ClientTypeCustomObjects:
		return true
	}
	return false
}

// Client is a resource-family-scoped handle around one Connection. Exactly one
// of the family fields matching Type is populated.
type Client struct {
	Type ClientType

	Apps    appsv1.AppsV1Interface
	Batch   batchv1.BatchV1Interface
	Core    corev1.CoreV1Interface
	Dynamic dynamic.Interface
}

// NewResourceClient wraps an existing connection in a typed client for the
// given resource family. No resolution or network activity is performed; an
// unsupported type fails before the connection is touched.
func NewResourceClient(clientType ClientType, conn *Connection) (*Client, error) {
	if !clientType.IsValid() {
		return nil, invalidClientTypeError(clientType)
	}

	if clientType == ClientTypeCustomObjects {
		dynamicClient, err := dynamic.NewForConfigAndClient(conn.config, conn.httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create custom objects client: %w", err)
		}
		return &Client{Type: clientType, Dynamic: dynamicClient}, nil
	}

	clientset, err := kubernetes.NewForConfigAndClient(conn.config, conn.httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", clientType, err)
	}

	client := &Client{Type: clientType}
	switch clientType {
	case ClientTypeApps:
		client.Apps = clientset.AppsV1()
	case ClientTypeBatch:
		client.Batch = clientset.BatchV1()
	case ClientTypeCore:
		client.Core = clientset.CoreV1()
	}
	return client, nil
}

func invalidClientTypeError(t ClientType) error {
	valid := SupportedClientTypes()
	names := make([]string, len(valid))
	for i, v := range valid {
		names[i] = string(v)
	}
	return caerrors.WrapWithContext(caerrors.ErrCodeInvalidClientType,
		fmt.Sprintf("invalid client type %q, must be one of: %s", string(t), strings.Join(names, ", ")),
		nil, map[string]any{"type": string(t), "valid": names})
}
