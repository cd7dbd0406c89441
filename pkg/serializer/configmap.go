/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package serializer

import (
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	corev1client "k8s.io/client-go/kubernetes/typed/core/v1"

	"github.com/NVIDIA/cluster-access/pkg/credentials"
)

// URI scheme constants for output destinations
const (
	// ConfigMapURIScheme is the URI scheme for Kubernetes ConfigMap destinations.
	// Format: cm://namespace/configmap-name
	ConfigMapURIScheme = "cm://"

	// StdoutURI is the special URI indicating output should be written to stdout.
	StdoutURI = "-"
)

// ConfigMapDataKey is the ConfigMap key the serialized payload is stored under.
const ConfigMapDataKey = "data"

// ConfigMapWriter stores serialized output in a Kubernetes ConfigMap. The
// client is resolved through the credential chain on first use unless one is
// injected.
type ConfigMapWriter struct {
	format    Format
	namespace string
	name      string

	// client overrides credential resolution, for tests.
	client corev1client.CoreV1Interface
}

// NewConfigMapWriter returns a writer targeting namespace/name.
func NewConfigMapWriter(format Format, namespace, name string) *ConfigMapWriter {
	return &ConfigMapWriter{format: format, namespace: namespace, name: name}
}

// Serialize writes data into the target ConfigMap, creating it if needed.
func (w *ConfigMapWriter) Serialize(ctx context.Context, data any) error {
	encoded, err := Encode(w.format, data)
	if err != nil {
		return err
	}

	if w.client != nil {
		return w.apply(ctx, w.client, encoded)
	}

	creds := &credentials.Credentials{}
	return creds.WithClient(ctx, credentials.ClientTypeCore, nil, func(client *credentials.Client) error {
		return w.apply(ctx, client.Core, encoded)
	})
}

func (w *ConfigMapWriter) apply(ctx context.Context, client corev1client.CoreV1Interface, payload []byte) error {
	configMap := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: w.name, Namespace: w.namespace},
		Data:       map[string]string{ConfigMapDataKey: string(payload)},
	}

	_, err := client.ConfigMaps(w.namespace).Create(ctx, configMap, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		_, err = client.ConfigMaps(w.namespace).Update(ctx, configMap, metav1.UpdateOptions{})
	}
	if err != nil {
		return fmt.Errorf("failed to write ConfigMap %s/%s: %w", w.namespace, w.name, err)
	}
	return nil
}

// parseConfigMapURI splits cm://namespace/name into its parts.
func parseConfigMapURI(uri string) (string, string, error) {
	trimmed := strings.TrimPrefix(uri, ConfigMapURIScheme)
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI %q, expected cm://namespace/name", uri)
	}
	return parts[0], parts[1], nil
}
