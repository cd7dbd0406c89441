/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package clusterconfig holds a fully-loaded kubeconfig document bound to one
// named context, and materializes it into client configuration.
//
// A ClusterConfig is constructed once, from a file on disk or from a raw
// document, and never mutated afterwards. It can produce a standalone
// rest.Config scoped to the caller (RESTConfig) or install itself as the
// process-wide default (Activate). Prefer RESTConfig: Activate mutates shared
// state and is not safe under concurrent use with differing configurations.
package clusterconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
	"k8s.io/client-go/util/homedir"

	caerrors "github.com/NVIDIA/cluster-access/pkg/errors"
)

// ClusterConfig stores the entire contents of a kubeconfig file and the name
// of the context to use. Both fields are fixed at construction time.
type ClusterConfig struct {
	// Document is the full parsed kubeconfig content.
	Document map[string]any
	// ContextName names the context within Document to bind clients to.
	ContextName string
}

// New wraps an already-parsed kubeconfig document. The context name is not
// validated here; an unknown context surfaces when the document is
// materialized by RESTConfig or Activate.
func New(document map[string]any, contextName string) *ClusterConfig {
	return &ClusterConfig{Document: document, ContextName: contextName}
}

// Parse builds a ClusterConfig from YAML-formatted kubeconfig content.
// Like New, the context name is validated lazily.
func Parse(data []byte, contextName string) (*ClusterConfig, error) {
	var document map[string]any
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("failed to parse kubeconfig document: %w", err)
	}
	return New(document, contextName), nil
}

// FromFile loads a kubeconfig file and resolves the context to use.
//
// An empty path falls back to the default kubeconfig location. An empty
// contextName selects the file's current-context marker; a non-empty one must
// name a context present in the file, otherwise an UNKNOWN_CONTEXT error is
// returned listing the valid names. The whole file content is retained as the
// document.
func FromFile(path, contextName string) (*ClusterConfig, error) {
	if path == "" {
		path = clientcmd.RecommendedHomeFile
	}
	path = expandPath(path)
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve kubeconfig path %q: %w", path, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read kubeconfig %q: %w", path, err)
	}

	apiConfig, err := clientcmd.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig %q: %w", path, err)
	}

	if contextName != "" {
		if _, ok := apiConfig.Contexts[contextName]; !ok {
			return nil, unknownContextError(contextName, contextNames(apiConfig.Contexts))
		}
	} else {
		if apiConfig.CurrentContext == "" {
			return nil, caerrors.Newf(caerrors.ErrCodeInvalidRequest,
				"kubeconfig %q has no current-context and no context was requested", path)
		}
		contextName = apiConfig.CurrentContext
	}

	return Parse(raw, contextName)
}

// RESTConfig returns a new client configuration bound to the stored context.
// The result is independent of any process-wide state; each call builds a
// fresh rest.Config so concurrent callers can target different clusters.
func (c *ClusterConfig) RESTConfig() (*rest.Config, error) {
	raw, err := yaml.Marshal(c.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize kubeconfig document: %w", err)
	}
	apiConfig, err := clientcmd.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig document: %w", err)
	}
	if _, ok := apiConfig.Contexts[c.ContextName]; !ok {
		return nil, unknownContextError(c.ContextName, contextNames(apiConfig.Contexts))
	}

	clientConfig := clientcmd.NewNonInteractiveClientConfig(
		*apiConfig, c.ContextName, &clientcmd.ConfigOverrides{}, nil)
	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build client config for context %q: %w", c.ContextName, err)
	}
	return restConfig, nil
}

// Contexts returns the names of all contexts present in the document, sorted.
func (c *ClusterConfig) Contexts() ([]string, error) {
	raw, err := yaml.Marshal(c.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize kubeconfig document: %w", err)
	}
	apiConfig, err := clientcmd.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig document: %w", err)
	}
	return contextNames(apiConfig.Contexts), nil
}

// Activate installs this configuration as the process-wide default, so that
// clients constructed without explicit configuration use it.
//
// This is a deliberate global-state mutation and is not reentrant: concurrent
// activations of different configurations race with undefined ordering.
// Callers needing concurrent multi-cluster access must use RESTConfig instead.
func (c *ClusterConfig) Activate() error {
	restConfig, err := c.RESTConfig()
	if err != nil {
		return err
	}
	SetDefaultConfig(restConfig)
	return nil
}

var (
	defaultMu     sync.RWMutex
	defaultConfig *rest.Config
)

// SetDefaultConfig replaces the process-wide default client configuration.
func SetDefaultConfig(config *rest.Config) {
	defaultMu.Lock()
	defaultConfig = config
	defaultMu.Unlock()
}

// DefaultConfig returns the process-wide default client configuration, or nil
// when nothing has been activated.
func DefaultConfig() *rest.Config {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultConfig
}

func contextNames(contexts map[string]*clientcmdapi.Context) []string {
	names := make([]string, 0, len(contexts))
	for name := range contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func unknownContextError(requested string, valid []string) error {
	msg := fmt.Sprintf("context %q not found, specify one of: %s", requested, strings.Join(valid, ", "))
	if suggestion := nearest(requested, valid); suggestion != "" {
		msg = fmt.Sprintf("%s (did you mean %q?)", msg, suggestion)
	}
	return caerrors.WrapWithContext(caerrors.ErrCodeUnknownContext, msg, nil,
		map[string]any{"context": requested, "valid": valid})
}

// nearest returns the closest valid name by edit distance, or "" when nothing
// is close enough to be a plausible typo.
func nearest(requested string, valid []string) string {
	const maxDistance = 3
	best, bestDist := "", maxDistance+1
	for _, name := range valid {
		if d := levenshtein.ComputeDistance(requested, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		return filepath.Join(homedir.HomeDir(), strings.TrimPrefix(path, "~"))
	}
	return path
}
