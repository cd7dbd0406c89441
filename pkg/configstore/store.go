/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package configstore loads named, persisted cluster configurations.
//
// A store is a directory of YAML documents, one per configuration name:
//
//	<dir>/<name>.yaml:
//	  context_name: dev
//	  document:
//	    apiVersion: v1
//	    kind: Config
//	    ...
//
// Load returns the named configuration as a clusterconfig.ClusterConfig;
// validation and parse errors surface to the caller unchanged. Configurations
// can also be pulled from an OCI registry, see Pull.
package configstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/cluster-access/pkg/clusterconfig"
	caerrors "github.com/NVIDIA/cluster-access/pkg/errors"
)

const storeExtension = ".yaml"

// Store reads named cluster configurations from a directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// document is the on-disk shape of a stored configuration.
type document struct {
	ContextName string         `yaml:"context_name"`
	Document    map[string]any `yaml:"document"`
}

// Load returns the configuration stored under name. A missing name yields a
// NOT_FOUND error; malformed content propagates as a parse error.
func (s *Store) Load(ctx context.Context, name string) (*clusterconfig.ClusterConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, caerrors.Newf(caerrors.ErrCodeInvalidRequest, "invalid configuration name %q", name)
	}

	path := filepath.Join(s.dir, name+storeExtension)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, caerrors.Wrap(caerrors.ErrCodeNotFound,
				fmt.Sprintf("cluster configuration %q not found in %s", name, s.dir), err)
		}
		return nil, fmt.Errorf("failed to read configuration %q: %w", name, err)
	}

	return decode(raw, name)
}

// List returns the names of all stored configurations, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list configuration store %s: %w", s.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), storeExtension) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), storeExtension))
	}
	sort.Strings(names)
	return names, nil
}

func decode(raw []byte, name string) (*clusterconfig.ClusterConfig, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse configuration %q: %w", name, err)
	}
	if doc.ContextName == "" {
		return nil, caerrors.Newf(caerrors.ErrCodeInvalidRequest,
			"configuration %q is missing context_name", name)
	}
	if len(doc.Document) == 0 {
		return nil, caerrors.Newf(caerrors.ErrCodeInvalidRequest,
			"configuration %q has an empty document", name)
	}
	return clusterconfig.New(doc.Document, doc.ContextName), nil
}
