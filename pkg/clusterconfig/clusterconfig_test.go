/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package clusterconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	caerrors "github.com/NVIDIA/cluster-access/pkg/errors"
)

const testKubeconfig = `apiVersion: v1
kind: Config
current-context: dev
clusters:
- name: dev-cluster
  cluster:
    server: https://dev.example.com:6443
    insecure-skip-tls-verify: true
- name: prod-cluster
  cluster:
    server: https://prod.example.com:6443
    insecure-skip-tls-verify: true
users:
- name: dev-user
  user:
    token: dev-token
- name: prod-user
  user:
    token: prod-token
contexts:
- name: dev
  context:
    cluster: dev-cluster
    user: dev-user
- name: prod
  context:
    cluster: prod-cluster
    user: prod-user
`

func writeKubeconfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(testKubeconfig), 0o600))
	return path
}

func TestFromFile_UsesCurrentContextByDefault(t *testing.T) {
	cc, err := FromFile(writeKubeconfig(t), "")

	require.NoError(t, err)
	assert.Equal(t, "dev", cc.ContextName)
	assert.Equal(t, "v1", cc.Document["apiVersion"])
}

func TestFromFile_ContextOverride(t *testing.T) {
	cc, err := FromFile(writeKubeconfig(t), "prod")

	require.NoError(t, err)
	assert.Equal(t, "prod", cc.ContextName)
}

func TestFromFile_UnknownContextListsValidNames(t *testing.T) {
	_, err := FromFile(writeKubeconfig(t), "staging")

	require.Error(t, err)
	assert.True(t, caerrors.IsCode(err, caerrors.ErrCodeUnknownContext))

	var se *caerrors.StructuredError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "staging", se.Details["context"])
	assert.Equal(t, []string{"dev", "prod"}, se.Details["valid"])
}

func TestFromFile_UnknownContextSuggestsNearMiss(t *testing.T) {
	_, err := FromFile(writeKubeconfig(t), "prodd")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "prod"?`)
}

func TestFromFile_MissingFile(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope"), "")

	assert.Error(t, err)
}

func TestParse_RoundTripMatchesPreParsedDocument(t *testing.T) {
	fromYAML, err := Parse([]byte(testKubeconfig), "dev")
	require.NoError(t, err)

	var document map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(testKubeconfig), &document))
	fromMap := New(document, "dev")

	assert.Equal(t, fromMap.Document, fromYAML.Document)
}

func TestRESTConfig_BindsToStoredContext(t *testing.T) {
	cc, err := FromFile(writeKubeconfig(t), "prod")
	require.NoError(t, err)

	restConfig, err := cc.RESTConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://prod.example.com:6443", restConfig.Host)
	assert.Equal(t, "prod-token", restConfig.BearerToken)
}

func TestRESTConfig_UnknownContextSurfacesLazily(t *testing.T) {
	// New performs no validation; the bad context shows up on materialization.
	cc, err := Parse([]byte(testKubeconfig), "nowhere")
	require.NoError(t, err)

	_, err = cc.RESTConfig()
	require.Error(t, err)
	assert.True(t, caerrors.IsCode(err, caerrors.ErrCodeUnknownContext))
}

func TestActivate_SetsProcessDefault(t *testing.T) {
	t.Cleanup(func() { SetDefaultConfig(nil) })

	cc, err := FromFile(writeKubeconfig(t), "dev")
	require.NoError(t, err)

	require.NoError(t, cc.Activate())
	def := DefaultConfig()
	require.NotNil(t, def)
	assert.Equal(t, "https://dev.example.com:6443", def.Host)
}

func TestContexts_ListsSortedNames(t *testing.T) {
	cc, err := Parse([]byte(testKubeconfig), "dev")
	require.NoError(t, err)

	names, err := cc.Contexts()
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "prod"}, names)
}

func TestNearest(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		valid     []string
		want      string
	}{
		{"close match", "prodd", []string{"dev", "prod"}, "prod"},
		{"exact distance boundary", "dv", []string{"dev"}, "dev"},
		{"nothing close", "zzzzzzzz", []string{"dev", "prod"}, ""},
		{"empty valid set", "x", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nearest(tt.requested, tt.valid); got != tt.want {
				t.Fatalf("nearest(%q) = %q, want %q", tt.requested, got, tt.want)
			}
		})
	}
}
