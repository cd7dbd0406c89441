/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package configstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/distribution/reference"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/memory"
	"oras.land/oras-go/v2/registry/remote"

	"github.com/NVIDIA/cluster-access/pkg/clusterconfig"
	caerrors "github.com/NVIDIA/cluster-access/pkg/errors"
)

// ClusterConfigMediaType is the layer media type for stored cluster
// configuration artifacts.
const ClusterConfigMediaType = "application/vnd.nvidia.cluster-access.config.v1+yaml"

// OCIScheme prefixes registry references, e.g. oci://ghcr.io/org/configs:prod.
const OCIScheme = "oci://"

// PullOptions adjust registry access for Pull.
type PullOptions struct {
	// PlainHTTP uses HTTP instead of HTTPS, for local development registries.
	PlainHTTP bool
}

// Pull fetches a stored cluster configuration artifact from an OCI registry.
// The artifact must carry exactly one layer with ClusterConfigMediaType whose
// content is a store document (context_name + document).
func Pull(ctx context.Context, rawRef string, opts PullOptions) (*clusterconfig.ClusterConfig, error) {
	repoRef, tag, err := splitReference(rawRef)
	if err != nil {
		return nil, err
	}

	repo, err := remote.NewRepository(repoRef)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %q: %w", repoRef, err)
	}
	repo.PlainHTTP = opts.PlainHTTP

	store := memory.New()
	desc, err := oras.Copy(ctx, repo, tag, store, tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to pull %s:%s: %w", repoRef, tag, err)
	}

	manifestReader, err := store.Fetch(ctx, desc)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest for %s:%s: %w", repoRef, tag, err)
	}
	manifestBytes, err := content.ReadAll(manifestReader, desc)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest for %s:%s: %w", repoRef, tag, err)
	}

	var manifest ocispec.Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest for %s:%s: %w", repoRef, tag, err)
	}

	for _, layer := range manifest.Layers {
		if layer.MediaType != ClusterConfigMediaType {
			continue
		}
		layerReader, err := store.Fetch(ctx, layer)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch configuration layer: %w", err)
		}
		raw, err := content.ReadAll(layerReader, layer)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration layer: %w", err)
		}
		return decode(raw, rawRef)
	}

	return nil, caerrors.Newf(caerrors.ErrCodeNotFound,
		"artifact %s:%s carries no %s layer", repoRef, tag, ClusterConfigMediaType)
}

// splitReference validates an oci:// reference and splits it into repository
// and tag. A missing tag defaults to latest.
func splitReference(rawRef string) (string, string, error) {
	trimmed := strings.TrimPrefix(rawRef, OCIScheme)
	repoRef, tag := trimmed, "latest"
	if i := strings.LastIndex(trimmed, ":"); i > strings.LastIndex(trimmed, "/") {
		repoRef, tag = trimmed[:i], trimmed[i+1:]
	}
	if repoRef == "" || tag == "" {
		return "", "", caerrors.Newf(caerrors.ErrCodeInvalidRequest, "invalid OCI reference %q", rawRef)
	}
	if _, err := reference.ParseNormalizedNamed(repoRef); err != nil {
		return "", "", caerrors.Wrap(caerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid OCI reference %q", rawRef), err)
	}
	return repoRef, tag, nil
}
