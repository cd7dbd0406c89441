/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cluster-access/pkg/clusterconfig"
	"github.com/NVIDIA/cluster-access/pkg/configstore"
	"github.com/NVIDIA/cluster-access/pkg/credentials"
	"github.com/NVIDIA/cluster-access/pkg/serializer"
)

var kubeconfigFlag = &cli.StringFlag{
	Name:    "kubeconfig",
	Aliases: []string{"k"},
	Usage:   "Path to a kubeconfig file (default: standard kubeconfig location)",
}

var contextFlag = &cli.StringFlag{
	Name:    "context",
	Aliases: []string{"c"},
	Usage:   "Context name within the kubeconfig (default: the file's current-context)",
}

var storeFlag = &cli.StringFlag{
	Name:  "store",
	Usage: "Directory holding named cluster configurations",
}

var nameFlag = &cli.StringFlag{
	Name:    "name",
	Aliases: []string{"n"},
	Usage:   "Name of a stored cluster configuration (requires --store)",
}

var ociFlag = &cli.StringFlag{
	Name:  "oci",
	Usage: "OCI reference of a stored cluster configuration (e.g. oci://ghcr.io/org/configs:prod)",
}

// parseOutputFormat extracts and validates the output format from CLI flags.
// Returns the validated format or an error if the format is unknown.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: %s",
			outFormat, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return outFormat, nil
}

// loadClusterConfig builds the stored configuration selected by flags, or nil
// when none is requested and resolution should fall through to the ambient
// chain.
func loadClusterConfig(ctx context.Context, cmd *cli.Command) (*clusterconfig.ClusterConfig, error) {
	ociRef := cmd.String("oci")
	name := cmd.String("name")
	kubeconfig := cmd.String("kubeconfig")
	contextName := cmd.String("context")

	switch {
	case ociRef != "":
		return configstore.Pull(ctx, ociRef, configstore.PullOptions{})
	case name != "":
		store := cmd.String("store")
		if store == "" {
			return nil, fmt.Errorf("--name requires --store")
		}
		return configstore.NewStore(store).Load(ctx, name)
	case kubeconfig != "" || contextName != "":
		return clusterconfig.FromFile(kubeconfig, contextName)
	}
	return nil, nil
}

// buildCredentials wraps the flag-selected configuration, if any, in a
// credential resolver.
func buildCredentials(ctx context.Context, cmd *cli.Command) (*credentials.Credentials, error) {
	clusterConfig, err := loadClusterConfig(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return credentials.New(clusterConfig), nil
}
