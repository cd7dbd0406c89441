/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cluster-access/pkg/clusterconfig"
	"github.com/NVIDIA/cluster-access/pkg/serializer"
)

// contextEntry is one row of `cactl contexts` output.
type contextEntry struct {
	Name   string `json:"name" yaml:"name"`
	Active bool   `json:"active" yaml:"active"`
}

func contextsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "contexts",
		Aliases:               []string{"ctx"},
		EnableShellCompletion: true,
		Usage:                 "List the contexts of a cluster configuration",
		Description: `Lists every context found in the selected cluster configuration and marks
the one that is active.

The configuration source is selected the same way as for verify: a stored
configuration (--store/--name or --oci) or a kubeconfig file (--kubeconfig,
optionally --context).

# Examples

List contexts of the default kubeconfig:
  cactl contexts

List contexts of a stored configuration:
  cactl contexts --store /etc/cluster-access --name prod

Write the listing to a ConfigMap:
  cactl contexts --output cm://ops/cluster-contexts --format yaml`,
		Flags: []cli.Flag{
			kubeconfigFlag,
			contextFlag,
			storeFlag,
			nameFlag,
			ociFlag,
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file path, cm://namespace/name, or stdout by default",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Value:   "table",
				Usage:   "output format (json, yaml, table)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			clusterConfig, err := loadClusterConfig(ctx, cmd)
			if err != nil {
				return err
			}
			if clusterConfig == nil {
				// No explicit source: list the default kubeconfig file.
				clusterConfig, err = clusterconfig.FromFile("", "")
				if err != nil {
					return err
				}
			}

			names, err := clusterConfig.Contexts()
			if err != nil {
				return fmt.Errorf("error listing contexts: %w", err)
			}

			entries := make([]contextEntry, 0, len(names))
			for _, name := range names {
				entries = append(entries, contextEntry{
					Name:   name,
					Active: name == clusterConfig.ContextName,
				})
			}

			writer, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			if err != nil {
				return err
			}
			if closer, ok := writer.(serializer.Closer); ok {
				defer closer.Close()
			}
			return writer.Serialize(ctx, entries)
		},
	}
}
