/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/cluster-access/pkg/logging"
)

// version is set at build time:
//
//	go build -ldflags="-X 'github.com/NVIDIA/cluster-access/pkg/cli.version=1.0.0'"
var version = "dev"

// Root assembles the cactl command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:                  "cactl",
		Usage:                 "Resolve cluster credentials and inspect kubeconfig contexts",
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Output logs in JSON format",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.Setup(logging.Options{
				Debug: cmd.Bool("debug"),
				JSON:  cmd.Bool("log-json"),
			})
			return ctx, nil
		},
		Commands: []*cli.Command{
			contextsCmd(),
			verifyCmd(),
		},
	}
}
