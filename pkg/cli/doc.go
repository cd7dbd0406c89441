// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli implements the command-line interface for the cactl tool.
//
// # Commands
//
// contexts - list the contexts of a cluster configuration:
//
//	cactl contexts [--kubeconfig FILE] [--store DIR --name NAME | --oci REF]
//
// verify - resolve credentials and confirm cluster access:
//
//	cactl verify [--kubeconfig FILE --context NAME] [--type core] [--format yaml|json|table]
//
// Both commands select their configuration source the same way: a stored
// configuration by name (--store/--name), an OCI artifact (--oci), an explicit
// kubeconfig (--kubeconfig, optionally --context), or, with no flags, the
// ambient resolution chain (in-cluster identity, then the default kubeconfig).
//
// # Global Flags
//
//	--debug      Enable debug logging
//	--log-json   Output logs in JSON format
//	--help, -h   Show command help
//	--version, -v  Show version information
//
// # Environment Variables
//
//	LOG_LEVEL   Set logging verbosity (debug, info, warn, error)
//	KUBECONFIG  Path to the kubeconfig used by the default-file tier
//
// The CLI uses the urfave/cli/v3 framework and delegates to:
//   - pkg/credentials - credential resolution and scoped clients
//   - pkg/clusterconfig - kubeconfig document handling
//   - pkg/configstore - named and OCI-stored configurations
//   - pkg/serializer - output formatting (including ConfigMap)
//   - pkg/logging - structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/cluster-access/pkg/cli.version=1.0.0'"
package cli
