// Copyright 2025 venslabs
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

package scan

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/venslabs/sbomwalk/pkg/api/types"
	"github.com/venslabs/sbomwalk/pkg/envutil"
	"github.com/venslabs/sbomwalk/pkg/outputhandler"
	"github.com/venslabs/sbomwalk/pkg/scanconfig"
	"github.com/venslabs/sbomwalk/pkg/walker"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "scan ROOT",
		Short:                 "Scan a directory tree and emit an SBOM report",
		Long:                  "Walks ROOT depth-first, records every git repository and every dependency declared in recognized manifest files (requirements.txt, package.json, package-lock.json), and writes a consolidated report in discovery order.",
		Example:               Example(),
		Args:                  cobra.ExactArgs(1),
		RunE:                  action,
		DisableFlagsInUseLine: true,
	}

	flags := cmd.Flags()
	flags.String("config-file", "", "Path to config.yaml file")
	flags.String("output-format", envutil.String("SBOMWALK_OUTPUT_FORMAT", ""),
		fmt.Sprintf("Output format (%v) [$SBOMWALK_OUTPUT_FORMAT]", outputhandler.Formats))
	flags.StringP("output", "o", "", "Write the report to a file instead of stdout")
	flags.StringSlice("ignore", nil, "Directory names to skip during traversal")
	flags.Bool("repo-manifests", false, "Also parse manifests found directly at detected repository roots")

	return cmd
}

func Example() string {
	return "  sbomwalk scan ~/src\n  sbomwalk scan --output-format csv -o sbom.csv --ignore node_modules ~/src"
}

func action(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	cfg := scanconfig.Default()
	if configPath, _ := flags.GetString("config-file"); configPath != "" {
		var err error
		cfg, err = scanconfig.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %q: %w", configPath, err)
		}
	}

	// Flags override the config file.
	if format, _ := flags.GetString("output-format"); format != "" {
		cfg.Output = format
	}
	if flags.Changed("ignore") {
		cfg.Ignore, _ = flags.GetStringSlice("ignore")
	}
	if flags.Changed("repo-manifests") {
		cfg.RepoManifests, _ = flags.GetBool("repo-manifests")
	}

	outputW := os.Stdout
	if outputPath, _ := flags.GetString("output"); outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close() //nolint:errcheck
		outputW = f
	}

	h, err := outputhandler.New(cfg.Output, outputW)
	if err != nil {
		return err
	}

	w := walker.New(walker.Options{
		Ignore:        cfg.Ignore,
		RepoManifests: cfg.RepoManifests,
	})

	root := args[0]
	var repos, entries int
	err = w.Walk(root, func(c types.Component) error {
		switch c.Kind {
		case types.KindGitRepository:
			repos++
		case types.KindManifestEntry:
			entries++
		}
		return h.HandleComponents([]types.Component{c})
	})
	if err != nil {
		return err
	}

	slog.Info("Scan complete", "root", root, "repositories", repos, "manifestEntries", entries)
	return h.Close()
}
