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

package scanconfig

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/venslabs/sbomwalk/pkg/outputhandler"
)

// Config represents the structure of the optional scan config file.
// The schema is intentionally simple to keep the file easy to edit.
//
// Example YAML:
//
//	# Directory basenames skipped during traversal:
//	ignore:
//	  - node_modules
//	  - .venv
//	# Default report format (table, csv, json, cyclonedx):
//	output: csv
//	# Also parse manifests found directly at detected repository roots:
//	repo-manifests: true
type Config struct {
	Ignore        []string `yaml:"ignore"`
	Output        string   `yaml:"output"`
	RepoManifests bool     `yaml:"repo-manifests"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{Output: "table"}
}

// Load parses and validates a config file from the given path.
// Omitted fields fall back to their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	if c.Output == "" {
		c.Output = "table"
	}
	if !slices.Contains(outputhandler.Formats, c.Output) {
		return nil, fmt.Errorf("output must be one of %v, got %q", outputhandler.Formats, c.Output)
	}
	for _, name := range c.Ignore {
		// Ignore entries are basenames matched at every depth, not paths.
		if name == "" || strings.ContainsAny(name, `/\`) {
			return nil, fmt.Errorf("ignore entry %q must be a bare directory name", name)
		}
	}
	return c, nil
}
