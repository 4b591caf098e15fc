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

package manifest

import (
	"encoding/json"
	"os"
	"sort"
)

// npm dependency blocks, in the order they are reported.
// See https://docs.npmjs.com/cli/configuring-npm/package-json
type npmDeps struct {
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

func (d *npmDeps) blocks() []map[string]string {
	return []map[string]string{
		d.Dependencies,
		d.DevDependencies,
		d.PeerDependencies,
		d.OptionalDependencies,
	}
}

// NPM parses npm package.json manifests. Every entry of the dependency
// blocks is reported; versions are reported unmodified, so ranges, URLs
// and local paths all pass through verbatim.
type NPM struct{}

func (p *NPM) Ecosystem() string { return "npm" }

func (p *NPM) Supports(filename string) bool { return filename == "package.json" }

func (p *NPM) Parse(path string, cb func(Entry) error) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc npmDeps
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	for _, deps := range doc.blocks() {
		if err := emitSorted(deps, cb); err != nil {
			return err
		}
	}
	return nil
}

// emitSorted reports one dependency block in name order. JSON object key
// order is not observable through encoding/json maps, so sorting is what
// keeps the report reproducible.
func emitSorted(deps map[string]string, cb func(Entry) error) error {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := cb(Entry{Name: name, Constraint: deps[name]}); err != nil {
			return err
		}
	}
	return nil
}
