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
	"fmt"
	"os"
	"sort"
)

// NPMLock parses npm package-lock.json files with lockfileVersion >= 2
// (only the "packages" key is read, not the legacy "dependencies" tree).
//
// For every locked package it reports the resolved version, followed by the
// version ranges that package declares for its own dependencies.
// Package names are reported unmodified and therefore keep their
// "node_modules/" path prefixes.
// See https://docs.npmjs.com/cli/configuring-npm/package-lock-json
type NPMLock struct{}

func (p *NPMLock) Ecosystem() string { return "npm" }

func (p *NPMLock) Supports(filename string) bool { return filename == "package-lock.json" }

type lockPackage struct {
	Version string `json:"version"`
	npmDeps
}

type lockfile struct {
	LockfileVersion int                    `json:"lockfileVersion"`
	Packages        map[string]lockPackage `json:"packages"`
}

func (p *NPMLock) Parse(path string, cb func(Entry) error) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var lock lockfile
	if err := json.Unmarshal(b, &lock); err != nil {
		return err
	}
	if lock.LockfileVersion < 2 {
		return fmt.Errorf("unsupported lockfileVersion %d (need >= 2)", lock.LockfileVersion)
	}

	names := make([]string, 0, len(lock.Packages))
	for name := range lock.Packages {
		// The "" key describes the root project, already covered by package.json.
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pkg := lock.Packages[name]
		if err := cb(Entry{Name: name, Constraint: pkg.Version}); err != nil {
			return err
		}
		for _, deps := range pkg.blocks() {
			if err := emitSorted(deps, cb); err != nil {
				return err
			}
		}
	}
	return nil
}
