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

// Package manifest parses dependency manifest files into (name, constraint)
// pairs. Parsing is best-effort: lines or entries a parser does not
// understand are skipped with a warning, never fatal.
package manifest

// Entry is a single dependency declared in a manifest file.
type Entry struct {
	Name string
	// Constraint is the declared version constraint, verbatim apart from
	// whitespace normalization (e.g. "==1.2.3", ">=2.0", "^1.0.0").
	// Empty when the manifest declares no constraint.
	Constraint string
}

// Parser recognizes and parses one manifest format.
type Parser interface {
	// Ecosystem names the package ecosystem the format belongs to (e.g. "pip").
	Ecosystem() string
	// Supports reports whether the given base filename is a manifest of
	// this format.
	Supports(filename string) bool
	// Parse streams the entries of the manifest at path to cb in
	// declaration order. Errors returned by cb abort the parse and are
	// returned unchanged.
	Parse(path string, cb func(Entry) error) error
}

// Default returns the parsers for all supported manifest formats.
func Default() []Parser {
	return []Parser{&Pip{}, &NPM{}, &NPMLock{}}
}

// Detect returns the first parser that supports the given base filename,
// or nil if the file is not a recognized manifest.
func Detect(filename string, parsers []Parser) Parser {
	for _, p := range parsers {
		if p.Supports(filename) {
			return p
		}
	}
	return nil
}
