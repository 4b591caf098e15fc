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
	"bufio"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// Pip parses pip requirements files (requirements.txt).
//
// Only the basic subset of the requirements format is handled: a package
// name optionally followed by one or more version specifiers
// (PEP 440 operators ==, >=, <=, ~=, !=, >, <). Option lines (-r, -e, ...),
// URL requirements and environment markers are skipped with a warning.
type Pip struct{}

func (p *Pip) Ecosystem() string { return "pip" }

func (p *Pip) Supports(filename string) bool { return filename == "requirements.txt" }

// Two-character operators must come first so that e.g. ">=" is not split as ">".
var pipOperators = []string{"==", ">=", "<=", "~=", "!=", ">", "<"}

// PEP 503 name characters plus extras brackets ("requests[security]").
var pipNameRegexp = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\[\],-]*$`)

func (p *Pip) Parse(path string, cb func(Entry) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, ok := splitRequirement(line)
		if !ok {
			slog.Warn("Skipping unrecognized requirement line", "file", path, "line", lineNo)
			continue
		}
		if err := cb(e); err != nil {
			return err
		}
	}
	return sc.Err()
}

// splitRequirement splits one non-blank, non-comment requirement line into
// a name and a constraint. The constraint keeps its operators but has all
// whitespace removed, so "foo >= 1.0, < 2.0" yields ">=1.0,<2.0".
func splitRequirement(line string) (Entry, bool) {
	if strings.HasPrefix(line, "-") {
		return Entry{}, false
	}
	// Strip a trailing inline comment.
	if i := strings.Index(line, " #"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	// URL requirements and environment markers are not supported.
	if strings.Contains(line, "://") || strings.Contains(line, ";") {
		return Entry{}, false
	}

	opIdx := -1
	for i := 0; i < len(line) && opIdx < 0; i++ {
		for _, op := range pipOperators {
			if strings.HasPrefix(line[i:], op) {
				opIdx = i
				break
			}
		}
	}
	if opIdx < 0 {
		// Bare name with no constraint.
		if !pipNameRegexp.MatchString(line) {
			return Entry{}, false
		}
		return Entry{Name: line}, true
	}

	name := strings.TrimSpace(line[:opIdx])
	constraint := strings.ReplaceAll(line[opIdx:], " ", "")
	if !pipNameRegexp.MatchString(name) {
		return Entry{}, false
	}
	// An operator with no version after it is not a valid specifier.
	if strings.ContainsAny(constraint[len(constraint)-1:], "=<>~!,") {
		return Entry{}, false
	}
	return Entry{Name: name, Constraint: constraint}, true
}
