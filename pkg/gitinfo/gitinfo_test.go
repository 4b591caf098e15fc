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

package gitinfo

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/venslabs/sbomwalk/pkg/api/types"
)

// fakeGit maps the first git argument (subcommand) to a canned result.
func fakeGit(out map[string]string) func(string, ...string) (string, error) {
	return func(dir string, args ...string) (string, error) {
		v, ok := out[args[0]]
		if !ok {
			return "", errors.New("fatal: " + strings.Join(args, " "))
		}
		return v, nil
	}
}

func TestInspectUsesCommitHash(t *testing.T) {
	ins := &Inspector{Git: fakeGit(map[string]string{
		"rev-parse": "abc123",
	})}
	rec := ins.Inspect("/src/widget")
	require.Equal(t, types.Component{
		Source:  "/src/widget",
		Name:    "widget",
		Version: "abc123",
		Kind:    types.KindGitRepository,
	}, rec)
}

func TestInspectPrefersExactTag(t *testing.T) {
	ins := &Inspector{Git: fakeGit(map[string]string{
		"rev-parse": "abc123",
		"describe":  "v1.2.0",
	})}
	rec := ins.Inspect("/src/widget")
	require.Equal(t, "v1.2.0", rec.Version)
}

func TestInspectNameFromRemote(t *testing.T) {
	ins := &Inspector{Git: fakeGit(map[string]string{
		"rev-parse": "abc123",
		"remote":    "git@github.com:acme/rocket.git",
	})}
	rec := ins.Inspect("/src/checkout-dir")
	require.Equal(t, "rocket", rec.Name)
}

func TestInspectMetadataFailure(t *testing.T) {
	ins := &Inspector{Git: fakeGit(nil)}
	rec := ins.Inspect("/src/broken")
	require.Equal(t, types.Component{
		Source: "/src/broken",
		Name:   "broken",
		Kind:   types.KindGitRepository,
	}, rec)
}

func TestNameFromRemoteURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/acme/widget.git", "widget"},
		{"https://github.com/acme/widget", "widget"},
		{"git@github.com:acme/widget.git", "widget"},
		{"ssh://git@example.com/team/widget.git", "widget"},
		{"https://github.com/acme/widget/", "widget"},
		{"widget", "widget"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, nameFromRemoteURL(tt.url), tt.url)
	}
}
