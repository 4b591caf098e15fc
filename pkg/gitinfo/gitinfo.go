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

// Package gitinfo extracts identity and version metadata from local git
// repositories by shelling out to the git binary.
package gitinfo

import (
	"bytes"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/venslabs/sbomwalk/pkg/api/types"
)

// Inspector produces a Component record for a git repository root.
type Inspector struct {
	// Git runs the git binary in dir and returns its trimmed stdout.
	// Replaceable in tests.
	Git func(dir string, args ...string) (string, error)
}

func New() *Inspector {
	return &Inspector{Git: runGit}
}

// Inspect reads the repository's current revision, preferring a tag that
// points exactly at HEAD over the raw commit hash. The name comes from the
// origin remote URL when one is configured, else the directory basename.
//
// Metadata failures degrade to a record with an empty Version and a
// warning; a record is always returned.
func (ins *Inspector) Inspect(repoPath string) types.Component {
	rec := types.Component{
		Source: repoPath,
		Name:   repoName(ins, repoPath),
		Kind:   types.KindGitRepository,
	}

	rev, err := ins.Git(repoPath, "rev-parse", "HEAD")
	if err != nil {
		slog.Warn("Failed to read repository revision", "repo", repoPath, "error", err)
		return rec
	}
	rec.Version = rev

	// An exact tag is a more readable version than the commit hash.
	if tag, err := ins.Git(repoPath, "describe", "--tags", "--exact-match", "HEAD"); err == nil && tag != "" {
		rec.Version = tag
	}
	return rec
}

func repoName(ins *Inspector, repoPath string) string {
	if url, err := ins.Git(repoPath, "remote", "get-url", "origin"); err == nil {
		if name := nameFromRemoteURL(url); name != "" {
			return name
		}
	}
	return filepath.Base(repoPath)
}

// nameFromRemoteURL extracts the repository name from a remote URL, e.g.
// "git@github.com:acme/widget.git" and "https://github.com/acme/widget"
// both yield "widget".
func nameFromRemoteURL(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")
	url = strings.TrimSuffix(url, ".git")
	if i := strings.LastIndexAny(url, "/:"); i >= 0 {
		url = url[i+1:]
	}
	return url
}

func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
