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

// Package walker traverses a directory tree and streams one Component per
// detected git repository and per parsed manifest entry, in a
// deterministic depth-first order.
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/venslabs/sbomwalk/pkg/api/types"
	"github.com/venslabs/sbomwalk/pkg/gitinfo"
	"github.com/venslabs/sbomwalk/pkg/manifest"
)

// ErrRootNotFound is returned by Walk when the root path does not exist.
// It is the only fatal traversal condition; everything below the root
// degrades to a warning.
var ErrRootNotFound = errors.New("root path does not exist")

// gitDir is the marker subdirectory that makes a directory a repository root.
const gitDir = ".git"

// Inspector produces the record for a detected repository root.
// *gitinfo.Inspector is the default implementation.
type Inspector interface {
	Inspect(repoPath string) types.Component
}

// Options configures a Walker. The zero value uses the default manifest
// parsers and a git-backed inspector.
type Options struct {
	// Ignore lists directory basenames that are skipped outright
	// (e.g. "node_modules").
	Ignore []string
	// Parsers are the recognized manifest formats. Defaults to manifest.Default().
	Parsers []manifest.Parser
	// Inspector handles detected repository roots. Defaults to gitinfo.New().
	Inspector Inspector
	// RepoManifests additionally parses manifest files sitting directly in
	// a detected repository root. Deeper files inside repositories are
	// never treated as manifest candidates.
	RepoManifests bool
}

// Walker walks directory trees. It holds no per-walk state, so Walk may be
// called repeatedly and yields identical output on an unchanged tree.
type Walker struct {
	ignore        map[string]bool
	parsers       []manifest.Parser
	inspector     Inspector
	repoManifests bool
}

func New(opts Options) *Walker {
	w := &Walker{
		ignore:        make(map[string]bool, len(opts.Ignore)),
		parsers:       opts.Parsers,
		inspector:     opts.Inspector,
		repoManifests: opts.RepoManifests,
	}
	for _, name := range opts.Ignore {
		w.ignore[name] = true
	}
	if w.parsers == nil {
		w.parsers = manifest.Default()
	}
	if w.inspector == nil {
		w.inspector = gitinfo.New()
	}
	return w
}

// Walk streams every Component discovered under root to cb, depth-first
// with lexicographic directory-entry ordering. Errors returned by cb abort
// the walk and are returned unchanged; a missing root returns
// ErrRootNotFound. Everything else is skipped with a warning.
func (w *Walker) Walk(root string, cb func(types.Component) error) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return err
	}
	if !info.IsDir() {
		return w.file(root, cb)
	}
	return w.dir(root, false, cb)
}

// dir processes one directory. inRepo is true when dir lies inside an
// already-detected repository: such directories are traversed only to find
// nested repositories, never for manifest files.
func (w *Walker) dir(dir string, inRepo bool, cb func(types.Component) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("Skipping unreadable directory", "dir", dir, "error", err)
		return nil
	}

	isRepo := hasGitDir(entries)
	if isRepo {
		if err := cb(w.inspector.Inspect(dir)); err != nil {
			return err
		}
	}
	parseFiles := !inRepo
	if isRepo {
		parseFiles = w.repoManifests
	}

	// os.ReadDir sorts by filename, which fixes the discovery order.
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		isDir := entry.IsDir()
		if !isDir && entry.Type()&fs.ModeSymlink != 0 {
			// Symlinks are followed like any other entry; broken or
			// unreadable targets are skipped.
			target, err := os.Stat(path)
			if err != nil {
				slog.Warn("Skipping unreadable entry", "path", path, "error", err)
				continue
			}
			isDir = target.IsDir()
		}

		if isDir {
			if name == gitDir || w.ignore[name] {
				continue
			}
			if err := w.dir(path, inRepo || isRepo, cb); err != nil {
				return err
			}
			continue
		}
		if parseFiles {
			if err := w.file(path, cb); err != nil {
				return err
			}
		}
	}
	return nil
}

// file parses path if it is a recognized manifest. Read and parse errors
// are non-fatal; only callback errors propagate.
func (w *Walker) file(path string, cb func(types.Component) error) error {
	p := manifest.Detect(filepath.Base(path), w.parsers)
	if p == nil {
		return nil
	}
	slog.Debug("Parsing manifest", "file", path, "ecosystem", p.Ecosystem())

	err := p.Parse(path, func(e manifest.Entry) error {
		rec := types.Component{
			Source:    path,
			Name:      e.Name,
			Version:   e.Constraint,
			Kind:      types.KindManifestEntry,
			Ecosystem: p.Ecosystem(),
		}
		if cerr := cb(rec); cerr != nil {
			return &callbackError{cerr}
		}
		return nil
	})
	if err != nil {
		var cbe *callbackError
		if errors.As(err, &cbe) {
			return cbe.err
		}
		slog.Warn("Skipping unparseable manifest", "file", path, "error", err)
	}
	return nil
}

// callbackError separates errors raised by the walk callback from the
// parser's own read errors, which must stay non-fatal.
type callbackError struct {
	err error
}

func (e *callbackError) Error() string { return e.err.Error() }
func (e *callbackError) Unwrap() error { return e.err }

func hasGitDir(entries []fs.DirEntry) bool {
	for _, entry := range entries {
		if entry.IsDir() && entry.Name() == gitDir {
			return true
		}
	}
	return false
}
