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

package outputhandler

import (
	"io"
	"os"

	"github.com/aquasecurity/table"
	"github.com/aquasecurity/tml"

	"github.com/venslabs/sbomwalk/pkg/api/types"
)

type tableOutputHandler struct {
	w io.Writer
	r []types.Component
}

// NewTableOutputHandler returns an OutputHandler that renders the report
// as a colored terminal table.
func NewTableOutputHandler(w io.Writer) OutputHandler {
	if w == nil {
		w = os.Stdout
	}
	return &tableOutputHandler{w: w}
}

func (h *tableOutputHandler) HandleComponents(cs []types.Component) error {
	h.r = append(h.r, cs...)
	return nil
}

func (h *tableOutputHandler) Close() error {
	if len(h.r) == 0 {
		return nil
	}

	t := table.New(h.w)
	t.SetHeaders("Source", "Name", "Version", "Kind", "Ecosystem")

	for _, c := range h.r {
		version := c.Version
		if version == "" {
			version = "unknown"
		}
		t.AddRow(c.Source, c.Name, version, colorKind(c.Kind), c.Ecosystem)
	}
	t.Render()
	return nil
}

func colorKind(kind types.Kind) string {
	switch kind {
	case types.KindGitRepository:
		return tml.Sprintf("<green>git-repository</green>")
	case types.KindManifestEntry:
		return tml.Sprintf("<blue>manifest-entry</blue>")
	default:
		return string(kind)
	}
}
