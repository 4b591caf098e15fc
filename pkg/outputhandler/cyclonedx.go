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
	"regexp"
	"strings"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/package-url/packageurl-go"

	"github.com/venslabs/sbomwalk/pkg/api/types"
)

// NewCycloneDXOutputHandler returns an OutputHandler that accumulates
// components and emits a CycloneDX BOM in JSON format on Close.
func NewCycloneDXOutputHandler(w io.Writer) OutputHandler { return &cycloneDXWriter{w: w} }

type cycloneDXWriter struct {
	w      io.Writer
	c      []cyclonedx.Component
	closed bool
}

func (h *cycloneDXWriter) HandleComponents(cs []types.Component) error {
	for _, c := range cs {
		h.c = append(h.c, toCDXComponent(c))
	}
	return nil
}

func (h *cycloneDXWriter) Close() error {
	if h.closed {
		return nil
	}
	bom := cyclonedx.NewBOM()
	if len(h.c) > 0 {
		bom.Components = &h.c
	}

	enc := cyclonedx.NewBOMEncoder(h.w, cyclonedx.BOMFileFormatJSON)
	enc.SetPretty(true)
	if err := enc.Encode(bom); err != nil {
		return err
	}
	h.closed = true
	return nil
}

func toCDXComponent(c types.Component) cyclonedx.Component {
	if c.Kind == types.KindGitRepository {
		return cyclonedx.Component{
			Type:    cyclonedx.ComponentTypeApplication,
			Name:    c.Name,
			Version: c.Version,
		}
	}
	comp := cyclonedx.Component{
		Type:    cyclonedx.ComponentTypeLibrary,
		Name:    c.Name,
		Version: c.Version,
	}
	// No bom-ref: the report keeps duplicate discoveries of the same
	// package, and bom-refs must be unique within a document.
	comp.PackageURL = purlFor(c)
	return comp
}

var exactSemver = regexp.MustCompile(`^\d+(\.\d+)*([.-][0-9A-Za-z.-]+)?$`)

// purlFor builds a purl for a manifest entry. Constraints and ranges are
// not versions, so only exact pins carry a version component.
func purlFor(c types.Component) string {
	var ptype string
	switch c.Ecosystem {
	case "pip":
		ptype = packageurl.TypePyPi
	case "npm":
		ptype = packageurl.TypeNPM
	default:
		return ""
	}

	version := ""
	switch {
	case strings.HasPrefix(c.Version, "=="):
		version = strings.TrimPrefix(c.Version, "==")
	case exactSemver.MatchString(c.Version):
		version = c.Version
	}

	name := c.Name
	namespace := ""
	if ptype == packageurl.TypeNPM {
		// npm lockfile keys keep their install path prefix.
		if i := strings.LastIndex(name, "node_modules/"); i >= 0 {
			name = name[i+len("node_modules/"):]
		}
		// Scoped packages ("@scope/name") map to a purl namespace.
		if i := strings.LastIndex(name, "/"); i >= 0 {
			namespace, name = name[:i], name[i+1:]
		}
	}
	if name == "" {
		return ""
	}
	return packageurl.NewPackageURL(ptype, namespace, name, version, nil, "").ToString()
}
