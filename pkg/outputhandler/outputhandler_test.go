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
	"bytes"
	"encoding/json"
	"testing"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/stretchr/testify/require"

	"github.com/venslabs/sbomwalk/pkg/api/types"
)

var testComponents = []types.Component{
	{Source: "/src/widget", Name: "widget", Version: "v1.2.0", Kind: types.KindGitRepository},
	{Source: "/src/app/requirements.txt", Name: "foo", Version: "==1.2.3", Kind: types.KindManifestEntry, Ecosystem: "pip"},
	{Source: "/src/app/package.json", Name: "@types/node", Version: "^20.0.0", Kind: types.KindManifestEntry, Ecosystem: "npm"},
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	for _, format := range Formats {
		h, err := New(format, &buf)
		require.NoError(t, err, format)
		require.NotNil(t, h, format)
	}
	_, err := New("xml", &buf)
	require.ErrorContains(t, err, "unknown output format")
}

func TestCSVOutput(t *testing.T) {
	var buf bytes.Buffer
	h := NewCSVOutputHandler(&buf)
	require.NoError(t, h.HandleComponents(testComponents))
	require.NoError(t, h.Close())

	want := "source,name,version,kind,ecosystem\n" +
		"/src/widget,widget,v1.2.0,git-repository,\n" +
		"/src/app/requirements.txt,foo,==1.2.3,manifest-entry,pip\n" +
		"/src/app/package.json,@types/node,^20.0.0,manifest-entry,npm\n"
	require.Equal(t, want, buf.String())
}

func TestCSVOutputEmpty(t *testing.T) {
	var buf bytes.Buffer
	h := NewCSVOutputHandler(&buf)
	require.NoError(t, h.Close())
	require.Equal(t, "source,name,version,kind,ecosystem\n", buf.String())
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	h := NewJSONOutputHandler(&buf)
	require.NoError(t, h.HandleComponents(testComponents))
	require.NoError(t, h.Close())

	var got []types.Component
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, testComponents, got)
}

func TestJSONOutputEmpty(t *testing.T) {
	var buf bytes.Buffer
	h := NewJSONOutputHandler(&buf)
	require.NoError(t, h.Close())
	require.Equal(t, "[]\n", buf.String())
}

func TestTableOutput(t *testing.T) {
	var buf bytes.Buffer
	h := NewTableOutputHandler(&buf)
	require.NoError(t, h.HandleComponents(testComponents))
	require.NoError(t, h.Close())

	out := buf.String()
	require.Contains(t, out, "widget")
	require.Contains(t, out, "foo")
	require.Contains(t, out, "==1.2.3")
}

func TestTableOutputEmpty(t *testing.T) {
	var buf bytes.Buffer
	h := NewTableOutputHandler(&buf)
	require.NoError(t, h.Close())
	require.Empty(t, buf.String())
}

func TestCycloneDXOutput(t *testing.T) {
	var buf bytes.Buffer
	h := NewCycloneDXOutputHandler(&buf)
	require.NoError(t, h.HandleComponents(testComponents))
	require.NoError(t, h.Close())

	var bom cyclonedx.BOM
	require.NoError(t, json.Unmarshal(buf.Bytes(), &bom))
	require.NotNil(t, bom.Components)
	require.Len(t, *bom.Components, 3)

	repo := (*bom.Components)[0]
	require.Equal(t, cyclonedx.ComponentTypeApplication, repo.Type)
	require.Equal(t, "v1.2.0", repo.Version)

	pip := (*bom.Components)[1]
	require.Equal(t, cyclonedx.ComponentTypeLibrary, pip.Type)
	require.Equal(t, "pkg:pypi/foo@1.2.3", pip.PackageURL)
}

func TestCycloneDXOutputDuplicatePackages(t *testing.T) {
	// The report keeps identical (name, version) pairs from different
	// sources; the BOM must stay valid, so components carry no bom-ref.
	dupes := []types.Component{
		{Source: "/src/a/requirements.txt", Name: "foo", Version: "==1.2.3", Kind: types.KindManifestEntry, Ecosystem: "pip"},
		{Source: "/src/b/requirements.txt", Name: "foo", Version: "==1.2.3", Kind: types.KindManifestEntry, Ecosystem: "pip"},
	}

	var buf bytes.Buffer
	h := NewCycloneDXOutputHandler(&buf)
	require.NoError(t, h.HandleComponents(dupes))
	require.NoError(t, h.Close())

	var bom cyclonedx.BOM
	require.NoError(t, json.Unmarshal(buf.Bytes(), &bom))
	require.NotNil(t, bom.Components)
	require.Len(t, *bom.Components, 2)
	for _, c := range *bom.Components {
		require.Empty(t, c.BOMRef)
		require.Equal(t, "pkg:pypi/foo@1.2.3", c.PackageURL)
	}
}

func TestPurlFor(t *testing.T) {
	tests := []struct {
		name      string
		component types.Component
		want      string
	}{
		{
			"pip_exact_pin",
			types.Component{Name: "foo", Version: "==1.2.3", Ecosystem: "pip"},
			"pkg:pypi/foo@1.2.3",
		},
		{
			"pip_range_has_no_version",
			types.Component{Name: "bar", Version: ">=2.0", Ecosystem: "pip"},
			"pkg:pypi/bar",
		},
		{
			"npm_resolved_version",
			types.Component{Name: "node_modules/express", Version: "4.18.2", Ecosystem: "npm"},
			"pkg:npm/express@4.18.2",
		},
		{
			"npm_scoped",
			types.Component{Name: "@types/node", Version: "^20.0.0", Ecosystem: "npm"},
			"pkg:npm/%40types/node",
		},
		{
			"unknown_ecosystem",
			types.Component{Name: "widget", Version: "abc123"},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, purlFor(tt.component))
		})
	}
}
