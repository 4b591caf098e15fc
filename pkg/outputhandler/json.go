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
	"encoding/json"
	"io"

	"github.com/venslabs/sbomwalk/pkg/api/types"
)

type jsonOutputHandler struct {
	w io.Writer
	r []types.Component
}

// NewJSONOutputHandler returns an OutputHandler that emits the report as a
// pretty-printed JSON array on Close. An empty report is "[]", not "null".
func NewJSONOutputHandler(w io.Writer) OutputHandler {
	return &jsonOutputHandler{w: w, r: []types.Component{}}
}

func (h *jsonOutputHandler) HandleComponents(cs []types.Component) error {
	h.r = append(h.r, cs...)
	return nil
}

func (h *jsonOutputHandler) Close() error {
	enc := json.NewEncoder(h.w)
	enc.SetIndent("", "  ")
	return enc.Encode(h.r)
}
