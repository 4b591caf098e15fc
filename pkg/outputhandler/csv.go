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
	"encoding/csv"
	"io"

	"github.com/venslabs/sbomwalk/pkg/api/types"
)

var csvHeader = []string{"source", "name", "version", "kind", "ecosystem"}

type csvOutputHandler struct {
	w           *csv.Writer
	wroteHeader bool
}

// NewCSVOutputHandler returns an OutputHandler that streams the report as
// CSV rows with a header line. Rows are written as they arrive.
func NewCSVOutputHandler(w io.Writer) OutputHandler {
	return &csvOutputHandler{w: csv.NewWriter(w)}
}

func (h *csvOutputHandler) HandleComponents(cs []types.Component) error {
	if err := h.writeHeader(); err != nil {
		return err
	}
	for _, c := range cs {
		row := []string{c.Source, c.Name, c.Version, string(c.Kind), c.Ecosystem}
		if err := h.w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Close writes the header even when no components arrived, so consumers
// always see the same schema.
func (h *csvOutputHandler) Close() error {
	if err := h.writeHeader(); err != nil {
		return err
	}
	h.w.Flush()
	return h.w.Error()
}

func (h *csvOutputHandler) writeHeader() error {
	if h.wroteHeader {
		return nil
	}
	if err := h.w.Write(csvHeader); err != nil {
		return err
	}
	h.wroteHeader = true
	return nil
}
