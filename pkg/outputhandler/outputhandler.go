package outputhandler

import (
	"fmt"
	"io"

	"github.com/venslabs/sbomwalk/pkg/api/types"
)

// OutputHandler receives components in discovery order and writes the
// final report on Close. Handlers never reorder or deduplicate.
type OutputHandler interface {
	HandleComponents([]types.Component) error
	Close() error
}

// Formats lists the supported output formats.
var Formats = []string{"table", "csv", "json", "cyclonedx"}

// New returns the OutputHandler for the given format writing to w.
func New(format string, w io.Writer) (OutputHandler, error) {
	switch format {
	case "table":
		return NewTableOutputHandler(w), nil
	case "csv":
		return NewCSVOutputHandler(w), nil
	case "json":
		return NewJSONOutputHandler(w), nil
	case "cyclonedx":
		return NewCycloneDXOutputHandler(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (supported: %v)", format, Formats)
	}
}
