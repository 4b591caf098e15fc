package types

// Kind discriminates where a Component record came from.
type Kind string

const (
	// KindGitRepository marks a record produced for a detected git repository root.
	KindGitRepository Kind = "git-repository"
	// KindManifestEntry marks a record produced for a single dependency
	// declared in a manifest file.
	KindManifestEntry Kind = "manifest-entry"
)

// Component is one entry of the SBOM report.
//
// Source is never empty. Version may be empty when metadata extraction
// failed; the record is still emitted (best-effort policy).
type Component struct {
	// Source is the repository path or the manifest file path the record
	// was produced from.
	Source string `json:"source"`
	Name   string `json:"name"`
	// Version is a commit hash or tag for repositories, and a version
	// constraint string (exact pin, bound, or range) for manifest entries.
	Version string `json:"version,omitempty"`
	Kind    Kind   `json:"kind"`
	// Ecosystem identifies the package ecosystem of a manifest entry
	// (e.g. "pip", "npm"). Empty for repository records.
	Ecosystem string `json:"ecosystem,omitempty"`
}
