package size

// Artifact identifies one of the measured library archives.
type Artifact string

const (
	ArtifactCrypto Artifact = "crypto"
	ArtifactX509   Artifact = "x509"
	ArtifactTLS    Artifact = "tls"
)

// Artifacts lists the measured artifacts in reporting order.
var Artifacts = []Artifact{ArtifactCrypto, ArtifactX509, ArtifactTLS}

// ArchivePath returns the library archive measured for the artifact,
// relative to the checkout root.
func (a Artifact) ArchivePath() string {
	switch a {
	case ArtifactCrypto:
		return "library/libmbedcrypto.a"
	case ArtifactX509:
		return "library/libmbedx509.a"
	case ArtifactTLS:
		return "library/libmbedtls.a"
	}

	return ""
}

// Report is an ordered mapping from object-file name to its Size for one
// artifact. Insertion order follows the size tool's output and is
// preserved for reporting.
type Report struct {
	names []string
	sizes map[string]Size
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		sizes: make(map[string]Size),
	}
}

// Set records the size of an object, appending it to the iteration order
// on first sight.
func (r *Report) Set(name string, s Size) {
	if _, ok := r.sizes[name]; !ok {
		r.names = append(r.names, name)
	}

	r.sizes[name] = s
}

// Get returns the size of an object and whether it is present.
func (r *Report) Get(name string) (Size, bool) {
	s, ok := r.sizes[name]

	return s, ok
}

// Names returns the object names in insertion order.
func (r *Report) Names() []string {
	return r.names
}

// Len returns the number of objects in the report.
func (r *Report) Len() int {
	return len(r.names)
}

// Sum returns the pointwise sum of all object sizes in the report.
func (r *Report) Sum() Size {
	var total Size
	for _, name := range r.names {
		total = total.Add(r.sizes[name])
	}

	return total
}

// Equal reports whether two reports contain the same objects in the same
// order with equal sizes (per Size.Equal).
func (r *Report) Equal(o *Report) bool {
	if len(r.names) != len(o.names) {
		return false
	}

	for i, name := range r.names {
		if o.names[i] != name {
			return false
		}

		if !r.sizes[name].Equal(o.sizes[name]) {
			return false
		}
	}

	return true
}

// ReportSet holds the per-artifact reports for one measured revision.
type ReportSet struct {
	Revision  string
	artifacts map[Artifact]*Report
}

// NewReportSet creates an empty report set for a revision.
func NewReportSet(revision string) *ReportSet {
	return &ReportSet{
		Revision:  revision,
		artifacts: make(map[Artifact]*Report, len(Artifacts)),
	}
}

// SetArtifact stores the report for an artifact.
func (s *ReportSet) SetArtifact(a Artifact, r *Report) {
	s.artifacts[a] = r
}

// Artifact returns the report for an artifact, or nil if absent.
func (s *ReportSet) Artifact(a Artifact) *Report {
	return s.artifacts[a]
}
