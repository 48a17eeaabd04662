// Package compare aligns two measured snapshots and computes per-object
// size changes.
package compare

import (
	"fmt"

	"github.com/mbedutils/codesize/pkg/size"
)

// Row is the size change of one object between the old and new snapshots.
// HasBaseline is false for objects that only exist in the new snapshot;
// such rows carry the new total and nothing else.
type Row struct {
	Name        string
	NewTotal    int64
	OldTotal    int64
	Change      int64
	ChangePct   float64
	HasBaseline bool
}

// FormatChangePct renders the percentage change with two decimal places
// and a trailing percent sign.
func (r Row) FormatChangePct() string {
	return fmt.Sprintf("%.2f%%", r.ChangePct*100)
}

// ArtifactDiff holds the comparison rows for one artifact.
type ArtifactDiff struct {
	Artifact size.Artifact
	Rows     []Row
}

// Diff compares the old and new snapshots. Iteration is driven by the new
// snapshot: artifacts and objects only present in the old one produce no
// rows, and row order follows the new snapshot's object order. A zero old
// total yields a zero percentage rather than a division.
func Diff(oldSet, newSet *size.ReportSet) []ArtifactDiff {
	diffs := make([]ArtifactDiff, 0, len(size.Artifacts))

	for _, artifact := range size.Artifacts {
		newReport := newSet.Artifact(artifact)
		if newReport == nil {
			continue
		}

		oldReport := oldSet.Artifact(artifact)
		rows := make([]Row, 0, newReport.Len())

		for _, name := range newReport.Names() {
			newSize, _ := newReport.Get(name)
			row := Row{
				Name:     name,
				NewTotal: newSize.Total,
			}

			if oldReport != nil {
				if oldSize, ok := oldReport.Get(name); ok {
					row.HasBaseline = true
					row.OldTotal = oldSize.Total
					row.Change = newSize.Total - oldSize.Total

					if oldSize.Total != 0 {
						row.ChangePct = float64(row.Change) / float64(oldSize.Total)
					}
				}
			}

			rows = append(rows, row)
		}

		diffs = append(diffs, ArtifactDiff{Artifact: artifact, Rows: rows})
	}

	return diffs
}
