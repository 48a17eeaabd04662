// Package report serializes measured snapshots and comparison results to
// their CSV output files.
package report

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/mbedutils/codesize/pkg/compare"
	"github.com/mbedutils/codesize/pkg/fsutil"
	"github.com/mbedutils/codesize/pkg/size"
)

// Writer writes result files into the configured directories, applying
// the optional results owner to everything it creates.
type Writer struct {
	log   logrus.FieldLogger
	owner *fsutil.Owner
}

// NewWriter creates a Writer.
func NewWriter(log logrus.FieldLogger, owner *fsutil.Owner) *Writer {
	return &Writer{
		log:   log.WithField("component", "report"),
		owner: owner,
	}
}

// WriteRecords writes the per-revision size records file
// (<revision>-<config>.csv) into dir and returns its path.
func (w *Writer) WriteRecords(dir string, set *size.ReportSet, config string) (string, error) {
	if err := fsutil.MkdirAll(dir, 0755, w.owner); err != nil {
		return "", fmt.Errorf("creating records directory: %w", err)
	}

	path := filepath.Join(dir, set.Revision+"-"+config+".csv")

	f, err := fsutil.Create(path, w.owner)
	if err != nil {
		return "", fmt.Errorf("creating records file: %w", err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	writeRecords(buf, set)

	if err := buf.Flush(); err != nil {
		return "", fmt.Errorf("writing records file: %w", err)
	}

	w.log.WithField("path", path).Info("Wrote size records")

	return path, nil
}

// WriteComparison writes the comparison file
// (compare-<config>-<arch>-<old>-<new>.csv) into dir and returns its path.
func (w *Writer) WriteComparison(dir, config, arch, oldRev, newRev string, diffs []compare.ArtifactDiff) (string, error) {
	if err := fsutil.MkdirAll(dir, 0755, w.owner); err != nil {
		return "", fmt.Errorf("creating result directory: %w", err)
	}

	name := fmt.Sprintf("compare-%s-%s-%s-%s.csv", config, arch, oldRev, newRev)
	path := filepath.Join(dir, name)

	f, err := fsutil.Create(path, w.owner)
	if err != nil {
		return "", fmt.Errorf("creating comparison file: %w", err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	writeComparison(buf, diffs)

	if err := buf.Flush(); err != nil {
		return "", fmt.Errorf("writing comparison file: %w", err)
	}

	w.log.WithField("path", path).Info("Wrote comparison results")

	return path, nil
}

// writeRecords renders the records CSV: a header, then per artifact the
// artifact name on its own line, one row per object, and a blank line
// after each group.
func writeRecords(out io.Writer, set *size.ReportSet) {
	fmt.Fprint(out, "file, text, data, bss, TOTAL\n")

	for _, artifact := range size.Artifacts {
		report := set.Artifact(artifact)
		if report == nil {
			continue
		}

		fmt.Fprintf(out, "%s\n", artifact)

		for _, name := range report.Names() {
			s, _ := report.Get(name)
			fmt.Fprintf(out, "%s, %d, %d, %d, %d\n", name, s.Text, s.Data, s.BSS, s.Total)
		}

		fmt.Fprint(out, "\n")
	}
}

// writeComparison renders the comparison CSV. Rows without a baseline
// carry only the object name and its new total.
func writeComparison(out io.Writer, diffs []compare.ArtifactDiff) {
	fmt.Fprint(out, "file_name, this_size, old_size, change, change %\n")

	for _, diff := range diffs {
		fmt.Fprintf(out, "%s\n", diff.Artifact)

		for _, row := range diff.Rows {
			if row.HasBaseline {
				fmt.Fprintf(out, "%s, %d, %d, %d, %s\n",
					row.Name, row.NewTotal, row.OldTotal, row.Change, row.FormatChangePct())
			} else {
				fmt.Fprintf(out, "%s, %d\n", row.Name, row.NewTotal)
			}
		}

		fmt.Fprint(out, "\n")
	}
}
