package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbedutils/codesize/pkg/compare"
	"github.com/mbedutils/codesize/pkg/size"
)

func testLog() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return log
}

func TestWriteRecords(t *testing.T) {
	set := size.NewReportSet("abc123")

	crypto := size.NewReport()
	crypto.Set("aes.o", size.Size{Text: 100, Data: 4, BSS: 2, Total: 106})
	crypto.Set("rsa.o", size.Size{Text: 200, Data: 0, BSS: 8, Total: 208})
	set.SetArtifact(size.ArtifactCrypto, crypto)

	tls := size.NewReport()
	tls.Set("ssl_tls.o", size.Size{Text: 900, Data: 10, BSS: 1, Total: 911})
	set.SetArtifact(size.ArtifactTLS, tls)

	dir := t.TempDir()
	w := NewWriter(testLog(), nil)

	path, err := w.WriteRecords(dir, set, "default")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc123-default.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "file, text, data, bss, TOTAL\n" +
		"crypto\n" +
		"aes.o, 100, 4, 2, 106\n" +
		"rsa.o, 200, 0, 8, 208\n" +
		"\n" +
		"tls\n" +
		"ssl_tls.o, 900, 10, 1, 911\n" +
		"\n"
	assert.Equal(t, want, string(data))
}

func TestWriteComparison(t *testing.T) {
	diffs := []compare.ArtifactDiff{
		{
			Artifact: size.ArtifactCrypto,
			Rows: []compare.Row{
				{
					Name:        "aes.o",
					NewTotal:    120,
					OldTotal:    100,
					Change:      20,
					ChangePct:   0.2,
					HasBaseline: true,
				},
				{
					Name:     "fresh.o",
					NewTotal: 42,
				},
			},
		},
	}

	dir := t.TempDir()
	w := NewWriter(testLog(), nil)

	path, err := w.WriteComparison(dir, "default", "x86", "revA", "revB", diffs)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "compare-default-x86-revA-revB.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "file_name, this_size, old_size, change, change %\n" +
		"crypto\n" +
		"aes.o, 120, 100, 20, 20.00%\n" +
		"fresh.o, 42\n" +
		"\n"
	assert.Equal(t, want, string(data))
}

func TestWriteRecordsCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "records")
	set := size.NewReportSet("current")
	set.SetArtifact(size.ArtifactCrypto, size.NewReport())

	w := NewWriter(testLog(), nil)

	_, err := w.WriteRecords(dir, set, "full")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "current-full.csv"))
	require.NoError(t, err)
}
