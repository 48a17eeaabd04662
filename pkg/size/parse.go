package size

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError describes a line of size tool output that does not match the
// expected columnar layout.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("size output line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// ParseReport parses the output of "size -t <archive>" into an ordered
// object report.
//
// The layout is a format contract with the external tool: a header line
// followed by one line per object whose first four whitespace-separated
// fields are text, data, bss and total, and whose sixth field is the
// object name. The fifth field (the hex total column) is ignored.
// Malformed lines are an error, never silently skipped.
func ParseReport(output string) (*Report, error) {
	report := NewReport()

	lines := strings.Split(output, "\n")
	for i, line := range lines {
		// Header line.
		if i == 0 {
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 6 {
			return nil, &ParseError{
				Line:   i + 1,
				Text:   line,
				Reason: fmt.Sprintf("expected at least 6 columns, got %d", len(fields)),
			}
		}

		var sections [4]int64

		for col := 0; col < 4; col++ {
			v, err := strconv.ParseInt(fields[col], 10, 64)
			if err != nil {
				return nil, &ParseError{
					Line:   i + 1,
					Text:   line,
					Reason: fmt.Sprintf("column %d is not an integer", col+1),
				}
			}

			sections[col] = v
		}

		report.Set(fields[5], Size{
			Text:  sections[0],
			Data:  sections[1],
			BSS:   sections[2],
			Total: sections[3],
		})
	}

	return report, nil
}
