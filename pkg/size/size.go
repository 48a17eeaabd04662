// Package size models the text/data/bss measurements reported by the
// binutils size tool and parses its tabular output.
package size

// Size holds the section sizes of one compiled object.
type Size struct {
	Text  int64
	Data  int64
	BSS   int64
	Total int64
}

// Add returns the pointwise sum of s and o.
func (s Size) Add(o Size) Size {
	return Size{
		Text:  s.Text + o.Text,
		Data:  s.Data + o.Data,
		BSS:   s.BSS + o.BSS,
		Total: s.Total + o.Total,
	}
}

// Sub returns the pointwise difference of s and o.
func (s Size) Sub(o Size) Size {
	return Size{
		Text:  s.Text - o.Text,
		Data:  s.Data - o.Data,
		BSS:   s.BSS - o.BSS,
		Total: s.Total - o.Total,
	}
}

// Equal compares the text, data and bss sections only. The total column is
// deliberately excluded: it is reported by the external tool rather than
// derived here, and a mismatch against the section sums is diagnostic
// signal we do not want equality to mask.
func (s Size) Equal(o Size) bool {
	return s.Text == o.Text && s.Data == o.Data && s.BSS == o.BSS
}

// Less orders sizes by their total column only.
func (s Size) Less(o Size) bool {
	return s.Total < o.Total
}
