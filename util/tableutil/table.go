// Plain text tables for terminal output.
package tableutil

import (
	"strings"

	"golang.org/x/text/width"
)

// Pad rows with empty cells until each row has colCnt cells.
func PadTable(table [][]string, colCnt int) {
	for i, r := range table {
		if len(r) < colCnt {
			table[i] = append(r, make([]string, colCnt-len(r))...)
		}
	}
}

func RuneWidth(r rune) int {
	k := width.LookupRune(r).Kind()
	switch k {
	case width.EastAsianWide, width.EastAsianFullwidth, width.EastAsianAmbiguous:
		return 2
	default:
		return 1
	}
}

func StrWidth(s string) int {
	n := 0
	for _, r := range s {
		n += RuneWidth(r)
	}
	return n
}

// Pad spaces.
//
// if n > 0, pad left, else pad right.
func PadSpace(n int, s string) string {
	rl := StrWidth(s)
	an := n
	if n < 0 {
		an = n * -1
	}
	if rl >= an {
		return s
	}
	pad := strings.Repeat(" ", an-rl)
	if n < 0 {
		return s + pad
	}
	return pad + s
}

// Display width of each column, header included.
func ColWidths(header []string, rows [][]string) []int {
	w := make([]int, len(header))
	for i, h := range header {
		w[i] = StrWidth(h)
	}
	for _, r := range rows {
		for i := 0; i < len(r) && i < len(w); i++ {
			if cw := StrWidth(r[i]); cw > w[i] {
				w[i] = cw
			}
		}
	}
	return w
}

// Render table, the first column is left aligned and the remaining columns are right aligned.
//
// Cells beyond the header's column count are dropped.
func Render(header []string, rows [][]string) string {
	PadTable(rows, len(header))
	w := ColWidths(header, rows)

	b := strings.Builder{}
	writeRow := func(r []string) {
		for i := range header {
			if i > 0 {
				b.WriteString("  ")
				b.WriteString(PadSpace(w[i], r[i]))
			} else {
				b.WriteString(PadSpace(-w[i], r[i]))
			}
		}
		b.WriteByte('\n')
	}

	writeRow(header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = strings.Repeat("-", w[i])
	}
	writeRow(sep)
	for _, r := range rows {
		writeRow(r)
	}
	return b.String()
}
