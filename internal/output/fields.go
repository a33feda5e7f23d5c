package output

import (
	"io"
	"strings"
	"unicode/utf8"
)

const fieldGap = "  "

// Fields is a two-column label/value listing, the text layout for state,
// wallet and link summaries. The zero value is ready to use.
type Fields struct {
	rows []field
}

type field struct {
	label string
	value string
}

// Add appends a row.
func (f *Fields) Add(label, value string) *Fields {
	f.rows = append(f.rows, field{label: label, value: value})
	return f
}

// AddIf appends a row only when value is not empty.
func (f *Fields) AddIf(label, value string) *Fields {
	if value == "" {
		return f
	}
	return f.Add(label, value)
}

// Len returns the number of rows.
func (f *Fields) Len() int {
	return len(f.rows)
}

// Render writes one line per row with the values aligned. Continuation lines
// of a multi-line value are indented to the value column.
func (f *Fields) Render(w io.Writer) error {
	if len(f.rows) == 0 {
		return nil
	}

	width := 0
	for _, r := range f.rows {
		width = max(width, utf8.RuneCountInString(r.label))
	}
	indent := strings.Repeat(" ", width+len(fieldGap))

	var sb strings.Builder
	for _, r := range f.rows {
		lines := strings.Split(r.value, "\n")
		head := r.label + strings.Repeat(" ", width-utf8.RuneCountInString(r.label)) + fieldGap + lines[0]
		sb.WriteString(strings.TrimRight(head, " "))
		sb.WriteByte('\n')
		for _, line := range lines[1:] {
			sb.WriteString(strings.TrimRight(indent+line, " "))
			sb.WriteByte('\n')
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// String returns the rendered rows.
func (f *Fields) String() string {
	var sb strings.Builder
	_ = f.Render(&sb)
	return sb.String()
}
