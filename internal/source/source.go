// Package source implements the line normalization step shared by the
// Assembler and the VM Translator: stripping comments and whitespace while
// keeping each surviving line tied to its original position in the file.
package source

import "strings"

// Line is one normalized line of source text paired with its 1-based
// position in the original file, kept around purely for diagnostics.
type Line struct {
	Text   string
	Number int
}

// Normalize splits text into lines, truncates each at the first "//", trims
// surrounding whitespace and drops anything that is blank afterwards.
// Line numbers of the lines that survive are preserved verbatim, regardless
// of how many blank or comment-only lines preceded them.
func Normalize(text string) []Line {
	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))

	for i, entry := range raw {
		if idx := strings.Index(entry, "//"); idx >= 0 {
			entry = entry[:idx]
		}
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		lines = append(lines, Line{Text: entry, Number: i + 1})
	}

	return lines
}
