package highlight

import (
	"regexp"
	"strings"
)

var ansiCSI = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)

// Result carries the marked text with total hit count and the indices of
// the lines that matched, for jump navigation.
type Result struct {
	Text      string
	Count     int
	LineIndex []int
}

// Mark wraps every case-insensitive occurrence of the given terms while
// leaving existing ANSI escape sequences untouched. Terms never match
// across an escape-sequence boundary. Used both for painting error
// keywords in tool output and for interactive search matches.
func Mark(input string, terms []string, wrap func(string) string) Result {
	cleaned := make([]string, 0, len(terms))
	for _, term := range terms {
		if term = strings.TrimSpace(term); term != "" {
			cleaned = append(cleaned, term)
		}
	}
	if len(cleaned) == 0 {
		return Result{Text: input}
	}
	if wrap == nil {
		wrap = func(s string) string { return s }
	}

	lines := strings.SplitAfter(input, "\n")
	if len(lines) == 0 {
		lines = []string{input}
	}

	var out strings.Builder
	lineMatches := make([]int, 0, 64)
	total := 0

	for lineNo, line := range lines {
		hasNewline := strings.HasSuffix(line, "\n")
		core := line
		if hasNewline {
			core = strings.TrimSuffix(line, "\n")
		}

		count := 0
		for _, term := range cleaned {
			var n int
			core, n = markANSIText(core, term, wrap)
			count += n
		}
		out.WriteString(core)
		if hasNewline {
			out.WriteByte('\n')
		}
		if count > 0 {
			lineMatches = append(lineMatches, lineNo)
			total += count
		}
	}

	return Result{
		Text:      out.String(),
		Count:     total,
		LineIndex: lineMatches,
	}
}

func markANSIText(s, term string, wrap func(string) string) (string, int) {
	indices := ansiCSI.FindAllStringIndex(s, -1)
	if len(indices) == 0 {
		return markPlain(s, term, wrap)
	}

	var out strings.Builder
	total := 0
	pos := 0
	for _, idx := range indices {
		if idx[0] > pos {
			plain, count := markPlain(s[pos:idx[0]], term, wrap)
			out.WriteString(plain)
			total += count
		}
		out.WriteString(s[idx[0]:idx[1]])
		pos = idx[1]
	}
	if pos < len(s) {
		plain, count := markPlain(s[pos:], term, wrap)
		out.WriteString(plain)
		total += count
	}
	return out.String(), total
}

func markPlain(s, term string, wrap func(string) string) (string, int) {
	if s == "" || term == "" {
		return s, 0
	}

	lower := strings.ToLower(s)
	q := strings.ToLower(term)
	if !strings.Contains(lower, q) {
		return s, 0
	}

	var out strings.Builder
	count := 0
	start := 0
	for {
		rel := strings.Index(lower[start:], q)
		if rel < 0 {
			out.WriteString(s[start:])
			break
		}
		idx := start + rel
		out.WriteString(s[start:idx])
		end := idx + len(term)
		out.WriteString(wrap(s[idx:end]))
		count++
		start = end
	}
	return out.String(), count
}
