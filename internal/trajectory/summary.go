package trajectory

import (
	"encoding/json"
	"sort"
	"strings"
)

// FileEditTool is the editor tool whose path argument counts toward the
// files-modified statistic.
const FileEditTool = "str_replace_editor"

// ErrorKeywords flag a tool result as failed when any of them appears in
// the content, case-insensitively. Heuristic only; never fatal.
var ErrorKeywords = []string{"error", "exception", "failed", "traceback"}

// Summary holds per-trajectory statistics derived from the message log.
type Summary struct {
	TotalSteps     int
	AssistantSteps int
	ActionTypes    []string
	ActionCounts   map[string]int
	FilesModified  int
	ErrorCount     int
}

// Summarize walks a message log once and derives the trajectory stats.
// Malformed tool-call arguments are skipped silently; the action itself is
// still counted by name.
func Summarize(msgs []Message) Summary {
	counts := make(map[string]int)
	files := make(map[string]struct{})
	errors := 0
	assistant := 0

	for _, m := range msgs {
		switch m.Role {
		case "assistant":
			assistant++
			for _, tc := range m.ToolCalls {
				if tc.Type != "function" || tc.Function.Name == "" {
					continue
				}
				counts[tc.Function.Name]++

				var args map[string]any
				if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
					continue
				}
				if tc.Function.Name == FileEditTool {
					if path, ok := args["path"].(string); ok {
						files[path] = struct{}{}
					}
				}
			}
		case "tool":
			if HasErrorKeyword(m.Content) {
				errors++
			}
		}
	}

	types := make([]string, 0, len(counts))
	for name := range counts {
		types = append(types, name)
	}
	sort.Strings(types)

	return Summary{
		TotalSteps:     len(msgs),
		AssistantSteps: assistant,
		ActionTypes:    types,
		ActionCounts:   counts,
		FilesModified:  len(files),
		ErrorCount:     errors,
	}
}

// MostCommonAction returns the highest-count action, breaking ties by
// name so the answer is stable. ("none", 0) when no actions were seen.
func (s Summary) MostCommonAction() (string, int) {
	best, n := "none", 0
	for name, c := range s.ActionCounts {
		if c > n || (c == n && n > 0 && name < best) {
			best, n = name, c
		}
	}
	return best, n
}

// HasErrorKeyword reports whether content contains any error keyword.
// One qualifying message counts once regardless of how many keywords hit.
func HasErrorKeyword(content string) bool {
	lower := strings.ToLower(content)
	for _, kw := range ErrorKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
