package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gsmoon97/swe-agent-eval/internal/trajectory"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	metricStyle = lipgloss.NewStyle().Bold(true)
	linkStyle   = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("33"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// SummaryPanel renders the task header, GitHub link, summary metrics and
// the action distribution for the current trajectory.
func (r *Renderer) SummaryPanel(taskID string, sum trajectory.Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Task: "+taskID) + "\n")
	if ref, ok := trajectory.ParseTaskID(taskID); ok {
		b.WriteString("GitHub PR: " + linkStyle.Render(ref.GitHubURL()) + "\n")
	}
	b.WriteByte('\n')

	most, n := sum.MostCommonAction()
	b.WriteString(metricLine(
		metric("Assistant Steps", sum.AssistantSteps),
		metric("Total Steps", sum.TotalSteps),
		metric("Files Modified", sum.FilesModified),
		metric("Errors", sum.ErrorCount),
	) + "\n")
	b.WriteString(metricLine(
		metric("Unique Actions", len(sum.ActionTypes)),
		fmt.Sprintf("%s %s (%d)", metricStyle.Render("Most Common Action:"), most, n),
	) + "\n")

	if len(sum.ActionCounts) > 0 {
		b.WriteByte('\n')
		b.WriteString(metricStyle.Render("Action Distribution") + "\n")
		b.WriteString(r.actionBars(sum.ActionCounts))
	}
	return b.String()
}

func metric(label string, n int) string {
	return fmt.Sprintf("%s %d", metricStyle.Render(label+":"), n)
}

func metricLine(parts ...string) string {
	return strings.Join(parts, "   ")
}

func (r *Renderer) actionBars(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	widest, max := 0, 0
	for name, c := range counts {
		names = append(names, name)
		if len(name) > widest {
			widest = len(name)
		}
		if c > max {
			max = c
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	barRoom := r.width - widest - 10
	if barRoom < 10 {
		barRoom = 10
	}

	var b strings.Builder
	for _, name := range names {
		c := counts[name]
		units := 1
		if max > 0 {
			units = c * barRoom / max
			if units < 1 {
				units = 1
			}
		}
		fmt.Fprintf(&b, "%-*s %s %d\n", widest, name, barStyle.Render(strings.Repeat("█", units)), c)
	}
	return b.String()
}

// ResultsLine is the one-line metrics banner for the results index.
func ResultsLine(res trajectory.Results) string {
	return fmt.Sprintf("%s %d   %s %d   %s %d",
		metricStyle.Render("Total Instances:"), res.TotalInstances,
		metricStyle.Render("Resolved:"), res.ResolvedInstances,
		metricStyle.Render("Unresolved:"), res.UnresolvedInstances,
	)
}

// TOCLine renders one table-of-contents entry for the step list.
func (r *Renderer) TOCLine(desc trajectory.StepDescriptor, width int) string {
	color, ok := roleColors[desc.Color]
	if !ok {
		color = lipgloss.Color("240")
	}
	line := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("Step %d: %s", desc.Step, desc.Title))
	if desc.Role == "tool" {
		line += " " + marker(desc.HasError)
	}
	if desc.Subtitle != "" {
		line += " " + dimStyle.Render(desc.Subtitle)
	}
	if width <= 0 {
		width = r.width
	}
	return ansi.Truncate(line, width, "...")
}
