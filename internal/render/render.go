package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gsmoon97/swe-agent-eval/internal/highlight"
	"github.com/gsmoon97/swe-agent-eval/internal/trajectory"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// LargeContentKeys are tool-call arguments rendered as expandable blocks
// instead of inline key/value lines.
var LargeContentKeys = map[string]struct{}{
	"old_str":   {},
	"new_str":   {},
	"file_text": {},
}

var roleColors = map[trajectory.Color]lipgloss.Color{
	trajectory.ColorSystem:    lipgloss.Color("#DEB887"),
	trajectory.ColorUser:      lipgloss.Color("#9370DB"),
	trajectory.ColorAssistant: lipgloss.Color("#32CD32"),
	trajectory.ColorTool:      lipgloss.Color("#1E90FF"),
}

var (
	keyStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	blockStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			PaddingLeft(1)
)

// collapsedPreviewLines caps body height in the all-steps view so long
// prompts do not drown the trajectory. Focused steps show everything.
const collapsedPreviewLines = 12

// Renderer turns classified steps into styled terminal blocks.
type Renderer struct {
	width int
	md    *glamour.TermRenderer
}

func New(width int, style string) *Renderer {
	if width < 40 {
		width = 40
	}
	r := &Renderer{width: width}
	if md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width-4),
	); err == nil {
		r.md = md
	}
	return r
}

// Step renders one step as a role-colored header plus body. expanded
// controls whether large content (bodies, old_str/new_str/file_text
// arguments) is shown in full or collapsed.
func (r *Renderer) Step(desc trajectory.StepDescriptor, msg trajectory.Message, expanded bool) string {
	var b strings.Builder
	b.WriteString(r.header(desc))
	b.WriteByte('\n')

	switch msg.Role {
	case "system", "user":
		b.WriteString(r.textBody(msg.Content, expanded))
	case "assistant":
		if len(msg.ToolCalls) == 1 {
			b.WriteString(r.assistantAction(msg, expanded))
		} else {
			b.WriteString(r.textBody(r.markdown(msg.Content), expanded))
		}
	case "tool":
		b.WriteString(r.toolResult(desc, msg, expanded))
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func (r *Renderer) header(desc trajectory.StepDescriptor) string {
	color, ok := roleColors[desc.Color]
	if !ok {
		color = lipgloss.Color("240")
	}
	band := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(color).
		PaddingLeft(1)

	title := fmt.Sprintf("Step %d · %s", desc.Step, desc.Title)
	if desc.Role == "tool" {
		title += " " + marker(desc.HasError)
	}
	line := band.Render(strings.ToUpper(desc.Role)) + "  " + title
	if desc.Subtitle != "" {
		line += "  " + dimStyle.Render(desc.Subtitle)
	}
	return ansi.Truncate(line, r.width, "...")
}

func marker(hasError bool) string {
	if hasError {
		return errStyle.Render("✗")
	}
	return okStyle.Render("✓")
}

// assistantAction renders the two side-by-side panes: free-text reasoning
// on the left, the structured tool call on the right.
func (r *Renderer) assistantAction(msg trajectory.Message, expanded bool) string {
	tc := msg.ToolCalls[0]

	left := keyStyle.Render("Reasoning:") + "\n" + r.clamp(r.markdown(msg.Content), expanded)
	right := keyStyle.Render(fmt.Sprintf("Tool Call (%s):", tc.ID)) + "\n" +
		"Function: " + keyStyle.Render(tc.Function.Name) + "\n" +
		r.arguments(tc.Function.Arguments, expanded)

	half := r.width/2 - 2
	if half < 20 {
		half = 20
	}
	leftPane := lipgloss.NewStyle().Width(half).Render(left)
	rightPane := lipgloss.NewStyle().Width(half).PaddingLeft(2).Render(right)
	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane) + "\n"
}

// arguments renders the decoded tool-call arguments: inline key/value
// lines for short values, expandable blocks for the large content keys.
// Malformed JSON falls back to the raw undecoded string.
func (r *Renderer) arguments(raw string, expanded bool) string {
	args, err := decodeOrderedArgs(raw)
	if err != nil {
		return keyStyle.Render("Raw Arguments:") + "\n" + blockStyle.Render(strings.TrimSpace(raw)) + "\n"
	}
	if len(args) == 0 {
		return dimStyle.Render("No arguments") + "\n"
	}

	path := ""
	for _, kv := range args {
		if kv.key == "path" {
			path, _ = kv.value.(string)
		}
	}

	var b strings.Builder
	b.WriteString(keyStyle.Render("Arguments:"))
	b.WriteByte('\n')
	for _, kv := range args {
		if _, large := LargeContentKeys[kv.key]; large {
			b.WriteString(r.largeArgument(kv.key, stringify(kv.value), path, expanded))
			continue
		}
		b.WriteString("  " + keyStyle.Render(kv.key) + ": " + stringify(kv.value) + "\n")
	}
	return b.String()
}

func (r *Renderer) largeArgument(key, value, path string, expanded bool) string {
	if !expanded {
		return fmt.Sprintf("  %s %s %s\n",
			dimStyle.Render("▸"),
			keyStyle.Render(key),
			dimStyle.Render(fmt.Sprintf("(%d chars, focus step to expand)", len(value))))
	}

	body := value
	if strings.HasSuffix(path, ".py") {
		if hl, err := highlightPython(value); err == nil {
			body = hl
		}
	}
	return fmt.Sprintf("  %s %s:\n%s\n",
		dimStyle.Render("▾"),
		keyStyle.Render(key),
		blockStyle.Render(body))
}

func highlightPython(src string) (string, error) {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, src, "python", "terminal256", "monokai"); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func (r *Renderer) toolResult(desc trajectory.StepDescriptor, msg trajectory.Message, expanded bool) string {
	head := keyStyle.Render(fmt.Sprintf("Tool Result (%s): ", msg.ToolCallID)) + marker(desc.HasError)
	body := r.clamp(msg.Content, expanded)
	if desc.HasError {
		body = highlight.Mark(body, trajectory.ErrorKeywords, func(s string) string {
			return errStyle.Render(s)
		}).Text
	}
	return head + "\n" + blockStyle.Render(body) + "\n"
}

func (r *Renderer) textBody(content string, expanded bool) string {
	return blockStyle.Render(r.clamp(content, expanded)) + "\n"
}

func (r *Renderer) clamp(content string, expanded bool) string {
	content = strings.TrimRight(content, "\n")
	if expanded {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) <= collapsedPreviewLines {
		return content
	}
	omitted := len(lines) - collapsedPreviewLines
	clipped := append(lines[:collapsedPreviewLines:collapsedPreviewLines],
		dimStyle.Render(fmt.Sprintf("... (%d more lines, focus step to expand)", omitted)))
	return strings.Join(clipped, "\n")
}

func (r *Renderer) markdown(content string) string {
	if r.md == nil || strings.TrimSpace(content) == "" {
		return content
	}
	out, err := r.md.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

type argKV struct {
	key   string
	value any
}

// decodeOrderedArgs walks the argument object token by token so keys keep
// their wire order; a plain map would shuffle them per render.
func decodeOrderedArgs(raw string) ([]argKV, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("arguments are not a JSON object")
	}

	var out []argKV
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("non-string argument key %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		out = append(out, argKV{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "null"
	case float64:
		return fmt.Sprintf("%g", t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
