package trajectory

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Color tags a step for the renderer. The renderer owns the actual
// palette; the classifier only names the role family.
type Color string

const (
	ColorSystem    Color = "system"
	ColorUser      Color = "user"
	ColorAssistant Color = "assistant"
	ColorTool      Color = "tool"
)

const subtitleMax = 40

// StepDescriptor is the display summary for one step, used by the table
// of contents and step headers. Step numbers are 1-based.
type StepDescriptor struct {
	Step     int
	Role     string
	Title    string
	Subtitle string
	Color    Color
	HasError bool // tool steps only
}

// Classify maps one message to its display descriptor. Unrecognized roles
// and assistant messages with more than one tool call are data-contract
// violations and abort the render.
func Classify(msg Message, step int) (StepDescriptor, error) {
	switch msg.Role {
	case "system":
		return StepDescriptor{
			Step:     step,
			Role:     msg.Role,
			Title:    "System Prompt",
			Subtitle: "Initial system prompt and configuration",
			Color:    ColorSystem,
		}, nil

	case "user":
		return StepDescriptor{
			Step:     step,
			Role:     msg.Role,
			Title:    "User Prompt",
			Subtitle: "Uploaded files and issue description",
			Color:    ColorUser,
		}, nil

	case "assistant":
		if len(msg.ToolCalls) > 1 {
			return StepDescriptor{}, fmt.Errorf(
				"step %d: expected at most one tool call per assistant message, got %d",
				step, len(msg.ToolCalls))
		}
		if len(msg.ToolCalls) == 1 {
			name := msg.ToolCalls[0].Function.Name
			if name == "" {
				name = "UNK"
			}
			return StepDescriptor{
				Step:     step,
				Role:     msg.Role,
				Title:    "Assistant Action",
				Subtitle: name,
				Color:    ColorAssistant,
			}, nil
		}
		return StepDescriptor{
			Step:     step,
			Role:     msg.Role,
			Title:    "Assistant Response",
			Subtitle: previewLine(msg.Content),
			Color:    ColorAssistant,
		}, nil

	case "tool":
		name := msg.Name
		if name == "" {
			name = "UNK"
		}
		return StepDescriptor{
			Step:     step,
			Role:     msg.Role,
			Title:    "Tool Result",
			Subtitle: name,
			Color:    ColorTool,
			HasError: HasErrorKeyword(msg.Content),
		}, nil
	}

	return StepDescriptor{}, fmt.Errorf("step %d: unrecognized message role %q", step, msg.Role)
}

// ClassifyAll builds the full table of contents for a message log.
func ClassifyAll(msgs []Message) ([]StepDescriptor, error) {
	out := make([]StepDescriptor, 0, len(msgs))
	for i, m := range msgs {
		d, err := Classify(m, i+1)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// previewLine is the first line of content truncated to subtitleMax
// characters with an ellipsis marker when truncation occurred. Counting
// runes keeps a multibyte character at the cut point intact.
func previewLine(content string) string {
	line, _, _ := strings.Cut(content, "\n")
	if utf8.RuneCountInString(line) <= subtitleMax {
		return line
	}
	return string([]rune(line)[:subtitleMax]) + "..."
}
