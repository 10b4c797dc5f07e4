package render

import (
	"strings"
	"testing"

	"github.com/gsmoon97/swe-agent-eval/internal/trajectory"

	"github.com/charmbracelet/x/ansi"
)

func testRenderer() *Renderer {
	return New(100, "dark")
}

func classifyStep(t *testing.T, msg trajectory.Message) trajectory.StepDescriptor {
	t.Helper()
	d, err := trajectory.Classify(msg, 1)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	return d
}

func TestStep_AssistantActionPanesAndInlineArgs(t *testing.T) {
	msg := trajectory.Message{
		Role:    "assistant",
		Content: "Let me run the tests first.",
		ToolCalls: []trajectory.ToolCall{{
			ID:   "call_42",
			Type: "function",
			Function: trajectory.FunctionCall{
				Name:      "execute_bash",
				Arguments: `{"command": "pytest -x", "timeout": 60}`,
			},
		}},
	}
	out := ansi.Strip(testRenderer().Step(classifyStep(t, msg), msg, true))

	for _, want := range []string{"Reasoning:", "Tool Call (call_42):", "execute_bash", "command: pytest -x", "timeout: 60"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	// Inline args must keep wire order.
	if strings.Index(out, "command:") > strings.Index(out, "timeout:") {
		t.Fatalf("argument order not preserved:\n%s", out)
	}
}

func TestStep_LargeArgumentCollapsedAndExpanded(t *testing.T) {
	msg := trajectory.Message{
		Role: "assistant",
		ToolCalls: []trajectory.ToolCall{{
			ID:   "call_1",
			Type: "function",
			Function: trajectory.FunctionCall{
				Name:      trajectory.FileEditTool,
				Arguments: `{"path": "pkg/mod.py", "old_str": "def f():\n    return 1"}`,
			},
		}},
	}
	r := testRenderer()
	desc := classifyStep(t, msg)

	collapsed := ansi.Strip(r.Step(desc, msg, false))
	if !strings.Contains(collapsed, "old_str") || !strings.Contains(collapsed, "focus step to expand") {
		t.Fatalf("expected collapsed old_str block:\n%s", collapsed)
	}
	if strings.Contains(collapsed, "def f():") {
		t.Fatalf("collapsed view must not show the body:\n%s", collapsed)
	}

	expanded := ansi.Strip(r.Step(desc, msg, true))
	if !strings.Contains(expanded, "def f():") {
		t.Fatalf("expanded view should show the body:\n%s", expanded)
	}
	// path itself still renders inline.
	if !strings.Contains(expanded, "path: pkg/mod.py") {
		t.Fatalf("path should be inline:\n%s", expanded)
	}
}

func TestStep_MalformedArgumentsFallBackToRaw(t *testing.T) {
	raw := `{"command": not-json`
	msg := trajectory.Message{
		Role: "assistant",
		ToolCalls: []trajectory.ToolCall{{
			ID:       "call_1",
			Type:     "function",
			Function: trajectory.FunctionCall{Name: "execute_bash", Arguments: raw},
		}},
	}
	out := ansi.Strip(testRenderer().Step(classifyStep(t, msg), msg, true))
	if !strings.Contains(out, "Raw Arguments:") || !strings.Contains(out, raw) {
		t.Fatalf("expected raw fallback:\n%s", out)
	}
}

func TestStep_ToolResultMarkers(t *testing.T) {
	r := testRenderer()

	bad := trajectory.Message{Role: "tool", Name: "execute_bash", ToolCallID: "call_9", Content: "Error: no such file"}
	out := ansi.Strip(r.Step(classifyStep(t, bad), bad, true))
	if !strings.Contains(out, "✗") {
		t.Fatalf("expected error marker:\n%s", out)
	}

	good := trajectory.Message{Role: "tool", Name: "execute_bash", Content: "2 passed"}
	out = ansi.Strip(r.Step(classifyStep(t, good), good, true))
	if !strings.Contains(out, "✓") {
		t.Fatalf("expected success marker:\n%s", out)
	}
}

func TestStep_CollapsedBodyClampsLines(t *testing.T) {
	long := strings.Repeat("line\n", collapsedPreviewLines*2)
	msg := trajectory.Message{Role: "system", Content: long}
	out := ansi.Strip(testRenderer().Step(classifyStep(t, msg), msg, false))
	if !strings.Contains(out, "more lines") {
		t.Fatalf("expected clamp notice:\n%s", out)
	}
}

func TestSummaryPanel(t *testing.T) {
	sum := trajectory.Summarize([]trajectory.Message{
		{Role: "user", Content: "fix it"},
		{Role: "assistant", ToolCalls: []trajectory.ToolCall{{
			Type:     "function",
			Function: trajectory.FunctionCall{Name: "execute_bash", Arguments: "{}"},
		}}},
	})
	out := ansi.Strip(testRenderer().SummaryPanel("apache__airflow-1234", sum))

	for _, want := range []string{
		"Task: apache__airflow-1234",
		"https://github.com/apache/airflow/pull/1234",
		"Total Steps: 2",
		"Most Common Action: execute_bash (1)",
		"Action Distribution",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestSummaryPanel_NoGitHubLinkForMalformedID(t *testing.T) {
	out := ansi.Strip(testRenderer().SummaryPanel("not-a-task-id", trajectory.Summary{}))
	if strings.Contains(out, "github.com") {
		t.Fatalf("malformed id must not produce a link:\n%s", out)
	}
}

func TestTOCLine(t *testing.T) {
	r := testRenderer()
	desc := trajectory.StepDescriptor{Step: 4, Role: "tool", Title: "Tool Result", Subtitle: "execute_bash", Color: trajectory.ColorTool, HasError: true}
	out := ansi.Strip(r.TOCLine(desc, 80))
	if !strings.Contains(out, "Step 4: Tool Result") || !strings.Contains(out, "✗") {
		t.Fatalf("unexpected toc line: %q", out)
	}
}

func TestDecodeOrderedArgs(t *testing.T) {
	args, err := decodeOrderedArgs(`{"b": 1, "a": "two", "c": {"nested": true}}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(args) != 3 || args[0].key != "b" || args[1].key != "a" || args[2].key != "c" {
		t.Fatalf("order lost: %#v", args)
	}

	if _, err := decodeOrderedArgs(`[1, 2]`); err == nil {
		t.Fatal("expected error for non-object arguments")
	}
}

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"text", "text"},
		{nil, "null"},
		{float64(3), "3"},
		{3.5, "3.5"},
		{1e21, "1e+21"},
		{true, "true"},
	}
	for _, c := range cases {
		if got := stringify(c.in); got != c.want {
			t.Fatalf("stringify(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
