package highlight

import (
	"strings"
	"testing"
)

func TestMark_CaseInsensitive(t *testing.T) {
	in := "Hello there\nsecond hello\n"
	res := Mark(in, []string{"hello"}, func(s string) string { return "[[" + s + "]]" })

	if res.Count != 2 {
		t.Fatalf("expected 2 matches, got %d", res.Count)
	}
	if len(res.LineIndex) != 2 || res.LineIndex[0] != 0 || res.LineIndex[1] != 1 {
		t.Fatalf("unexpected line indexes: %#v", res.LineIndex)
	}
	if !strings.Contains(res.Text, "[[Hello]]") || !strings.Contains(res.Text, "[[hello]]") {
		t.Fatalf("wrapper not applied: %q", res.Text)
	}
}

func TestMark_MultipleTerms(t *testing.T) {
	in := "Error: step failed\nall good here\n"
	res := Mark(in, []string{"error", "failed"}, func(s string) string { return "<" + s + ">" })

	if res.Count != 2 {
		t.Fatalf("expected 2 matches, got %d", res.Count)
	}
	if len(res.LineIndex) != 1 || res.LineIndex[0] != 0 {
		t.Fatalf("both hits share line 0, got %#v", res.LineIndex)
	}
	if !strings.Contains(res.Text, "<Error>") || !strings.Contains(res.Text, "<failed>") {
		t.Fatalf("terms not marked: %q", res.Text)
	}
}

func TestMark_PreservesEscapeSequences(t *testing.T) {
	in := "a \x1b[31mhello\x1b[0m b"
	res := Mark(in, []string{"hello"}, func(s string) string { return "<" + s + ">" })

	if res.Count != 1 {
		t.Fatalf("expected 1 match, got %d", res.Count)
	}
	if !strings.Contains(res.Text, "\x1b[31m<hello>\x1b[0m") {
		t.Fatalf("expected escaped segment to stay intact, got %q", res.Text)
	}
}

func TestMark_DoesNotMatchAcrossANSIBoundaries(t *testing.T) {
	in := "he\x1b[31mll\x1b[0mo"
	res := Mark(in, []string{"hello"}, func(s string) string { return "<" + s + ">" })
	if res.Count != 0 {
		t.Fatalf("expected 0 matches across ansi boundaries, got %d", res.Count)
	}
}

func TestMark_EmptyTerms(t *testing.T) {
	in := "unchanged"
	res := Mark(in, []string{"", "  "}, func(s string) string { return "<" + s + ">" })
	if res.Text != in || res.Count != 0 {
		t.Fatalf("blank terms must be a no-op, got %+v", res)
	}
}
