package config

import "testing"

func TestDetectBaseDir(t *testing.T) {
	if got := DetectBaseDir("/explicit/path/"); got != "/explicit/path" {
		t.Fatalf("explicit path = %q", got)
	}

	t.Setenv("SWE_EVAL_BASE", "/from/env")
	if got := DetectBaseDir(""); got != "/from/env" {
		t.Fatalf("env fallback = %q", got)
	}

	t.Setenv("SWE_EVAL_BASE", "")
	if got := DetectBaseDir(""); got != DefaultBaseDir {
		t.Fatalf("default = %q", got)
	}
}
