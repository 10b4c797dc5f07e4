package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gsmoon97/swe-agent-eval/internal/trajectory"
)

const sampleDoc = `{"fncall_messages": [{"role": "user", "content": "hi"}, {"role": "assistant", "content": "ok", "tool_calls": [{"id": "c1", "type": "function", "function": {"name": "execute_bash", "arguments": "{\"command\":\"ls\"}"}}]}], "extra": {"agent": "CodeActAgent"}}`

func TestExport_RoundTrip(t *testing.T) {
	traj, err := trajectory.Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	dir := t.TempDir()
	e := &Exporter{overrideDir: dir, cwd: dir}
	path, err := e.Export("apache__airflow-1234", traj)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Base(path) != "apache__airflow-1234_trajectory.json" {
		t.Fatalf("unexpected file name %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var got, want any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("re-parse export: %v", err)
	}
	if err := json.Unmarshal([]byte(sampleDoc), &want); err != nil {
		t.Fatalf("parse original: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip diverged:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestIndentedJSON_EmptyTrajectory(t *testing.T) {
	data, err := IndentedJSON(trajectory.Trajectory{})
	if err != nil {
		t.Fatalf("indent: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if _, ok := doc["messages"]; !ok {
		t.Fatalf("expected messages field, got %#v", doc)
	}
}

func TestSafeFileName(t *testing.T) {
	if got := safeFileName("a/b c:d"); got != "a_b_c_d" {
		t.Fatalf("safeFileName = %q", got)
	}
	if got := safeFileName("  "); got != "trajectory" {
		t.Fatalf("safeFileName of blank = %q", got)
	}
}
