package trajectory

import "testing"

func TestDecode_PrefersFncallMessages(t *testing.T) {
	data := []byte(`{
		"messages": [{"role": "user", "content": "plain"}],
		"fncall_messages": [
			{"role": "system", "content": "sys"},
			{"role": "assistant", "content": "go", "tool_calls": [
				{"id": "c1", "type": "function", "function": {"name": "execute_bash", "arguments": "{\"command\":\"ls\"}"}}
			]}
		]
	}`)

	traj, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(traj.Messages) != 2 {
		t.Fatalf("expected fncall_messages to win, got %d messages", len(traj.Messages))
	}
	tc := traj.Messages[1].ToolCalls
	if len(tc) != 1 || tc[0].Function.Name != "execute_bash" {
		t.Fatalf("unexpected tool calls: %#v", tc)
	}
	if tc[0].Function.Arguments != `{"command":"ls"}` {
		t.Fatalf("arguments kept as raw string, got %q", tc[0].Function.Arguments)
	}
}

func TestDecode_FallsBackToMessages(t *testing.T) {
	traj, err := Decode([]byte(`{"messages": [{"role": "user", "content": "hi"}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(traj.Messages) != 1 || traj.Messages[0].Role != "user" {
		t.Fatalf("unexpected messages: %#v", traj.Messages)
	}
}

func TestDecode_NeitherFieldYieldsEmpty(t *testing.T) {
	traj, err := Decode([]byte(`{"meta": {"agent": "x"}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if traj.Messages == nil || len(traj.Messages) != 0 {
		t.Fatalf("expected empty non-nil message list, got %#v", traj.Messages)
	}
}

func TestParseTaskID(t *testing.T) {
	ref, ok := ParseTaskID("apache__airflow-1234")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if ref.Org != "apache" || ref.Repo != "airflow" || ref.Issue != "1234" {
		t.Fatalf("unexpected ref: %+v", ref)
	}
	if got := ref.GitHubURL(); got != "https://github.com/apache/airflow/pull/1234" {
		t.Fatalf("url = %q", got)
	}
}

func TestParseTaskID_DashedRepo(t *testing.T) {
	ref, ok := ParseTaskID("pallets__flask-sqlalchemy-42")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if ref.Repo != "flask-sqlalchemy" || ref.Issue != "42" {
		t.Fatalf("unexpected ref: %+v", ref)
	}
}

func TestParseTaskID_Malformed(t *testing.T) {
	for _, id := range []string{"noseparator-1", "a__b__c-1"} {
		if _, ok := ParseTaskID(id); ok {
			t.Fatalf("expected %q to fail task-id parsing", id)
		}
	}
}
