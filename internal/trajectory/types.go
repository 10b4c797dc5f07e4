package trajectory

import (
	"encoding/json"
)

// Results is the evaluation results index (results.json).
type Results struct {
	TotalInstances      int      `json:"total_instances"`
	ResolvedInstances   int      `json:"resolved_instances"`
	UnresolvedInstances int      `json:"unresolved_instances"`
	UnresolvedIDs       []string `json:"unresolved_ids"`
}

// Message is one step of a trajectory. Role is one of
// system, user, assistant, tool.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the tool name and a JSON-encoded argument object.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Trajectory is one task's recorded message log. Raw keeps the original
// document bytes so downloads re-serialize without loss.
type Trajectory struct {
	Messages []Message
	Raw      json.RawMessage
}

// Decode parses a trajectory document, preferring fncall_messages and
// falling back to messages. Neither present yields an empty trajectory.
func Decode(data []byte) (Trajectory, error) {
	var doc struct {
		FncallMessages []Message `json:"fncall_messages"`
		Messages       []Message `json:"messages"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Trajectory{}, err
	}

	msgs := doc.FncallMessages
	if msgs == nil {
		msgs = doc.Messages
	}
	if msgs == nil {
		msgs = []Message{}
	}

	raw := make(json.RawMessage, len(data))
	copy(raw, data)
	return Trajectory{Messages: msgs, Raw: raw}, nil
}
