package grading

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is the wire shape of one conversation entry as the client sends it
// back: {"role":"user"|"model","parts":[{"text":"..."}]}.
type Turn struct {
	Role  string     `json:"role"`
	Parts []TurnPart `json:"parts"`
}

type TurnPart struct {
	Text string `json:"text"`
}

// DecodeHistory parses the client-supplied conversation history. The input
// is untrusted: roles must be "user" or "model", and only text parts are
// carried over — inline media never round-trips through history.
func DecodeHistory(raw string) ([]*genai.Content, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var turns []Turn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, fmt.Errorf("history: bad json: %w", err)
	}

	out := make([]*genai.Content, 0, len(turns))
	for i, t := range turns {
		if t.Role != RoleUser && t.Role != RoleModel {
			return nil, fmt.Errorf("history: turn %d has unknown role %q", i, t.Role)
		}
		parts := make([]genai.Part, 0, len(t.Parts))
		for _, p := range t.Parts {
			if p.Text == "" {
				continue
			}
			parts = append(parts, genai.Text(p.Text))
		}
		if len(parts) == 0 {
			continue
		}
		out = append(out, &genai.Content{Role: t.Role, Parts: parts})
	}
	return out, nil
}
