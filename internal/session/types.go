package session

import (
	"encoding/json"
	"fmt"
)

// Turn is a single question/answer exchange in a conversation.
//
// The schema is open: JSON fields beyond query and answer survive a
// load/store round-trip unchanged. They are carried opaquely and never
// interpreted.
type Turn struct {
	Query  string
	Answer string

	// extra holds unrecognized JSON fields so they round-trip.
	extra map[string]json.RawMessage
}

// NewTurn creates a Turn with the given query and answer.
func NewTurn(query, answer string) Turn {
	return Turn{Query: query, Answer: answer}
}

// MarshalJSON encodes the turn with query/answer plus any carried extra
// fields.
func (t Turn) MarshalJSON() ([]byte, error) {
	m := make(map[string]json.RawMessage, len(t.extra)+2)
	for k, v := range t.extra {
		m[k] = v
	}

	q, err := json.Marshal(t.Query)
	if err != nil {
		return nil, err
	}
	a, err := json.Marshal(t.Answer)
	if err != nil {
		return nil, err
	}
	m["query"] = q
	m["answer"] = a

	return json.Marshal(m)
}

// UnmarshalJSON decodes query and answer and retains any other fields.
func (t *Turn) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	if raw, ok := m["query"]; ok {
		if err := json.Unmarshal(raw, &t.Query); err != nil {
			return fmt.Errorf("turn query: %w", err)
		}
		delete(m, "query")
	}
	if raw, ok := m["answer"]; ok {
		if err := json.Unmarshal(raw, &t.Answer); err != nil {
			return fmt.Errorf("turn answer: %w", err)
		}
		delete(m, "answer")
	}

	if len(m) > 0 {
		t.extra = m
	} else {
		t.extra = nil
	}
	return nil
}
