package interview

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Parse errors for the question payload. Any of these is fatal to entering a
// session on the record that carries the payload.
var (
	ErrPayloadMissing  = errors.New("interview: payload has no 'questions' field")
	ErrPayloadNotArray = errors.New("interview: 'questions' is not an array")
	ErrPayloadEmpty    = errors.New("interview: question list is empty")
	ErrPayloadBadEntry = errors.New("interview: question entry has no 'question' field")
)

// IsParseError reports whether err is one of the payload parse errors.
func IsParseError(err error) bool {
	return errors.Is(err, ErrPayloadMissing) ||
		errors.Is(err, ErrPayloadNotArray) ||
		errors.Is(err, ErrPayloadEmpty) ||
		errors.Is(err, ErrPayloadBadEntry)
}

// ParseQuestionPayload extracts the ordered question list from a raw payload.
// The payload may arrive as a JSON-encoded string, raw bytes, or an
// already-parsed value; generated payloads have been seen both ways.
func ParseQuestionPayload(raw interface{}) ([]Question, error) {
	data, err := normalizePayload(raw)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Questions json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadMissing, err)
	}
	if len(envelope.Questions) == 0 || string(envelope.Questions) == "null" {
		return nil, ErrPayloadMissing
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(envelope.Questions, &entries); err != nil {
		return nil, ErrPayloadNotArray
	}
	if len(entries) == 0 {
		return nil, ErrPayloadEmpty
	}

	questions := make([]Question, 0, len(entries))
	for i, entry := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil {
			return nil, fmt.Errorf("%w (entry %d)", ErrPayloadBadEntry, i)
		}
		q, ok := fields["question"]
		if !ok || string(q) == "null" {
			return nil, fmt.Errorf("%w (entry %d)", ErrPayloadBadEntry, i)
		}

		var question Question
		if err := json.Unmarshal(entry, &question); err != nil {
			return nil, fmt.Errorf("%w (entry %d)", ErrPayloadBadEntry, i)
		}
		if question.Question == "" {
			return nil, fmt.Errorf("%w (entry %d)", ErrPayloadBadEntry, i)
		}
		questions = append(questions, question)
	}

	return questions, nil
}

// normalizePayload turns the accepted input forms into JSON bytes. A string
// payload may itself be a JSON-encoded string, so unwrap one level of quoting.
func normalizePayload(raw interface{}) ([]byte, error) {
	switch v := raw.(type) {
	case nil:
		return nil, ErrPayloadMissing
	case []byte:
		return unquote(v), nil
	case json.RawMessage:
		return unquote(v), nil
	case string:
		return unquote([]byte(v)), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPayloadMissing, err)
		}
		return data, nil
	}
}

func unquote(data []byte) []byte {
	var inner string
	if err := json.Unmarshal(data, &inner); err == nil {
		return []byte(inner)
	}
	return data
}
