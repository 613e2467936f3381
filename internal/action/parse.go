package action

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeError reports model output that is not well-formed JSON after fence
// stripping.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("parse model response as JSON: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SchemaError reports well-formed JSON that violates the action contract:
// an unrecognized tag or a bad argument shape.
type SchemaError struct {
	Tag    Name
	Reason string
}

func (e *SchemaError) Error() string { return e.Reason }

// Parse converts raw model output into a validated Action. It never panics,
// has no side effects, and is deterministic: the same raw text always yields
// the same result. All failures come back as *DecodeError or *SchemaError.
func Parse(raw string) (Action, error) {
	cleaned := stripFences(raw)

	var untyped any
	if err := json.Unmarshal([]byte(cleaned), &untyped); err != nil {
		return Action{}, &DecodeError{Err: err}
	}

	if !IsValidAction(untyped) {
		return Action{}, &SchemaError{
			Tag:    tagOf(untyped),
			Reason: fmt.Sprintf("invalid action: %s. Valid actions are: %s", tagOf(untyped), joinNames()),
		}
	}

	obj := untyped.(map[string]any)
	name := Name(obj["action"].(string))
	args, _ := obj["args"].(map[string]any)
	if err := ValidateArgs(name, args); err != nil {
		return Action{}, &SchemaError{Tag: name, Reason: err.Error()}
	}

	var act Action
	if err := json.Unmarshal([]byte(cleaned), &act); err != nil {
		// Arg shapes were validated above, but non-integral "days" values
		// still cannot decode into the typed record.
		return Action{}, &DecodeError{Err: err}
	}
	return act, nil
}

// stripFences removes a leading "```json" or "```" marker and a trailing
// "```" marker. Prose outside fences is deliberately not recovered here; the
// provider clients clamp their output to the outermost braces before the
// parser sees it.
func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

func tagOf(v any) Name {
	if obj, ok := v.(map[string]any); ok {
		if tag, ok := obj["action"].(string); ok {
			return Name(tag)
		}
	}
	return ""
}

func joinNames() string {
	names := make([]string, len(ValidNames))
	for i, n := range ValidNames {
		names[i] = string(n)
	}
	return strings.Join(names, ", ")
}
