package condition

import (
	"fmt"
)

// Descriptor is the human-readable, pass/fail-annotated explanation of
// one node's evaluation (§4.2, "condition descriptors for
// explainability"). Leaf descriptors render "<field> <op> <value>";
// combinator descriptors carry their children.
type Descriptor struct {
	Text     string       `json:"text"`
	Pass     bool         `json:"pass"`
	Children []Descriptor `json:"children,omitempty"`
}

func leafDescriptor(field, op string, value interface{}, pass bool) Descriptor {
	return Descriptor{
		Text: fmt.Sprintf("%s %s %s", field, op, canonicalValueString(value)),
		Pass: pass,
	}
}

func combinatorDescriptor(kind string, pass bool, children []Descriptor) Descriptor {
	return Descriptor{
		Text:     kind,
		Pass:     pass,
		Children: children,
	}
}

// canonicalValueString renders value the way it should read inside a
// descriptor string: compact, deterministic, no Go-internal type noise.
func canonicalValueString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	case map[string]interface{}:
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
