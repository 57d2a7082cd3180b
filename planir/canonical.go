package planir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/tessera-rules/tessera/expr"
)

// MarshalCanonical produces the canonical encoding of a plan: compact
// JSON with sorted object keys and NFC-normalized strings. Two plan
// fragments that are structurally identical encode to identical bytes,
// regardless of how the chains that produced them were written.
//
// Closures never appear in the encoding; only descriptors do. Constant
// values are rendered through their deterministic string form, so no
// floats reach the encoder.
//
// This is the ONLY serialization that may feed Fingerprint.
func MarshalCanonical(plan *Plan) ([]byte, error) {
	if plan == nil {
		return nil, fmt.Errorf("canonical: nil plan")
	}
	return marshalCanonical(planDoc(plan))
}

// planDoc converts a plan to the generic tree the encoder walks.
func planDoc(plan *Plan) map[string]any {
	stages := make([]any, len(plan.Stages))
	for i, s := range plan.Stages {
		stages[i] = stageDoc(s)
	}
	return map[string]any{"stages": stages}
}

// stageDoc converts one stage. Every stage records its kind; optional
// fields are omitted when empty so anonymous and named forms differ only
// where they should.
func stageDoc(s Stage) map[string]any {
	switch stage := s.(type) {
	case PatternStage:
		doc := map[string]any{
			"kind":       "pattern",
			"fact_type":  stage.FactType,
			"conditions": condDocs(stage.Conditions),
		}
		if stage.Alias != "" {
			doc["alias"] = stage.Alias
		}
		return doc
	case SubqueryStage:
		doc := map[string]any{
			"kind": "subquery",
			"plan": planDoc(stage.Plan),
		}
		if stage.Alias != "" {
			doc["alias"] = stage.Alias
		}
		return doc
	case SourceStage:
		return map[string]any{"kind": "source", "source": NodeDoc(stage.Source.Descr)}
	case FilterStage:
		return map[string]any{"kind": "filter", "conditions": condDocs(stage.Conditions)}
	case ProjectStage:
		return map[string]any{"kind": "project", "selector": NodeDoc(stage.Selector.Descr)}
	case FlattenStage:
		return map[string]any{"kind": "flatten", "selector": NodeDoc(stage.Selector.Descr)}
	case GroupStage:
		return map[string]any{
			"kind":    "group",
			"key":     NodeDoc(stage.Key.Descr),
			"element": NodeDoc(stage.Element.Descr),
		}
	case CollectStage:
		return map[string]any{"kind": "collect"}
	default:
		// Unreachable: Stage is sealed.
		return map[string]any{"kind": fmt.Sprintf("unknown:%T", s)}
	}
}

func condDocs(conds []expr.Condition) []any {
	docs := make([]any, len(conds))
	for i, c := range conds {
		docs[i] = NodeDoc(c.Descr)
	}
	return docs
}

// NodeDoc converts a descriptor node to a generic structural document,
// suitable for canonical encoding or pretty-printing as JSON/YAML.
func NodeDoc(n expr.Node) map[string]any {
	switch node := n.(type) {
	case nil:
		return map[string]any{"kind": "opaque"}
	case expr.Field:
		path := make([]any, len(node.Path))
		for i, seg := range node.Path {
			path[i] = seg
		}
		return map[string]any{"kind": "field", "path": path}
	case expr.Cmp:
		return map[string]any{
			"kind":  "cmp",
			"op":    string(node.Op),
			"left":  NodeDoc(node.Left),
			"right": NodeDoc(node.Right),
		}
	case expr.Const:
		return map[string]any{"kind": "const", "value": node.String()}
	case expr.Call:
		return map[string]any{"kind": "call", "name": node.Name}
	case expr.Ident:
		return map[string]any{"kind": "ident"}
	case expr.CELNode:
		return map[string]any{"kind": "cel", "source": node.Source}
	default:
		// Unreachable: Node is sealed.
		return map[string]any{"kind": fmt.Sprintf("unknown:%T", n)}
	}
}

// marshalCanonical encodes the generic tree. Supported value types are
// exactly what the doc builders above produce: maps, slices, strings,
// ints, and bools. Anything else (floats, nil) is a bug in the builders
// and returns an error rather than a nondeterministic encoding.
func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case string:
		return marshalCanonicalString(val)
	case int:
		return []byte(fmt.Sprintf("%d", val)), nil
	case bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case []any:
		return marshalCanonicalArray(val)
	case map[string]any:
		return marshalCanonicalObject(val)
	case nil:
		return nil, fmt.Errorf("null is forbidden in canonical encoding")
	default:
		return nil, fmt.Errorf("unsupported type for canonical encoding: %T", v)
	}
}

// marshalCanonicalString encodes a string NFC-normalized and without
// HTML escaping, so comparison operators like "<" survive intact.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds a trailing newline, remove it.
	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}
	return result, nil
}

func marshalCanonicalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := marshalCanonical(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCanonicalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := marshalCanonicalString(k)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := marshalCanonical(obj[k])
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
