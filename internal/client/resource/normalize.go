package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ShapeKind tags the form a list response body came in.
type ShapeKind int

const (
	// ShapeUnrecognized is anything else, including non-JSON bodies.
	ShapeUnrecognized ShapeKind = iota
	// ShapeArray is a bare JSON array.
	ShapeArray
	// ShapeItems is an object with an "items" array.
	ShapeItems
	// ShapeResults is an object with a "results" array.
	ShapeResults
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeArray:
		return "array"
	case ShapeItems:
		return "items"
	case ShapeResults:
		return "results"
	default:
		return "unrecognized"
	}
}

// ListShape is a classified list body: the shape it matched and the raw
// elements of the sequence it carries. Elements is empty for ShapeUnrecognized.
type ListShape struct {
	Kind     ShapeKind
	Elements []json.RawMessage
}

// ClassifyList recognizes a list body by precedence: bare array, then an
// "items" array, then a "results" array. A field that is present but not
// an array does not match.
func ClassifyList(body []byte) ListShape {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ListShape{Kind: ShapeUnrecognized}
	}

	if elems, ok := rawArray(body); ok {
		return ListShape{Kind: ShapeArray, Elements: elems}
	}

	var fields map[string]json.RawMessage
	if body[0] != '{' || json.Unmarshal(body, &fields) != nil {
		return ListShape{Kind: ShapeUnrecognized}
	}

	if elems, ok := rawArray(fields["items"]); ok {
		return ListShape{Kind: ShapeItems, Elements: elems}
	}
	if elems, ok := rawArray(fields["results"]); ok {
		return ListShape{Kind: ShapeResults, Elements: elems}
	}

	return ListShape{Kind: ShapeUnrecognized}
}

// DecodeList decodes every element of shape into T, keeping the order.
// The result is never nil.
func DecodeList[T any](shape ListShape) ([]T, error) {
	out := make([]T, 0, len(shape.Elements))
	for i, raw := range shape.Elements {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to decode %s element %d: %w", shape.Kind, i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// NormalizeList classifies body and decodes the sequence it carries.
// Unrecognized shapes yield an empty slice and no error.
func NormalizeList[T any](body []byte) ([]T, error) {
	return DecodeList[T](ClassifyList(body))
}

// UnwrapItem decodes a singular body. A body of the form {"item": {...}}
// is unwrapped, any other body is decoded directly. An empty or null body
// yields nil without error.
func UnwrapItem[T any](body []byte) (*T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil //nolint:nilnil // no record is a valid answer
	}

	payload := body
	if body[0] == '{' {
		var wrapper struct {
			Item json.RawMessage `json:"item"`
		}
		if err := json.Unmarshal(body, &wrapper); err == nil {
			item := bytes.TrimSpace(wrapper.Item)
			if len(item) > 0 && item[0] == '{' {
				payload = item
			}
		}
	}

	var record T
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &record, nil
}

func rawArray(data json.RawMessage) ([]json.RawMessage, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, false
	}
	return elems, true
}
