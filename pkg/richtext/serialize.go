package richtext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocument wraps every failure to read a serialized document.
	ErrMalformedDocument = errors.New("malformed rich text document")
	// ErrNotArray is returned when the root of the JSON is not an array.
	ErrNotArray = errors.New("document root is not an array")
)

// Serialize encodes doc in its wire form. The output is deterministic.
func Serialize(doc Document) (string, error) {
	if doc == nil {
		doc = Document{}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("serialize document: %w", err)
	}
	return string(b), nil
}

// MustSerialize is Serialize for documents known to be valid.
func MustSerialize(doc Document) string {
	s, err := Serialize(doc)
	if err != nil {
		panic(err)
	}
	return s
}

// Deserialize parses a serialized document. Invalid JSON, a root that is not
// an array, a text leaf at the root and an element without children are all
// rejected with an error wrapping ErrMalformedDocument. An empty array reads
// as the canonical empty document.
func Deserialize(s string) (Document, error) {
	return DeserializeBytes([]byte(s))
}

func DeserializeBytes(data []byte) (Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedDocument)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedDocument)
	}
	if data[0] != '[' {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, ErrNotArray)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if len(raw) == 0 {
		return NewDocument(), nil
	}

	doc := make(Document, 0, len(raw))
	for i, item := range raw {
		node, err := decodeNode(item)
		if err != nil {
			return nil, fmt.Errorf("%w: [%d]: %w", ErrMalformedDocument, i, err)
		}
		el, ok := node.(*Element)
		if !ok {
			return nil, fmt.Errorf("%w: [%d]: text leaf at document root", ErrMalformedDocument, i)
		}
		doc = append(doc, el)
	}
	return doc, nil
}
