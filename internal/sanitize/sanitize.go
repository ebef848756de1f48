// Package sanitize turns free-form LLM output into a reconciled SOW document.
package sanitize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/pricing"
)

var (
	// ErrMalformedResponse means no parseable JSON object was found.
	ErrMalformedResponse = errors.New("malformed AI response")
	// ErrUnrecognizedShape means the JSON parsed but matches no known payload.
	ErrUnrecognizedShape = errors.New("unrecognized AI response shape")
)

// DefaultAIMessage is used when the payload carries no aiMessage.
const DefaultAIMessage = "Generated SOW data based on conversation"

// Shape classifies a parsed payload.
type Shape int

const (
	ShapeInvalid Shape = iota
	// ShapeWrapper is {"sowData": {...}, "aiMessage": "...", "architectsLog": [...]}.
	ShapeWrapper
	// ShapeLegacy is a bare SOW document with projectTitle at the root.
	ShapeLegacy
)

func (s Shape) String() string {
	switch s {
	case ShapeWrapper:
		return "wrapper"
	case ShapeLegacy:
		return "legacy"
	default:
		return "invalid"
	}
}

// Payload is the typed form of a model response. Nothing past Sanitize sees
// untyped JSON.
type Payload struct {
	Shape         Shape
	Document      *domain.SOWDocument
	AIMessage     *string
	ArchitectsLog []string
}

// Generation is the sanitized result of one model response.
type Generation struct {
	SOWData   *domain.SOWDocument
	AIMessage string
	Log       []string
	Shape     Shape
	// Repairs lists schema fixes applied before reconciliation.
	Repairs []string
	Report  pricing.Report
}

// Sanitize extracts, classifies, repairs and reconciles a SOW from raw model
// text. Any error aborts the whole generation.
func Sanitize(raw string, catalog *pricing.Catalog) (*Generation, error) {
	payload, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	doc, repairs := RepairSchema(payload.Document)
	reconciled, report := pricing.ReconcileDocument(doc, catalog)

	gen := &Generation{
		SOWData:   reconciled,
		AIMessage: DefaultAIMessage,
		Log:       []string{},
		Shape:     payload.Shape,
		Repairs:   repairs,
		Report:    report,
	}
	if payload.AIMessage != nil {
		gen.AIMessage = *payload.AIMessage
	}
	if payload.ArchitectsLog != nil {
		gen.Log = payload.ArchitectsLog
	}
	return gen, nil
}

// Parse extracts the JSON object from raw and classifies it.
func Parse(raw string) (*Payload, error) {
	text, ok := cleanJSONText(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return classify(root, []byte(text))
}

func classify(root map[string]json.RawMessage, text []byte) (*Payload, error) {
	if sowData, ok := root["sowData"]; ok {
		if !isObject(sowData) {
			return nil, fmt.Errorf("%w: sowData is not an object", ErrUnrecognizedShape)
		}
		var doc domain.SOWDocument
		if err := json.Unmarshal(sowData, &doc); err != nil {
			return nil, fmt.Errorf("%w: sowData: %v", ErrUnrecognizedShape, err)
		}
		return &Payload{
			Shape:         ShapeWrapper,
			Document:      &doc,
			AIMessage:     decodeMessage(root["aiMessage"]),
			ArchitectsLog: decodeLog(root["architectsLog"]),
		}, nil
	}

	if _, ok := root["projectTitle"]; ok {
		var doc domain.SOWDocument
		if err := json.Unmarshal(text, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnrecognizedShape, err)
		}
		return &Payload{Shape: ShapeLegacy, Document: &doc}, nil
	}

	return nil, fmt.Errorf("%w: expected sowData or projectTitle", ErrUnrecognizedShape)
}

func isObject(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '{'
}

func decodeMessage(raw json.RawMessage) *string {
	if raw == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// decodeLog accepts a list of strings or a single string. Non-string entries
// are dropped.
func decodeLog(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
