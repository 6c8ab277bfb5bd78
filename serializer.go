package goshape

import (
	"bytes"
	"reflect"

	gojson "github.com/goccy/go-json"

	"github.com/goshape/goshape/internal/constraint"
	"github.com/goshape/goshape/internal/describe"
	"github.com/goshape/goshape/internal/engine"
	"github.com/goshape/goshape/jsonschema"
	"github.com/goshape/goshape/metadata"
)

// Serializer validates loosely-typed input against the shape of T and
// assembles typed values. A Serializer is immutable after New and safe for
// concurrent use.
type Serializer[T any] struct {
	node   *constraint.Node
	schema *jsonschema.Schema
}

// Option attaches metadata to types reachable from T.
type Option interface {
	apply(att describe.Attachments)
}

type typeRules struct {
	t     reflect.Type
	rules []metadata.Rule
}

func (o typeRules) apply(att describe.Attachments) {
	att[o.t] = append(att[o.t], o.rules...)
}

// For attaches rules to the type U wherever it appears in the described
// graph. Rules compose conjunctively with struct tags.
func For[U any](rules ...metadata.Rule) Option {
	return typeRules{t: reflect.TypeOf((*U)(nil)).Elem(), rules: rules}
}

// New builds a Serializer for T. Unsupported type shapes surface here as a
// *DescribeError, never later from Load.
func New[T any](opts ...Option) (*Serializer[T], error) {
	att := make(describe.Attachments)
	for _, o := range opts {
		o.apply(att)
	}
	node, err := describe.Describe(reflect.TypeOf((*T)(nil)).Elem(), att)
	if err != nil {
		return nil, err
	}
	return &Serializer[T]{node: node, schema: jsonschema.Compile(node)}, nil
}

// MustNew is New that panics on description failure. Intended for
// package-level serializer variables.
func MustNew[T any](opts ...Option) *Serializer[T] {
	s, err := New[T](opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Load validates v and assembles a T. On failure it returns the zero T and
// a *SchemaValidationError carrying every finding, ordered by instance
// path then schema path.
func (s *Serializer[T]) Load(v any) (T, error) {
	rv, items := engine.Validate(s.node, v)
	if len(items) > 0 {
		var zero T
		return zero, &SchemaValidationError{Errors: toErrorItems(items)}
	}
	return rv.Interface().(T), nil
}

// LoadJSON decodes data and loads the result. Numbers decode through
// json.Number so integer precision survives; a document that fails to
// parse reports a single finding at the document root.
func (s *Serializer[T]) LoadJSON(data []byte) (T, error) {
	var zero T
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return zero, parseError(err)
	}
	if dec.More() {
		return zero, &SchemaValidationError{Errors: []ErrorItem{{
			Message: "trailing data after JSON document",
		}}}
	}
	return s.Load(v)
}

// JSONSchema returns the schema document for T, compiled once at New. The
// document is shared across calls; treat it as read-only.
func (s *Serializer[T]) JSONSchema() *jsonschema.Schema {
	return s.schema
}

// SchemaOf is a shorthand for New followed by JSONSchema.
func SchemaOf[T any](opts ...Option) (*jsonschema.Schema, error) {
	s, err := New[T](opts...)
	if err != nil {
		return nil, err
	}
	return s.JSONSchema(), nil
}

func toErrorItems(items []engine.Item) []ErrorItem {
	out := make([]ErrorItem, len(items))
	for i, it := range items {
		out[i] = ErrorItem{
			Message:      it.Message,
			InstancePath: it.InstancePath,
			SchemaPath:   it.SchemaPath,
		}
	}
	return out
}

func parseError(err error) error {
	return &SchemaValidationError{Errors: []ErrorItem{{
		Message: err.Error(),
	}}}
}
