// Package constraint defines the internal constraint graph compiled from a
// declared Go type. This package is internal and not part of the public API.
package constraint

import (
	"reflect"
	"regexp"
)

// Kind identifies a constraint node variant.
type Kind int

const (
	KindScalar Kind = iota
	KindLiteral
	KindEnum
	KindOptional
	KindSequence
	KindTuple
	KindMapping
	KindRecord
	KindUnion
	KindAny
)

// ScalarKind identifies the target representation of a scalar leaf.
type ScalarKind int

const (
	ScalarBool ScalarKind = iota
	ScalarInt
	ScalarFloat
	ScalarString
	ScalarDecimal
	ScalarUUID
	ScalarDate
	ScalarTime
	ScalarDateTime
)

// JSONType returns the JSON Schema type name used in error messages.
func (k ScalarKind) JSONType() string {
	switch k {
	case ScalarBool:
		return "boolean"
	case ScalarInt:
		return "integer"
	case ScalarFloat, ScalarDecimal:
		return "number"
	default:
		return "string"
	}
}

// Fixed textual encodings for the format-constrained string scalars. The
// validator checks them before the semantic parse and the schema compiler
// emits them as the "pattern" keyword.
const (
	DatePattern     = `^\d{4}-\d{2}-\d{2}$`
	TimePattern     = `^\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?$`
	DateTimePattern = `^\d{4}-\d{2}-\d{2}[Tt ]\d{2}:\d{2}:\d{2}(\.\d+)?([Zz]|[+-]\d{2}:?\d{2})?$`
)

// Bounds carries optional range and length constraints for a scalar leaf.
// A nil pointer means the constraint is absent.
type Bounds struct {
	Min       *float64
	Max       *float64
	MinLength *int
	MaxLength *int
	Pattern   *regexp.Regexp
}

// Empty reports whether no constraint is set.
func (b Bounds) Empty() bool {
	return b.Min == nil && b.Max == nil && b.MinLength == nil && b.MaxLength == nil && b.Pattern == nil
}

// Field is a named record member. Index is the reflect field index used when
// assembling the coerced struct value.
type Field struct {
	Name     string
	Node     *Node
	Required bool
	Index    []int
}

// Item is a fixed-arity tuple position. Index is set for array-encoded
// structs and nil for Go arrays.
type Item struct {
	Node  *Node
	Index []int
}

// Node is one vertex of the constraint graph. A node is built once per
// distinct declared type, never mutated afterwards, and shared read-only
// across all validation calls. Recursive declared types produce a cyclic
// graph; traversal depth is bounded by input depth, not graph depth.
type Node struct {
	Kind Kind
	Type reflect.Type // declared Go type the coerced value assembles into

	// KindScalar
	Scalar ScalarKind
	Bounds Bounds

	// KindLiteral
	Literal string

	// KindEnum: allowed values normalized to the primitive set (string or
	// int64), declared order preserved for error-message rendering.
	Enum []any

	// KindOptional / KindSequence / KindMapping
	Elem *Node

	// KindTuple
	Items []Item

	// KindRecord: fields sorted by name so validation order is alphabetical
	// and the accumulated error list is deterministic.
	Fields []Field
	Closed bool

	// KindUnion: variants in declared order. Discriminator is empty for an
	// undiscriminated (anyOf) union; when set, every variant is a Record
	// whose discriminator field is a distinct Literal and ByTag indexes them.
	Variants      []*Node
	Discriminator string
	ByTag         map[string]*Node
}
