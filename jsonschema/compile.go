package jsonschema

import (
	"github.com/goshape/goshape/internal/constraint"
)

// Compile renders a constraint graph as a schema document. The document is
// built fresh on each call; callers may mutate the result freely.
func Compile(n *constraint.Node) *Schema {
	c := &compiler{visiting: make(map[*constraint.Node]bool)}
	return c.compile(n)
}

type compiler struct {
	visiting map[*constraint.Node]bool
}

func (c *compiler) compile(n *constraint.Node) *Schema {
	// A node already on the path means a self-referential type. Emit the
	// permissive schema there instead of recursing forever.
	if c.visiting[n] {
		return &Schema{}
	}
	c.visiting[n] = true
	defer delete(c.visiting, n)

	switch n.Kind {
	case constraint.KindScalar:
		return scalarSchema(n)

	case constraint.KindLiteral:
		return &Schema{Type: "string", Const: n.Literal}

	case constraint.KindEnum:
		s := &Schema{Enum: append([]any(nil), n.Enum...)}
		s.Type = enumType(n.Enum)
		return s

	case constraint.KindOptional:
		return &Schema{AnyOf: []*Schema{
			c.compile(n.Elem),
			{Type: "null"},
		}}

	case constraint.KindSequence:
		return &Schema{Type: "array", Items: c.compile(n.Elem)}

	case constraint.KindTuple:
		items := make([]*Schema, len(n.Items))
		for i, it := range n.Items {
			items[i] = c.compile(it.Node)
		}
		arity := len(items)
		return &Schema{
			Type:     "array",
			Items:    items,
			MinItems: &arity,
			MaxItems: &arity,
		}

	case constraint.KindMapping:
		return &Schema{Type: "object", AdditionalProperties: c.compile(n.Elem)}

	case constraint.KindRecord:
		s := &Schema{Type: "object", Properties: make(map[string]*Schema, len(n.Fields))}
		for _, f := range n.Fields {
			s.Properties[f.Name] = c.compile(f.Node)
			if f.Required {
				s.Required = append(s.Required, f.Name)
			}
		}
		if n.Closed {
			s.AdditionalProperties = false
		}
		return s

	case constraint.KindUnion:
		variants := make([]*Schema, len(n.Variants))
		for i, v := range n.Variants {
			variants[i] = c.compile(v)
		}
		if n.Discriminator != "" {
			return &Schema{OneOf: variants}
		}
		return &Schema{AnyOf: variants}

	case constraint.KindAny:
		return &Schema{}
	}
	return &Schema{}
}

func scalarSchema(n *constraint.Node) *Schema {
	s := &Schema{Type: n.Scalar.JSONType(), Format: scalarFormat(n.Scalar)}
	b := n.Bounds
	if b.Min != nil {
		v := *b.Min
		s.Minimum = &v
	}
	if b.Max != nil {
		v := *b.Max
		s.Maximum = &v
	}
	if b.MinLength != nil {
		v := *b.MinLength
		s.MinLength = &v
	}
	if b.MaxLength != nil {
		v := *b.MaxLength
		s.MaxLength = &v
	}
	if b.Pattern != nil {
		s.Pattern = b.Pattern.String()
	}
	if s.Pattern == "" {
		s.Pattern = fixedPattern(n.Scalar)
	}
	return s
}

// fixedPattern is the textual encoding the validator enforces before the
// semantic parse of a format scalar.
func fixedPattern(k constraint.ScalarKind) string {
	switch k {
	case constraint.ScalarDate:
		return constraint.DatePattern
	case constraint.ScalarTime:
		return constraint.TimePattern
	case constraint.ScalarDateTime:
		return constraint.DateTimePattern
	}
	return ""
}

func scalarFormat(k constraint.ScalarKind) string {
	switch k {
	case constraint.ScalarUUID:
		return "uuid"
	case constraint.ScalarDate:
		return "date"
	case constraint.ScalarTime:
		return "time"
	case constraint.ScalarDateTime:
		return "date-time"
	case constraint.ScalarDecimal:
		return "decimal"
	}
	return ""
}

// enumType reports the common JSON type of the enum values, or "" when
// they mix strings and integers.
func enumType(values []any) string {
	var t string
	for _, v := range values {
		var vt string
		switch v.(type) {
		case string:
			vt = "string"
		case int64:
			vt = "integer"
		}
		if t == "" {
			t = vt
		} else if t != vt {
			return ""
		}
	}
	return t
}
