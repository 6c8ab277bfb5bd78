// Package describe walks a declared Go type and builds the constraint graph
// the validator and schema compiler share. Description happens once per
// serializer; the per-type memo makes self-referential types terminate with
// a cyclic graph instead of infinite descent.
package describe

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goshape/goshape/civil"
	"github.com/goshape/goshape/internal/constraint"
	"github.com/goshape/goshape/internal/engine"
	"github.com/goshape/goshape/metadata"
)

// Error reports a declared type with no schema representation. It is raised
// at construction time and never conflated with validation failures.
type Error struct {
	Type   reflect.Type
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("goshape: cannot describe %s: %s", e.Type, e.Reason)
}

// Attachments is the neutral per-type metadata table consumed alongside
// struct tags.
type Attachments map[reflect.Type][]metadata.Rule

// Describe builds the constraint graph for t.
func Describe(t reflect.Type, att Attachments) (*constraint.Node, error) {
	w := &walker{att: att, memo: make(map[reflect.Type]*constraint.Node)}
	return w.describe(t)
}

type walker struct {
	att  Attachments
	memo map[reflect.Type]*constraint.Node
}

var (
	decimalType    = reflect.TypeOf(decimal.Decimal{})
	uuidType       = reflect.TypeOf(uuid.UUID{})
	timeType       = reflect.TypeOf(time.Time{})
	dateType       = reflect.TypeOf(civil.Date{})
	timeOfDayType  = reflect.TypeOf(civil.TimeOfDay{})
	enumeratedType = reflect.TypeOf((*metadata.Enumerated)(nil)).Elem()
)

func (w *walker) describe(t reflect.Type) (*constraint.Node, error) {
	if n, ok := w.memo[t]; ok {
		return n, nil
	}
	// Register the node before descending so recursive references resolve to
	// the node under construction.
	n := &constraint.Node{Type: t}
	w.memo[t] = n
	if err := w.fill(n, t); err != nil {
		delete(w.memo, t)
		return nil, err
	}
	return n, nil
}

func (w *walker) fill(n *constraint.Node, t reflect.Type) error {
	rules := w.att[t]

	switch t {
	case decimalType:
		n.Kind = constraint.KindScalar
		n.Scalar = constraint.ScalarDecimal
		return applyBounds(n, rules)
	case uuidType:
		n.Kind = constraint.KindScalar
		n.Scalar = constraint.ScalarUUID
		return nil
	case timeType:
		n.Kind = constraint.KindScalar
		n.Scalar = constraint.ScalarDateTime
		return nil
	case dateType:
		n.Kind = constraint.KindScalar
		n.Scalar = constraint.ScalarDate
		return nil
	case timeOfDayType:
		n.Kind = constraint.KindScalar
		n.Scalar = constraint.ScalarTime
		return nil
	}

	if values, ok := enumValues(t); ok {
		n.Kind = constraint.KindEnum
		for _, raw := range values {
			nv := engine.Normalize(raw)
			switch nv.(type) {
			case string, int64:
				n.Enum = append(n.Enum, nv)
			default:
				return &Error{Type: t, Reason: fmt.Sprintf("enum value %v is neither string nor integer", raw)}
			}
		}
		if len(n.Enum) == 0 {
			return &Error{Type: t, Reason: "enum with no values"}
		}
		return nil
	}

	switch t.Kind() {
	case reflect.Bool:
		n.Kind = constraint.KindScalar
		n.Scalar = constraint.ScalarBool
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n.Kind = constraint.KindScalar
		n.Scalar = constraint.ScalarInt
		return applyBounds(n, rules)
	case reflect.Float32, reflect.Float64:
		n.Kind = constraint.KindScalar
		n.Scalar = constraint.ScalarFloat
		return applyBounds(n, rules)
	case reflect.String:
		n.Kind = constraint.KindScalar
		n.Scalar = constraint.ScalarString
		return applyBounds(n, rules)

	case reflect.Ptr:
		elem, err := w.describe(t.Elem())
		if err != nil {
			return err
		}
		n.Kind = constraint.KindOptional
		n.Elem = elem
		return nil

	case reflect.Slice:
		elem, err := w.describe(t.Elem())
		if err != nil {
			return err
		}
		n.Kind = constraint.KindSequence
		n.Elem = elem
		return nil

	case reflect.Array:
		elem, err := w.describe(t.Elem())
		if err != nil {
			return err
		}
		n.Kind = constraint.KindTuple
		n.Items = make([]constraint.Item, t.Len())
		for i := range n.Items {
			n.Items[i] = constraint.Item{Node: elem}
		}
		return nil

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return &Error{Type: t, Reason: "map key must be a string type"}
		}
		elem, err := w.describe(t.Elem())
		if err != nil {
			return err
		}
		n.Kind = constraint.KindMapping
		n.Elem = elem
		return nil

	case reflect.Struct:
		if hasRule[metadata.Tuple](rules) {
			return w.fillTuple(n, t)
		}
		return w.fillRecord(n, t, rules)

	case reflect.Interface:
		if vs, ok := findRule[metadata.VariantSet](rules); ok {
			return w.fillUnion(n, t, vs, rules)
		}
		if t.NumMethod() == 0 {
			n.Kind = constraint.KindAny
			return nil
		}
		return &Error{Type: t, Reason: "interface type without registered variants"}
	}

	return &Error{Type: t, Reason: "unsupported kind " + t.Kind().String()}
}

func (w *walker) fillRecord(n *constraint.Node, t reflect.Type, rules []metadata.Rule) error {
	n.Kind = constraint.KindRecord
	n.Closed = hasRule[metadata.DenyUnknown](rules)
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported
			continue
		}
		name, omitEmpty, skip := jsonName(sf)
		if skip {
			continue
		}
		node, opts, err := w.fieldNode(t, sf)
		if err != nil {
			return err
		}
		required := !omitEmpty && !opts.optional && sf.Type.Kind() != reflect.Ptr
		n.Fields = append(n.Fields, constraint.Field{
			Name:     name,
			Node:     node,
			Required: required,
			Index:    sf.Index,
		})
	}
	// Alphabetical processing keeps the accumulated error list deterministic
	// across independent fields.
	sort.Slice(n.Fields, func(i, j int) bool { return n.Fields[i].Name < n.Fields[j].Name })
	return nil
}

func (w *walker) fillTuple(n *constraint.Node, t reflect.Type) error {
	n.Kind = constraint.KindTuple
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		node, _, err := w.fieldNode(t, sf)
		if err != nil {
			return err
		}
		n.Items = append(n.Items, constraint.Item{Node: node, Index: sf.Index})
	}
	if len(n.Items) == 0 {
		return &Error{Type: t, Reason: "tuple struct with no exported fields"}
	}
	return nil
}

func (w *walker) fillUnion(n *constraint.Node, t reflect.Type, vs metadata.VariantSet, rules []metadata.Rule) error {
	n.Kind = constraint.KindUnion
	if d, ok := findRule[metadata.Discriminator](rules); ok {
		n.Discriminator = d.Field
		n.ByTag = make(map[string]*constraint.Node, len(vs.Protos))
	}
	if len(vs.Protos) == 0 {
		return &Error{Type: t, Reason: "union with no variants"}
	}
	for _, proto := range vs.Protos {
		vt := reflect.TypeOf(proto)
		if vt == nil || vt.Kind() != reflect.Struct {
			return &Error{Type: t, Reason: "union variants must be struct values"}
		}
		if !vt.Implements(t) {
			return &Error{Type: t, Reason: fmt.Sprintf("variant %s does not implement %s", vt, t)}
		}
		vn, err := w.describe(vt)
		if err != nil {
			return err
		}
		if vn.Kind != constraint.KindRecord {
			return &Error{Type: t, Reason: fmt.Sprintf("variant %s is not a record", vt)}
		}
		n.Variants = append(n.Variants, vn)
		if n.Discriminator == "" {
			continue
		}
		tag, err := discriminatorTag(vn, n.Discriminator)
		if err != nil {
			return &Error{Type: t, Reason: fmt.Sprintf("variant %s: %v", vt, err)}
		}
		if _, dup := n.ByTag[tag]; dup {
			return &Error{Type: t, Reason: fmt.Sprintf("duplicate discriminator value %q", tag)}
		}
		n.ByTag[tag] = vn
	}
	return nil
}

// discriminatorTag extracts the literal value of the discriminator field of
// a variant record.
func discriminatorTag(vn *constraint.Node, field string) (string, error) {
	for _, f := range vn.Fields {
		if f.Name != field {
			continue
		}
		if f.Node.Kind != constraint.KindLiteral {
			return "", fmt.Errorf("discriminator field %q must carry a const tag", field)
		}
		return f.Node.Literal, nil
	}
	return "", fmt.Errorf("discriminator field %q not declared", field)
}

// fieldOpts carries the shape tag options that act at field level rather
// than on the node itself.
type fieldOpts struct {
	optional bool
}

// fieldNode resolves a struct field's constraint node, applying shape tag
// options. Tag-derived bounds clone the memoized base node so the shared
// graph stays immutable.
func (w *walker) fieldNode(owner reflect.Type, sf reflect.StructField) (*constraint.Node, fieldOpts, error) {
	var opts fieldOpts
	base, err := w.describe(sf.Type)
	if err != nil {
		return nil, opts, err
	}

	tag := sf.Tag.Get("shape")
	if tag == "" {
		return base, opts, nil
	}

	node := base
	var bounds constraint.Bounds
	for _, part := range strings.Split(tag, ",") {
		key, val, _ := strings.Cut(part, "=")
		switch key {
		case "":
		case "optional":
			opts.optional = true
		case "const":
			if sf.Type.Kind() != reflect.String {
				return nil, opts, &Error{Type: owner, Reason: fmt.Sprintf("field %s: const requires a string type", sf.Name)}
			}
			node = &constraint.Node{Kind: constraint.KindLiteral, Type: sf.Type, Literal: val}
		case "min":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, opts, tagError(owner, sf, part, err)
			}
			bounds.Min = &f
		case "max":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, opts, tagError(owner, sf, part, err)
			}
			bounds.Max = &f
		case "minLen":
			l, err := strconv.Atoi(val)
			if err != nil {
				return nil, opts, tagError(owner, sf, part, err)
			}
			bounds.MinLength = &l
		case "maxLen":
			l, err := strconv.Atoi(val)
			if err != nil {
				return nil, opts, tagError(owner, sf, part, err)
			}
			bounds.MaxLength = &l
		case "pattern":
			re, err := regexp.Compile(val)
			if err != nil {
				return nil, opts, tagError(owner, sf, part, err)
			}
			bounds.Pattern = re
		default:
			return nil, opts, &Error{Type: owner, Reason: fmt.Sprintf("field %s: unknown shape option %q", sf.Name, key)}
		}
	}
	if !bounds.Empty() {
		if node.Kind != constraint.KindScalar {
			return nil, opts, &Error{Type: owner, Reason: fmt.Sprintf("field %s: bounds require a scalar type", sf.Name)}
		}
		clone := *node
		mergeBounds(&clone.Bounds, bounds)
		node = &clone
	}
	return node, opts, nil
}

func tagError(owner reflect.Type, sf reflect.StructField, part string, err error) error {
	return &Error{Type: owner, Reason: fmt.Sprintf("field %s: bad shape option %q: %v", sf.Name, part, err)}
}

// applyBounds folds programmatic bound rules into a scalar node.
func applyBounds(n *constraint.Node, rules []metadata.Rule) error {
	for _, r := range rules {
		switch t := r.(type) {
		case metadata.Min:
			v := t.Value
			n.Bounds.Min = &v
		case metadata.Max:
			v := t.Value
			n.Bounds.Max = &v
		case metadata.MinLength:
			v := t.Value
			n.Bounds.MinLength = &v
		case metadata.MaxLength:
			v := t.Value
			n.Bounds.MaxLength = &v
		case metadata.Pattern:
			re, err := regexp.Compile(t.Value)
			if err != nil {
				return &Error{Type: n.Type, Reason: fmt.Sprintf("bad pattern %q: %v", t.Value, err)}
			}
			n.Bounds.Pattern = re
		}
	}
	return nil
}

func mergeBounds(dst *constraint.Bounds, src constraint.Bounds) {
	if src.Min != nil {
		dst.Min = src.Min
	}
	if src.Max != nil {
		dst.Max = src.Max
	}
	if src.MinLength != nil {
		dst.MinLength = src.MinLength
	}
	if src.MaxLength != nil {
		dst.MaxLength = src.MaxLength
	}
	if src.Pattern != nil {
		dst.Pattern = src.Pattern
	}
}

// enumValues detects the metadata.Enumerated contract on t or *t.
func enumValues(t reflect.Type) ([]any, bool) {
	if t.Implements(enumeratedType) {
		return reflect.Zero(t).Interface().(metadata.Enumerated).Enum(), true
	}
	if reflect.PointerTo(t).Implements(enumeratedType) {
		return reflect.New(t).Interface().(metadata.Enumerated).Enum(), true
	}
	return nil, false
}

// jsonName resolves the wire name of a field from its json tag.
func jsonName(sf reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, rest, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	for _, opt := range strings.Split(rest, ",") {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// hasRule reports whether rules contains a rule of type R.
func hasRule[R metadata.Rule](rules []metadata.Rule) bool {
	_, ok := findRule[R](rules)
	return ok
}

// findRule returns the last rule of type R, if any.
func findRule[R metadata.Rule](rules []metadata.Rule) (R, bool) {
	var out R
	var found bool
	for _, r := range rules {
		if t, ok := r.(R); ok {
			out = t
			found = true
		}
	}
	return out, found
}
