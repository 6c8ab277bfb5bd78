// Package engine walks a constraint graph against a normalized primitive
// value tree, producing either a coerced reflect.Value of the declared type
// or the complete list of violations. It is purely computational: no I/O,
// no blocking, only transient per-call state.
package engine

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/goshape/goshape/internal/constraint"
)

// Item is one structured violation. InstancePath locates the offending value
// within the input, SchemaPath the keyword that rejected it.
type Item struct {
	Message      string
	InstancePath string
	SchemaPath   string
}

// Validate coerces v against the constraint graph rooted at n. On success
// the returned value has n's declared Go type. On failure it returns every
// violation, sorted by (InstancePath, SchemaPath) so the order is stable
// regardless of traversal details.
func Validate(n *constraint.Node, v any) (reflect.Value, []Item) {
	st := &state{}
	rv, _ := st.walk(n, Normalize(v), "", "")
	if len(st.items) > 0 {
		sort.SliceStable(st.items, func(i, j int) bool {
			a, b := st.items[i], st.items[j]
			if a.InstancePath != b.InstancePath {
				return a.InstancePath < b.InstancePath
			}
			return a.SchemaPath < b.SchemaPath
		})
		return reflect.Value{}, st.items
	}
	return rv, nil
}

type state struct {
	items []Item
}

func (st *state) add(msg, ip, sp string) {
	st.items = append(st.items, Item{Message: msg, InstancePath: ip, SchemaPath: sp})
}

// walk validates v against n, extending the instance and schema paths as it
// descends. It reports ok=false after recording at least one item; siblings
// keep accumulating, there is no fail-fast across independent subtrees.
func (st *state) walk(n *constraint.Node, v any, ip, sp string) (reflect.Value, bool) {
	switch n.Kind {
	case constraint.KindScalar:
		rv, keyword, msg := coerceScalar(n, v)
		if keyword != "" {
			st.add(msg, ip, joinPath(sp, keyword))
			return reflect.Value{}, false
		}
		return rv, true

	case constraint.KindLiteral:
		s, ok := v.(string)
		if !ok || s != n.Literal {
			st.add(fmt.Sprintf("%s is not one of %s", jsonRepr(v), jsonRepr([]any{n.Literal})), ip, joinPath(sp, "const"))
			return reflect.Value{}, false
		}
		return reflect.ValueOf(s).Convert(n.Type), true

	case constraint.KindEnum:
		for _, allowed := range n.Enum {
			if v == allowed {
				return reflect.ValueOf(v).Convert(n.Type), true
			}
		}
		st.add(fmt.Sprintf("%s is not one of %s", jsonRepr(v), jsonRepr(n.Enum)), ip, joinPath(sp, "enum"))
		return reflect.Value{}, false

	case constraint.KindOptional:
		if v == nil {
			return reflect.Zero(n.Type), true
		}
		sub := &state{}
		rv, ok := sub.walk(n.Elem, v, ip, sp)
		if !ok {
			// The compiled schema is anyOf[inner, null]; any inner failure
			// collapses to a single keyword-level error at this location.
			st.add(msgKeywordMismatch(v, "anyOf"), ip, joinPath(sp, "anyOf"))
			return reflect.Value{}, false
		}
		if n.Type.Kind() == reflect.Ptr {
			p := reflect.New(n.Type.Elem())
			p.Elem().Set(rv)
			return p, true
		}
		return rv, true

	case constraint.KindSequence:
		arr, ok := v.([]any)
		if !ok {
			st.add(msgNotOfType(v, "array"), ip, joinPath(sp, "type"))
			return reflect.Value{}, false
		}
		out := reflect.MakeSlice(n.Type, len(arr), len(arr))
		allOK := true
		for i, e := range arr {
			rv, ok := st.walk(n.Elem, e, joinPath(ip, strconv.Itoa(i)), joinPath(sp, "items"))
			if !ok {
				allOK = false
				continue
			}
			if allOK {
				out.Index(i).Set(rv)
			}
		}
		return out, allOK

	case constraint.KindTuple:
		arr, ok := v.([]any)
		if !ok {
			st.add(msgNotOfType(v, "array"), ip, joinPath(sp, "type"))
			return reflect.Value{}, false
		}
		arity := len(n.Items)
		if len(arr) < arity {
			st.add(fmt.Sprintf("%s has less than %d items", jsonRepr(arr), arity), ip, joinPath(sp, "minItems"))
			return reflect.Value{}, false
		}
		if len(arr) > arity {
			st.add(fmt.Sprintf("%s has more than %d items", jsonRepr(arr), arity), ip, joinPath(sp, "maxItems"))
			return reflect.Value{}, false
		}
		out := reflect.New(n.Type).Elem()
		allOK := true
		for i, it := range n.Items {
			rv, ok := st.walk(it.Node, arr[i], joinPath(ip, strconv.Itoa(i)), joinPath(sp, "items/"+strconv.Itoa(i)))
			if !ok {
				allOK = false
				continue
			}
			if !allOK {
				continue
			}
			if it.Index != nil {
				out.FieldByIndex(it.Index).Set(rv)
			} else {
				out.Index(i).Set(rv)
			}
		}
		return out, allOK

	case constraint.KindMapping:
		m, ok := v.(map[string]any)
		if !ok {
			st.add(msgNotOfType(v, "object"), ip, joinPath(sp, "type"))
			return reflect.Value{}, false
		}
		out := reflect.MakeMapWithSize(n.Type, len(m))
		allOK := true
		for _, k := range sortedKeys(m) {
			rv, ok := st.walk(n.Elem, m[k], joinPath(ip, k), joinPath(sp, "additionalProperties"))
			if !ok {
				allOK = false
				continue
			}
			if allOK {
				out.SetMapIndex(reflect.ValueOf(k).Convert(n.Type.Key()), rv)
			}
		}
		return out, allOK

	case constraint.KindRecord:
		return st.record(n, v, ip, sp)

	case constraint.KindUnion:
		return st.union(n, v, ip, sp)

	case constraint.KindAny:
		if v == nil {
			return reflect.Zero(n.Type), true
		}
		out := reflect.New(n.Type).Elem()
		out.Set(reflect.ValueOf(v))
		return out, true
	}
	st.add(msgNotOfType(v, "object"), ip, joinPath(sp, "type"))
	return reflect.Value{}, false
}

func (st *state) record(n *constraint.Node, v any, ip, sp string) (reflect.Value, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		st.add(msgNotOfType(v, "object"), ip, joinPath(sp, "type"))
		return reflect.Value{}, false
	}
	out := reflect.New(n.Type).Elem()
	allOK := true
	// Fields are pre-sorted by name. Presence errors carry the record's own
	// instance path and the bare "required" keyword, with no properties
	// prefix; only errors inside a present field descend.
	for _, f := range n.Fields {
		val, present := m[f.Name]
		if !present {
			if f.Required {
				st.add(fmt.Sprintf("%q is a required property", f.Name), ip, "required")
				allOK = false
			}
			continue
		}
		rv, ok := st.walk(f.Node, val, joinPath(ip, f.Name), joinPath(sp, "properties/"+f.Name))
		if !ok {
			allOK = false
			continue
		}
		if allOK {
			out.FieldByIndex(f.Index).Set(rv)
		}
	}
	if n.Closed {
		known := make(map[string]bool, len(n.Fields))
		for _, f := range n.Fields {
			known[f.Name] = true
		}
		for _, k := range sortedKeys(m) {
			if !known[k] {
				st.add(fmt.Sprintf("Additional properties are not allowed ('%s' was unexpected)", k), ip, joinPath(sp, "additionalProperties"))
				allOK = false
			}
		}
	}
	return out, allOK
}

func (st *state) union(n *constraint.Node, v any, ip, sp string) (reflect.Value, bool) {
	if n.Discriminator == "" {
		for _, variant := range n.Variants {
			sub := &state{}
			rv, ok := sub.walk(variant, v, ip, sp)
			if ok {
				return st.box(n, rv), true
			}
		}
		st.add(msgKeywordMismatch(v, "anyOf"), ip, joinPath(sp, "anyOf"))
		return reflect.Value{}, false
	}

	m, ok := v.(map[string]any)
	if !ok {
		st.add(msgKeywordMismatch(v, "oneOf"), ip, joinPath(sp, "oneOf"))
		return reflect.Value{}, false
	}
	tag, _ := m[n.Discriminator].(string)
	variant := n.ByTag[tag]
	if variant == nil {
		st.add(msgKeywordMismatch(v, "oneOf"), ip, joinPath(sp, "oneOf"))
		return reflect.Value{}, false
	}
	// The tag selects exactly one variant; failures inside it keep their
	// message and instance path but report under the oneOf keyword, and no
	// other variant is tried.
	sub := &state{}
	rv, ok := sub.walk(variant, v, ip, sp)
	if !ok {
		for _, it := range sub.items {
			st.add(it.Message, it.InstancePath, joinPath(sp, "oneOf"))
		}
		return reflect.Value{}, false
	}
	return st.box(n, rv), true
}

// box wraps a coerced variant value into the union's interface type.
func (st *state) box(n *constraint.Node, rv reflect.Value) reflect.Value {
	out := reflect.New(n.Type).Elem()
	out.Set(rv)
	return out
}

func joinPath(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	return prefix + "/" + seg
}
