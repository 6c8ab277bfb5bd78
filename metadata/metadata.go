// Package metadata defines the neutral constraint rules that attach to
// declared types. Rules are consumed by the type descriptor; they are
// independent of any tag syntax, so programmatic attachment via
// goshape.For composes with struct tags.
package metadata

// Rule marks a constraint attachment. Multiple rules on the same declared
// type compose conjunctively.
type Rule interface{ rule() }

// Min constrains a numeric scalar to values >= Value.
type Min struct{ Value float64 }

// Max constrains a numeric scalar to values <= Value.
type Max struct{ Value float64 }

// MinLength constrains a string scalar to at least Value characters
// (Unicode code points, not bytes).
type MinLength struct{ Value int }

// MaxLength constrains a string scalar to at most Value characters.
type MaxLength struct{ Value int }

// Pattern constrains a string scalar to match the given regular expression.
type Pattern struct{ Value string }

// Discriminator selects oneOf semantics for a union: the named field's
// literal value picks the variant to validate against.
type Discriminator struct{ Field string }

// DenyUnknown closes a record: keys not declared as fields become
// validation errors instead of being ignored.
type DenyUnknown struct{}

// Tuple marks a struct as array-encoded: its fields map positionally to a
// fixed-arity JSON array instead of an object.
type Tuple struct{}

// VariantSet registers the concrete variants of an interface-typed union.
// Prefer the Variants constructor.
type VariantSet struct{ Protos []any }

// Variants builds a VariantSet from prototype values of each variant type.
func Variants(protos ...any) Rule { return VariantSet{Protos: protos} }

func (Min) rule()           {}
func (Max) rule()           {}
func (MinLength) rule()     {}
func (MaxLength) rule()     {}
func (Pattern) rule()       {}
func (Discriminator) rule() {}
func (DenyUnknown) rule()   {}
func (Tuple) rule()         {}
func (VariantSet) rule()    {}

// Enumerated is implemented by named types that restrict their value to a
// fixed set. Enum returns the allowed values in declared order; the order
// is preserved in error messages and the compiled schema document.
type Enumerated interface {
	Enum() []any
}
