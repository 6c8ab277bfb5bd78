package engine

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goshape/goshape/civil"
	"github.com/goshape/goshape/internal/constraint"
)

// The fixed pattern is checked before the semantic parse so a malformed
// input reports under the "pattern" keyword with a stable message.
var (
	datePattern     = regexp.MustCompile(constraint.DatePattern)
	timePattern     = regexp.MustCompile(constraint.TimePattern)
	dateTimePattern = regexp.MustCompile(constraint.DateTimePattern)
)

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999",
}

// coerceScalar checks v against the scalar node and returns the coerced
// value. On failure it returns the rejecting schema keyword and the message;
// checks run type -> format/pattern -> bounds and stop at the first failure,
// so a scalar leaf contributes at most one error.
func coerceScalar(n *constraint.Node, v any) (reflect.Value, string, string) {
	switch n.Scalar {
	case constraint.ScalarBool:
		b, ok := v.(bool)
		if !ok {
			return reflect.Value{}, "type", msgNotOfType(v, "boolean")
		}
		return reflect.ValueOf(b).Convert(n.Type), "", ""

	case constraint.ScalarInt:
		i, ok := v.(int64)
		if !ok {
			return reflect.Value{}, "type", msgNotOfType(v, "integer")
		}
		if kw, msg := checkRange(n.Bounds, float64(i), jsonRepr(i)); kw != "" {
			return reflect.Value{}, kw, msg
		}
		// A plain Convert would wrap silently when the declared type is
		// narrower than int64.
		out := reflect.New(n.Type).Elem()
		switch n.Type.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if i < 0 || out.OverflowUint(uint64(i)) {
				return reflect.Value{}, "format", msgNotValid(v, n.Type.Kind().String())
			}
			out.SetUint(uint64(i))
		default:
			if out.OverflowInt(i) {
				return reflect.Value{}, "format", msgNotValid(v, n.Type.Kind().String())
			}
			out.SetInt(i)
		}
		return out, "", ""

	case constraint.ScalarFloat:
		var f float64
		switch t := v.(type) {
		case float64:
			f = t
		case int64:
			f = float64(t)
		default:
			return reflect.Value{}, "type", msgNotOfType(v, "number")
		}
		if kw, msg := checkRange(n.Bounds, f, jsonRepr(v)); kw != "" {
			return reflect.Value{}, kw, msg
		}
		return reflect.ValueOf(f).Convert(n.Type), "", ""

	case constraint.ScalarString:
		s, ok := v.(string)
		if !ok {
			return reflect.Value{}, "type", msgNotOfType(v, "string")
		}
		if n.Bounds.Pattern != nil && !n.Bounds.Pattern.MatchString(s) {
			return reflect.Value{}, "pattern", msgPattern(s, n.Bounds.Pattern.String())
		}
		if kw, msg := checkLength(n.Bounds, s); kw != "" {
			return reflect.Value{}, kw, msg
		}
		return reflect.ValueOf(s).Convert(n.Type), "", ""

	case constraint.ScalarDecimal:
		var d decimal.Decimal
		switch t := v.(type) {
		case string:
			var err error
			d, err = decimal.NewFromString(t)
			if err != nil {
				return reflect.Value{}, "format", msgNotValid(v, "decimal")
			}
		case int64:
			d = decimal.NewFromInt(t)
		case float64:
			d = decimal.NewFromFloat(t)
		default:
			return reflect.Value{}, "type", msgNotOfType(v, "number")
		}
		if n.Bounds.Min != nil && d.Cmp(decimal.NewFromFloat(*n.Bounds.Min)) < 0 {
			return reflect.Value{}, "minimum", msgMinimum(d.String(), *n.Bounds.Min)
		}
		if n.Bounds.Max != nil && d.Cmp(decimal.NewFromFloat(*n.Bounds.Max)) > 0 {
			return reflect.Value{}, "maximum", msgMaximum(d.String(), *n.Bounds.Max)
		}
		return reflect.ValueOf(d), "", ""

	case constraint.ScalarUUID:
		s, ok := v.(string)
		if !ok {
			return reflect.Value{}, "type", msgNotOfType(v, "string")
		}
		u, err := uuid.Parse(s)
		if err != nil {
			return reflect.Value{}, "format", msgNotValid(v, "uuid")
		}
		return reflect.ValueOf(u), "", ""

	case constraint.ScalarDate:
		s, ok := v.(string)
		if !ok {
			return reflect.Value{}, "type", msgNotOfType(v, "string")
		}
		if !datePattern.MatchString(s) {
			return reflect.Value{}, "pattern", msgPattern(s, constraint.DatePattern)
		}
		d, err := civil.ParseDate(s)
		if err != nil {
			return reflect.Value{}, "format", msgNotValid(v, "date")
		}
		return reflect.ValueOf(d), "", ""

	case constraint.ScalarTime:
		s, ok := v.(string)
		if !ok {
			return reflect.Value{}, "type", msgNotOfType(v, "string")
		}
		if !timePattern.MatchString(s) {
			return reflect.Value{}, "pattern", msgPattern(s, constraint.TimePattern)
		}
		td, err := civil.ParseTimeOfDay(s)
		if err != nil {
			return reflect.Value{}, "format", msgNotValid(v, "time")
		}
		return reflect.ValueOf(td), "", ""

	case constraint.ScalarDateTime:
		s, ok := v.(string)
		if !ok {
			return reflect.Value{}, "type", msgNotOfType(v, "string")
		}
		if !dateTimePattern.MatchString(s) {
			return reflect.Value{}, "pattern", msgPattern(s, constraint.DateTimePattern)
		}
		ts, err := parseDateTime(s)
		if err != nil {
			return reflect.Value{}, "format", msgNotValid(v, "date-time")
		}
		return reflect.ValueOf(ts), "", ""
	}
	return reflect.Value{}, "type", msgNotOfType(v, n.Scalar.JSONType())
}

// parseDateTime tries the layout list after upper-casing the separator and
// zone designator; the pattern admits lowercase t/z but time.Parse does not.
func parseDateTime(s string) (time.Time, error) {
	if len(s) > 10 && s[10] == 't' {
		s = s[:10] + "T" + s[11:]
	}
	if len(s) > 0 && s[len(s)-1] == 'z' {
		s = s[:len(s)-1] + "Z"
	}
	var lastErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func checkRange(b constraint.Bounds, f float64, repr string) (string, string) {
	if b.Min != nil && f < *b.Min {
		return "minimum", msgMinimum(repr, *b.Min)
	}
	if b.Max != nil && f > *b.Max {
		return "maximum", msgMaximum(repr, *b.Max)
	}
	return "", ""
}

func checkLength(b constraint.Bounds, s string) (string, string) {
	n := utf8.RuneCountInString(s)
	if b.MinLength != nil && n < *b.MinLength {
		return "minLength", fmt.Sprintf("%s is shorter than %d characters", jsonRepr(s), *b.MinLength)
	}
	if b.MaxLength != nil && n > *b.MaxLength {
		return "maxLength", fmt.Sprintf("%s is longer than %d characters", jsonRepr(s), *b.MaxLength)
	}
	return "", ""
}

// ---- message rendering ----

// formatBound renders a numeric bound the way it was declared: integral
// bounds print without a decimal point.
func formatBound(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func msgNotOfType(v any, jsonType string) string {
	return fmt.Sprintf("%s is not of type %q", jsonRepr(v), jsonType)
}

func msgNotValid(v any, format string) string {
	return fmt.Sprintf("%s is not a valid %q", jsonRepr(v), format)
}

func msgMinimum(repr string, bound float64) string {
	return fmt.Sprintf("%s is less than the minimum of %s", repr, formatBound(bound))
}

func msgMaximum(repr string, bound float64) string {
	return fmt.Sprintf("%s is greater than the maximum of %s", repr, formatBound(bound))
}

// The pattern is quoted verbatim; %q would double every backslash in the
// regular expression.
func msgPattern(s, pattern string) string {
	return fmt.Sprintf(`%s does not match "%s"`, jsonRepr(s), pattern)
}

func msgKeywordMismatch(v any, keyword string) string {
	return fmt.Sprintf("%s is not valid under any of the schemas listed in the '%s' keyword", jsonRepr(v), keyword)
}
