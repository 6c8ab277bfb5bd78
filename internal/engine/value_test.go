package engine

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestNormalizePrimitives(t *testing.T) {
	cases := []struct {
		in   any
		want any
	}{
		{nil, nil},
		{true, true},
		{"s", "s"},
		{7, int64(7)},
		{int32(7), int64(7)},
		{uint8(7), int64(7)},
		{float32(1.5), float64(1.5)},
		{json.Number("42"), int64(42)},
		{json.Number("4.2"), float64(4.2)},
		{json.Number("1e3"), float64(1000)},
		{json.Number("9007199254740993"), int64(9007199254740993)},
		{uint64(math.MaxInt64), int64(math.MaxInt64)},
		{uint64(math.MaxUint64), float64(math.MaxUint64)},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%#v) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestNormalizeNamedTypes(t *testing.T) {
	type Label string
	type Count int
	type Big uint64
	if got := Normalize(Label("x")); got != "x" {
		t.Fatalf("got %#v", got)
	}
	if got := Normalize(Count(3)); got != int64(3) {
		t.Fatalf("got %#v", got)
	}
	if got := Normalize(Big(math.MaxUint64)); got != float64(math.MaxUint64) {
		t.Fatalf("got %#v", got)
	}
}

func TestNormalizeComposite(t *testing.T) {
	got := Normalize(map[string]any{"a": []any{1, "b", 2.5}})
	want := map[string]any{"a": []any{int64(1), "b", 2.5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v", got)
	}

	got = Normalize([]int{1, 2})
	if !reflect.DeepEqual(got, []any{int64(1), int64(2)}) {
		t.Fatalf("got %#v", got)
	}

	got = Normalize(map[string]string{"k": "v"})
	if !reflect.DeepEqual(got, map[string]any{"k": "v"}) {
		t.Fatalf("got %#v", got)
	}
}

func TestJSONRepr(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{int64(1), "1"},
		{"1", `"1"`},
		{[]any{"1", int64(1), true, int64(0)}, `["1",1,true,0]`},
		{map[string]any{"b": int64(2), "a": int64(1)}, `{"a":1,"b":2}`},
	}
	for _, c := range cases {
		if got := jsonRepr(c.in); got != c.want {
			t.Fatalf("jsonRepr(%#v) = %s, want %s", c.in, got, c.want)
		}
	}
}
