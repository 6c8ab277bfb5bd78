package goshape_test

import (
	"testing"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	goshape "github.com/goshape/goshape"
	"github.com/goshape/goshape/civil"
	"github.com/goshape/goshape/metadata"
)

func schemaJSON[T any](t *testing.T, opts ...goshape.Option) string {
	t.Helper()
	doc, err := goshape.SchemaOf[T](opts...)
	if err != nil {
		t.Fatalf("SchemaOf: %v", err)
	}
	b, err := gojson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestSchemaScalars(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{schemaJSON[bool](t), `{"type":"boolean"}`},
		{schemaJSON[int](t), `{"type":"integer"}`},
		{schemaJSON[float64](t), `{"type":"number"}`},
		{schemaJSON[string](t), `{"type":"string"}`},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Fatalf("got %s, want %s", c.got, c.want)
		}
	}
}

func TestSchemaRecord(t *testing.T) {
	got := schemaJSON[Profile](t)
	want := `{"type":"object","properties":{"age":{"type":"integer","minimum":1,"maximum":100},"name":{"type":"string","minLength":2,"maxLength":10}},"required":["age","name"]}`
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestSchemaClosedRecord(t *testing.T) {
	type Strict struct {
		ID int `json:"id"`
	}
	got := schemaJSON[Strict](t, goshape.For[Strict](metadata.DenyUnknown{}))
	want := `{"type":"object","properties":{"id":{"type":"integer"}},"required":["id"],"additionalProperties":false}`
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestSchemaOptional(t *testing.T) {
	got := schemaJSON[*string](t)
	want := `{"anyOf":[{"type":"string"},{"type":"null"}]}`
	if got != want {
		t.Fatalf("got %s", got)
	}
}

func TestSchemaSequenceAndMapping(t *testing.T) {
	if got := schemaJSON[[]int](t); got != `{"type":"array","items":{"type":"integer"}}` {
		t.Fatalf("got %s", got)
	}
	if got := schemaJSON[map[string]int](t); got != `{"type":"object","additionalProperties":{"type":"integer"}}` {
		t.Fatalf("got %s", got)
	}
}

func TestSchemaTuple(t *testing.T) {
	got := schemaJSON[Point](t, goshape.For[Point](metadata.Tuple{}))
	want := `{"type":"array","items":[{"type":"number"},{"type":"number"}],"minItems":2,"maxItems":2}`
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestSchemaEnum(t *testing.T) {
	got := schemaJSON[Color](t)
	want := `{"type":"string","enum":["red","green","blue"]}`
	if got != want {
		t.Fatalf("got %s", got)
	}
}

func TestSchemaDiscriminatedUnion(t *testing.T) {
	got := schemaJSON[Shape](t, goshape.For[Shape](
		metadata.Variants(Circle{}, Rect{}),
		metadata.Discriminator{Field: "kind"},
	))
	want := `{"oneOf":[` +
		`{"type":"object","properties":{"kind":{"type":"string","const":"circle"},"radius":{"type":"number"}},"required":["kind","radius"]},` +
		`{"type":"object","properties":{"height":{"type":"number"},"kind":{"type":"string","const":"rect"},"width":{"type":"number"}},"required":["height","kind","width"]}` +
		`]}`
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestSchemaFormats(t *testing.T) {
	type Stamps struct {
		ID string `json:"id" shape:"pattern=^[a-z]+$"`
	}
	got := schemaJSON[Stamps](t)
	want := `{"type":"object","properties":{"id":{"type":"string","pattern":"^[a-z]+$"}},"required":["id"]}`
	if got != want {
		t.Fatalf("got %s", got)
	}
}

func TestSchemaFormatScalars(t *testing.T) {
	if got := schemaJSON[uuid.UUID](t); got != `{"type":"string","format":"uuid"}` {
		t.Fatalf("got %s", got)
	}
	if got := schemaJSON[decimal.Decimal](t); got != `{"type":"number","format":"decimal"}` {
		t.Fatalf("got %s", got)
	}
	if got := schemaJSON[civil.Date](t); got != `{"type":"string","format":"date","pattern":"^\\d{4}-\\d{2}-\\d{2}$"}` {
		t.Fatalf("got %s", got)
	}
	if got := schemaJSON[time.Time](t); got == "" || got[:42] != `{"type":"string","format":"date-time","pat` {
		t.Fatalf("got %s", got)
	}
}

func TestSchemaRecursive(t *testing.T) {
	type TreeNode struct {
		Value    int        `json:"value"`
		Children []TreeNode `json:"children,omitempty"`
	}
	doc, err := goshape.SchemaOf[TreeNode]()
	if err != nil {
		t.Fatalf("SchemaOf: %v", err)
	}
	if doc.Type != "object" {
		t.Fatalf("got type %q", doc.Type)
	}
	if _, err := gojson.Marshal(doc); err != nil {
		t.Fatalf("recursive schema must marshal: %v", err)
	}
}
