package civil_test

import (
	"testing"
	"time"

	"github.com/goshape/goshape/civil"
)

func TestParseDate(t *testing.T) {
	d, err := civil.ParseDate("2024-03-09")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d != (civil.Date{Year: 2024, Month: time.March, Day: 9}) {
		t.Fatalf("got %+v", d)
	}
	if d.String() != "2024-03-09" {
		t.Fatalf("String() = %q", d.String())
	}

	for _, bad := range []string{"2024-02-30", "2024-13-01", "not-a-date", "2024-3-9"} {
		if _, err := civil.ParseDate(bad); err == nil {
			t.Fatalf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestDateIn(t *testing.T) {
	d := civil.Date{Year: 2024, Month: time.March, Day: 9}
	got := d.In(time.UTC)
	want := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v", got)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want civil.TimeOfDay
	}{
		{"01:02", civil.TimeOfDay{Hour: 1, Minute: 2}},
		{"01:02:03", civil.TimeOfDay{Hour: 1, Minute: 2, Second: 3}},
		{"01:02:03.000004", civil.TimeOfDay{Hour: 1, Minute: 2, Second: 3, Nanosecond: 4000}},
		{"01:02:03Z", civil.TimeOfDay{Hour: 1, Minute: 2, Second: 3, HasOffset: true}},
		{"01:02:03+03:00", civil.TimeOfDay{Hour: 1, Minute: 2, Second: 3, HasOffset: true, Offset: 3 * 3600}},
		{"01:02:03-0130", civil.TimeOfDay{Hour: 1, Minute: 2, Second: 3, HasOffset: true, Offset: -(3600 + 1800)}},
	}
	for _, c := range cases {
		got, err := civil.ParseTimeOfDay(c.in)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseTimeOfDay(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"24:00", "12:60", "12:34:61", "12:34pm", "12:34:56+25:00"} {
		if _, err := civil.ParseTimeOfDay(bad); err == nil {
			t.Fatalf("ParseTimeOfDay(%q) should fail", bad)
		}
	}
}

func TestTimeOfDayString(t *testing.T) {
	cases := []struct {
		in   civil.TimeOfDay
		want string
	}{
		{civil.TimeOfDay{Hour: 1, Minute: 2}, "01:02"},
		{civil.TimeOfDay{Hour: 1, Minute: 2, Second: 3}, "01:02:03"},
		{civil.TimeOfDay{Hour: 1, Minute: 2, Second: 3, Nanosecond: 4000}, "01:02:03.000004"},
		{civil.TimeOfDay{Hour: 1, Minute: 2, Second: 3, HasOffset: true}, "01:02:03Z"},
		{civil.TimeOfDay{Hour: 1, Minute: 2, Second: 3, HasOffset: true, Offset: 3 * 3600}, "01:02:03+03:00"},
	}
	for _, c := range cases {
		if got := c.in.String(); got != c.want {
			t.Fatalf("%+v.String() = %q, want %q", c.in, got, c.want)
		}
	}
}
