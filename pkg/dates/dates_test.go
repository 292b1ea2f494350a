package dates

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	d, err := Parse("2025-06-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year != 2025 || d.Month != time.June || d.Day != 2 {
		t.Errorf("unexpected date: %+v", d)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "2025-13-01", "02/06/2025", "2025-06-02T00:00:00Z"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestWeekday(t *testing.T) {
	// 2025-06-02 is a Monday.
	if wd := MustParse("2025-06-02").Weekday(); wd != time.Monday {
		t.Errorf("expected Monday, got %v", wd)
	}
	if wd := MustParse("2025-06-01").Weekday(); wd != time.Sunday {
		t.Errorf("expected Sunday, got %v", wd)
	}
}

func TestBeforeAfter(t *testing.T) {
	a := MustParse("2025-01-31")
	b := MustParse("2025-02-01")
	if !a.Before(b) {
		t.Error("expected a before b")
	}
	if !b.After(a) {
		t.Error("expected b after a")
	}
	if a.Before(a) || a.After(a) {
		t.Error("a date is neither before nor after itself")
	}
}

func TestAddDays(t *testing.T) {
	d := MustParse("2025-06-02").AddDays(7)
	if d.String() != "2025-06-09" {
		t.Errorf("expected 2025-06-09, got %s", d)
	}
	d = MustParse("2025-03-01").AddDays(-1)
	if d.String() != "2025-02-28" {
		t.Errorf("expected 2025-02-28, got %s", d)
	}
}

func TestRange(t *testing.T) {
	ds := Range(MustParse("2025-01-10"), MustParse("2025-01-12"))
	if len(ds) != 3 {
		t.Fatalf("expected 3 dates, got %d", len(ds))
	}
	if ds[0].String() != "2025-01-10" || ds[2].String() != "2025-01-12" {
		t.Errorf("unexpected range: %v", ds)
	}
	if Range(MustParse("2025-01-12"), MustParse("2025-01-10")) != nil {
		t.Error("inverted range should be nil")
	}
	if got := Range(MustParse("2025-01-10"), MustParse("2025-01-10")); len(got) != 1 {
		t.Errorf("single-day range should have 1 date, got %d", len(got))
	}
}

func TestMinMax(t *testing.T) {
	a, b, c := MustParse("2025-06-02"), MustParse("2025-06-01"), MustParse("2025-06-03")
	if Min(a, b, c) != b {
		t.Error("unexpected min")
	}
	if Max(a, b, c) != c {
		t.Error("unexpected max")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		From Date  `json:"from"`
		To   *Date `json:"to,omitempty"`
	}
	var p payload
	if err := json.Unmarshal([]byte(`{"from":"2025-07-01","to":"2025-07-03"}`), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.From.String() != "2025-07-01" || p.To == nil || p.To.String() != "2025-07-03" {
		t.Errorf("unexpected payload: %+v", p)
	}
	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `{"from":"2025-07-01","to":"2025-07-03"}` {
		t.Errorf("unexpected JSON: %s", out)
	}
}
