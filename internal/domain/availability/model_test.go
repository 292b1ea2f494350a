package availability

import (
	"errors"
	"testing"

	"github.com/healthque/api/pkg/dates"
)

func intp(n int) *int { return &n }

func datep(s string) *dates.Date {
	d := dates.MustParse(s)
	return &d
}

func TestRecurringRule_AppliesTo(t *testing.T) {
	// 2025-06-02 is a Monday (weekday 1).
	r := RecurringRule{Weekday: 1}
	if !r.AppliesTo(dates.MustParse("2025-06-02")) {
		t.Error("expected rule to apply on Monday")
	}
	if r.AppliesTo(dates.MustParse("2025-06-03")) {
		t.Error("expected rule not to apply on Tuesday")
	}
	if !r.AppliesTo(dates.MustParse("2025-06-09")) {
		t.Error("expected rule to apply on the following Monday")
	}
}

func TestRangedRule_AppliesTo(t *testing.T) {
	r := RangedRule{Start: dates.MustParse("2025-06-10"), End: dates.MustParse("2025-06-12")}
	for _, s := range []string{"2025-06-10", "2025-06-11", "2025-06-12"} {
		if !r.AppliesTo(dates.MustParse(s)) {
			t.Errorf("expected rule to apply on %s", s)
		}
	}
	if r.AppliesTo(dates.MustParse("2025-06-09")) || r.AppliesTo(dates.MustParse("2025-06-13")) {
		t.Error("expected rule not to apply outside the range")
	}
}

func TestOffDay_Rule_Variants(t *testing.T) {
	recurring := &OffDay{IsRecurringWeekly: true, DayOfWeek: intp(0)}
	if _, ok := recurring.Rule().(RecurringRule); !ok {
		t.Errorf("expected RecurringRule, got %T", recurring.Rule())
	}

	// Missing end date covers only the start date.
	single := &OffDay{StartDate: dates.MustParse("2025-06-10")}
	if !single.AppliesTo(dates.MustParse("2025-06-10")) {
		t.Error("expected single-day record to apply on its start date")
	}
	if single.AppliesTo(dates.MustParse("2025-06-11")) {
		t.Error("expected single-day record not to apply the next day")
	}
}

func TestOffDay_SpansMultipleDays(t *testing.T) {
	cases := []struct {
		name string
		o    *OffDay
		want bool
	}{
		{"recurring", &OffDay{IsRecurringWeekly: true, DayOfWeek: intp(1)}, false},
		{"no end", &OffDay{StartDate: dates.MustParse("2025-06-10")}, false},
		{"one day", &OffDay{StartDate: dates.MustParse("2025-06-10"), EndDate: datep("2025-06-10")}, false},
		{"range", &OffDay{StartDate: dates.MustParse("2025-06-10"), EndDate: datep("2025-06-12")}, true},
	}
	for _, tc := range cases {
		if got := tc.o.SpansMultipleDays(); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOffDay_Validate(t *testing.T) {
	valid := func() *OffDay {
		return &OffDay{DoctorID: 1, StartDate: dates.MustParse("2025-06-10")}
	}

	o := valid()
	if err := o.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != StatusOff {
		t.Errorf("expected status to default to off, got %s", o.Status)
	}
	if o.Type != TypeScheduled {
		t.Errorf("expected type to default to scheduled, got %s", o.Type)
	}

	cases := []struct {
		name   string
		mutate func(*OffDay)
	}{
		{"missing doctor", func(o *OffDay) { o.DoctorID = 0 }},
		{"bad status", func(o *OffDay) { o.Status = "maybe" }},
		{"bad type", func(o *OffDay) { o.Type = "vacation" }},
		{"recurring without weekday", func(o *OffDay) { o.IsRecurringWeekly = true }},
		{"weekday out of range", func(o *OffDay) { o.IsRecurringWeekly = true; o.DayOfWeek = intp(7) }},
		{"negative weekday", func(o *OffDay) { o.IsRecurringWeekly = true; o.DayOfWeek = intp(-1) }},
		{"missing start", func(o *OffDay) { o.StartDate = dates.Date{} }},
		{"inverted range", func(o *OffDay) { o.EndDate = datep("2025-06-01") }},
	}
	for _, tc := range cases {
		o := valid()
		tc.mutate(o)
		err := o.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected ValidationError, got %T", tc.name, err)
		}
	}
}

func TestOffDay_Validate_ClearsIrrelevantVariantFields(t *testing.T) {
	o := &OffDay{
		DoctorID:          1,
		IsRecurringWeekly: true,
		DayOfWeek:         intp(3),
		StartDate:         dates.MustParse("2025-06-10"),
		EndDate:           datep("2025-06-12"),
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.EndDate != nil {
		t.Error("expected end_date to be cleared on recurring records")
	}

	o = &OffDay{DoctorID: 1, StartDate: dates.MustParse("2025-06-10"), DayOfWeek: intp(3)}
	if err := o.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.DayOfWeek != nil {
		t.Error("expected day_of_week to be cleared on ranged records")
	}
}
