package schedule

import (
	"reflect"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestIsDueOn_DailyAlwaysDue(t *testing.T) {
	r := Daily{Times: []string{"08:00"}}
	for _, day := range []string{"2025-03-01", "2025-03-02", "2025-12-31"} {
		if !IsDueOn(r, mustDate(t, day)) {
			t.Errorf("daily should be due on %s", day)
		}
	}
}

func TestIsDueOn_Weekly(t *testing.T) {
	r := Weekly{DaysOfWeek: []int{1, 3, 5}, Time: "08:00"}

	// 2025-03-03 es lunes
	monday := mustDate(t, "2025-03-03")
	if !IsDueOn(r, monday) {
		t.Error("expected due on Monday")
	}
	if IsDueOn(r, monday.AddDate(0, 0, 1)) {
		t.Error("expected not due on Tuesday")
	}
	if !IsDueOn(r, monday.AddDate(0, 0, 2)) {
		t.Error("expected due on Wednesday")
	}
	// domingo=7 nunca coincide con [1,3,5]
	if IsDueOn(r, monday.AddDate(0, 0, 6)) {
		t.Error("expected not due on Sunday")
	}
}

func TestIsDueOn_AlternateDays(t *testing.T) {
	r := AlternateDays{EveryDays: 2, Time: "09:00", AnchorDate: "2025-03-01"}

	cases := map[string]bool{
		"2025-03-01": true,  // día 0
		"2025-03-02": false,
		"2025-03-03": true,
		"2025-03-05": true,
		"2025-03-06": false,
		"2025-02-27": true,  // la progresión también corre hacia atrás
		"2025-02-28": false,
	}
	for day, want := range cases {
		if got := IsDueOn(r, mustDate(t, day)); got != want {
			t.Errorf("IsDueOn(%s) = %v, want %v", day, got, want)
		}
	}
}

func TestDueTimesOn_IntervalEnumeratesDay(t *testing.T) {
	r := Interval{EveryHours: 8, Anchor: "06:00"}

	got := DueTimesOn(r, mustDate(t, "2025-03-01"))
	want := []string{"06:00", "14:00", "22:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DueTimesOn = %#v, want %#v", got, want)
	}
}

func TestDueTimesOn_IntervalNeverCrossesMidnight(t *testing.T) {
	r := Interval{EveryHours: 10, Anchor: "08:00"}

	got := DueTimesOn(r, mustDate(t, "2025-03-01"))
	// 08:00 y 18:00; 28:00 quedaría fuera del día
	want := []string{"08:00", "18:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DueTimesOn = %#v, want %#v", got, want)
	}
}

func TestDueTimesOn_EmptyWhenNotDue(t *testing.T) {
	r := Weekly{DaysOfWeek: []int{1}, Time: "08:00"}

	// 2025-03-04 es martes
	got := DueTimesOn(r, mustDate(t, "2025-03-04"))
	if len(got) != 0 {
		t.Fatalf("expected no times, got %#v", got)
	}
}

func TestEvaluateDue(t *testing.T) {
	r := Daily{Times: []string{"20:00", "08:00"}}

	res := EvaluateDue(r, mustDate(t, "2025-03-01"))
	if !res.Due {
		t.Fatal("expected due")
	}
	if !reflect.DeepEqual(res.Times, []string{"08:00", "20:00"}) {
		t.Fatalf("expected sorted times, got %#v", res.Times)
	}
}

func TestDueInstant(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	got, err := DueInstant(mustDate(t, "2025-03-01"), "08:30", loc)
	if err != nil {
		t.Fatalf("DueInstant error: %v", err)
	}

	want := time.Date(2025, 3, 1, 8, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("DueInstant = %v, want %v", got, want)
	}
}

func TestIsoWeekday(t *testing.T) {
	// 2025-03-02 es domingo
	if wd := isoWeekday(mustDate(t, "2025-03-02")); wd != 7 {
		t.Fatalf("expected Sunday=7, got %d", wd)
	}
	if wd := isoWeekday(mustDate(t, "2025-03-03")); wd != 1 {
		t.Fatalf("expected Monday=1, got %d", wd)
	}
}
