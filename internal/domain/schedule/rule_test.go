package schedule

import (
	"errors"
	"testing"
)

func TestParseRule_Daily(t *testing.T) {
	r, err := ParseRule([]byte(`{"kind":"daily","times":["20:00","08:00"]}`))
	if err != nil {
		t.Fatalf("ParseRule error: %v", err)
	}

	d, ok := r.(Daily)
	if !ok {
		t.Fatalf("expected Daily, got %T", r)
	}
	// los horarios quedan ordenados
	if len(d.Times) != 2 || d.Times[0] != "08:00" || d.Times[1] != "20:00" {
		t.Fatalf("expected sorted times, got %#v", d.Times)
	}
}

func TestParseRule_Interval(t *testing.T) {
	r, err := ParseRule([]byte(`{"kind":"interval","every_hours":8,"anchor":"06:00"}`))
	if err != nil {
		t.Fatalf("ParseRule error: %v", err)
	}
	if _, ok := r.(Interval); !ok {
		t.Fatalf("expected Interval, got %T", r)
	}
}

func TestParseRule_AlternateDays(t *testing.T) {
	r, err := ParseRule([]byte(`{"kind":"alternate_days","every_days":2,"time":"09:00","anchor_date":"2025-01-01"}`))
	if err != nil {
		t.Fatalf("ParseRule error: %v", err)
	}
	if _, ok := r.(AlternateDays); !ok {
		t.Fatalf("expected AlternateDays, got %T", r)
	}
}

func TestParseRule_Weekly(t *testing.T) {
	r, err := ParseRule([]byte(`{"kind":"weekly","days_of_week":[5,1,3],"time":"08:00"}`))
	if err != nil {
		t.Fatalf("ParseRule error: %v", err)
	}

	wk, ok := r.(Weekly)
	if !ok {
		t.Fatalf("expected Weekly, got %T", r)
	}
	if len(wk.DaysOfWeek) != 3 || wk.DaysOfWeek[0] != 1 || wk.DaysOfWeek[2] != 5 {
		t.Fatalf("expected sorted days, got %#v", wk.DaysOfWeek)
	}
}

func TestParseRule_RejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"unknown kind":        `{"kind":"monthly","time":"08:00"}`,
		"daily sin horarios":  `{"kind":"daily","times":[]}`,
		"daily hora inválida": `{"kind":"daily","times":["25:00"]}`,
		"daily duplicado":     `{"kind":"daily","times":["08:00","08:00"]}`,
		"interval 0 horas":    `{"kind":"interval","every_hours":0,"anchor":"06:00"}`,
		"interval 25 horas":   `{"kind":"interval","every_hours":25,"anchor":"06:00"}`,
		"alternate 0 días":    `{"kind":"alternate_days","every_days":0,"time":"09:00","anchor_date":"2025-01-01"}`,
		"alternate sin ancla": `{"kind":"alternate_days","every_days":2,"time":"09:00"}`,
		"weekly sin días":     `{"kind":"weekly","days_of_week":[],"time":"08:00"}`,
		"weekly día 8":        `{"kind":"weekly","days_of_week":[8],"time":"08:00"}`,
		"weekly día 0":        `{"kind":"weekly","days_of_week":[0],"time":"08:00"}`,
	}

	for name, raw := range cases {
		if _, err := ParseRule([]byte(raw)); !errors.Is(err, ErrInvalidRule) {
			t.Errorf("%s: expected ErrInvalidRule, got %v", name, err)
		}
	}
}

func TestParseRuleWithAnchor_DefaultsAnchorDate(t *testing.T) {
	r, err := ParseRuleWithAnchor([]byte(`{"kind":"alternate_days","every_days":3,"time":"09:00"}`), "2025-06-15")
	if err != nil {
		t.Fatalf("ParseRuleWithAnchor error: %v", err)
	}

	ad := r.(AlternateDays)
	if ad.AnchorDate != "2025-06-15" {
		t.Fatalf("expected defaulted anchor_date, got %q", ad.AnchorDate)
	}
}

func TestEncodeRule_RoundTrip(t *testing.T) {
	raw := []byte(`{"kind":"weekly","days_of_week":[1,3,5],"time":"08:00"}`)

	r, err := ParseRule(raw)
	if err != nil {
		t.Fatalf("ParseRule error: %v", err)
	}

	encoded, err := EncodeRule(r)
	if err != nil {
		t.Fatalf("EncodeRule error: %v", err)
	}

	again, err := ParseRule(encoded)
	if err != nil {
		t.Fatalf("ParseRule(encoded) error: %v", err)
	}
	if again.Kind() != KindWeekly {
		t.Fatalf("expected weekly after round trip, got %s", again.Kind())
	}
}

func TestParseClock(t *testing.T) {
	if m, err := ParseClock("08:30"); err != nil || m != 510 {
		t.Fatalf("expected 510 minutes, got %d err=%v", m, err)
	}
	for _, bad := range []string{"8:30", "08:60", "24:00", "0830", ""} {
		if _, err := ParseClock(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
