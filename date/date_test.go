package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNew_Normalizes(t *testing.T) {
	got := New(2025, 2, 30)
	want := New(2025, 3, 2)
	if got != want {
		t.Errorf("New(2025, 2, 30) = %v, want %v", got, want)
	}
}

func TestInZone(t *testing.T) {
	instant := time.Date(2025, 3, 10, 2, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		offset time.Duration
		want   Date
	}{
		{"utc", 0, New(2025, 3, 10)},
		{"behind utc rolls back a day", -5 * time.Hour, New(2025, 3, 9)},
		{"ahead of utc same day", 9 * time.Hour, New(2025, 3, 10)},
		{"far ahead of utc", 23 * time.Hour, New(2025, 3, 11)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InZone(instant, tt.offset); got != tt.want {
				t.Errorf("InZone(%v, %v) = %v, want %v", instant, tt.offset, got, tt.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	loc := time.FixedZone("test", -4*3600)
	got := Offset(time.Now(), loc)
	if got != -4*time.Hour {
		t.Errorf("Offset() = %v, want %v", got, -4*time.Hour)
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("2025-7-1")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.String() != "2025-07-01" {
		t.Errorf("Parse().String() = %q, want %q", d.String(), "2025-07-01")
	}

	if _, err := Parse("01/07/2025"); err == nil {
		t.Error("Parse() expected error for non ISO date")
	}
}

func TestDate_JSON(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-12-31"`), &d); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if d != New(2024, 12, 31) {
		t.Errorf("Unmarshal() = %v, want 2024-12-31", d)
	}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != `"2024-12-31"` {
		t.Errorf("Marshal() = %s, want %q", b, `"2024-12-31"`)
	}
}

func TestBeforeAfter(t *testing.T) {
	a, b := New(2025, 1, 1), New(2025, 1, 2)
	if !a.Before(b) || b.Before(a) {
		t.Error("Before() ordering is wrong")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After() ordering is wrong")
	}
	if a.Add(1) != b {
		t.Errorf("Add(1) = %v, want %v", a.Add(1), b)
	}
}
