package models

import "testing"

// TestPercentageString verifies the fraction rendering always carries
// exactly three decimal digits.
func TestPercentageString(t *testing.T) {
	cases := []struct {
		pct  Percentage
		want string
	}{
		{65, "0.650"},
		{50, "0.500"},
		{100, "1.000"},
		{109, "1.090"},
		{150, "1.500"},
		{0, "0.000"},
	}
	for _, c := range cases {
		if got := c.pct.String(); got != c.want {
			t.Errorf("Percentage(%d).String() = %q, want %q", c.pct, got, c.want)
		}
	}
}

// TestPowerZoneString verifies each named zone renders as its mapped
// percentage's fraction.
func TestPowerZoneString(t *testing.T) {
	cases := []struct {
		zone PowerZone
		want string
	}{
		{ZoneZ1, "0.500"},
		{ZoneZ2, "0.650"},
		{ZoneZ3, "0.810"},
		{ZoneSS, "0.900"},
		{ZoneZ4, "0.950"},
		{ZoneZ5, "1.090"},
		{ZoneZ6, "1.250"},
		{ZoneZ7, "1.500"},
	}
	for _, c := range cases {
		if got := c.zone.String(); got != c.want {
			t.Errorf("%s.String() = %q, want %q", c.zone, got, c.want)
		}
	}
}

// TestDurationFromClock verifies mm:ss conversion to total seconds and the
// integer-seconds rendering.
func TestDurationFromClock(t *testing.T) {
	d := DurationFromClock(11, 6)
	if d.Seconds() != 666 {
		t.Errorf("Seconds() = %d, want 666", d.Seconds())
	}
	if got := d.String(); got != "666" {
		t.Errorf("String() = %q, want 666", got)
	}
}

// TestParseZoneUnknown verifies unknown zone literals are rejected.
func TestParseZoneUnknown(t *testing.T) {
	if _, err := ParseZone("Z8"); err == nil {
		t.Error("ParseZone(Z8) succeeded, want error")
	}
	if _, err := ParseZone("SS2"); err == nil {
		t.Error("ParseZone(SS2) succeeded, want error")
	}
}

// TestParseTag verifies keyword lookup, including the underscore keywords,
// and that the internal MESSAGES marker is not accepted as source text.
func TestParseTag(t *testing.T) {
	tag, err := ParseTag("START_REPEAT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != TagStartRepeat {
		t.Errorf("tag = %q, want START_REPEAT", tag)
	}

	if _, err := ParseTag("MESSAGES"); err == nil {
		t.Error("ParseTag(MESSAGES) succeeded, want error")
	}
	if _, err := ParseTag("BOGUS"); err == nil {
		t.Error("ParseTag(BOGUS) succeeded, want error")
	}
}
