package models

import (
	"fmt"
	"strconv"
)

// Value is a literal or composite value attached to a block parameter.
// The concrete types are Integer, Percentage, PowerZone, Duration, Range,
// and Text. Values are immutable once constructed.
type Value interface {
	fmt.Stringer
	value()
}

// Integer is a bare integer literal. In a POWER context it means absolute
// watts; elsewhere (REPEAT, CADENCE) it is a plain count.
type Integer int

func (i Integer) value()         {}
func (i Integer) String() string { return strconv.Itoa(int(i)) }

// Percentage is a percent literal stored as the integer numerator out of
// 100, e.g. "65%" is Percentage(65).
type Percentage int

func (p Percentage) value() {}

// String renders the percentage as a fraction with exactly three decimal
// digits: 65% -> "0.650".
func (p Percentage) String() string {
	return strconv.FormatFloat(float64(p)/100, 'f', 3, 64)
}

// PowerZone is a named power zone mapping to a fixed Percentage of FTP.
type PowerZone string

const (
	ZoneZ1 PowerZone = "Z1"
	ZoneZ2 PowerZone = "Z2"
	ZoneZ3 PowerZone = "Z3"
	ZoneSS PowerZone = "SS"
	ZoneZ4 PowerZone = "Z4"
	ZoneZ5 PowerZone = "Z5"
	ZoneZ6 PowerZone = "Z6"
	ZoneZ7 PowerZone = "Z7"
)

// zonePercents holds the fixed FTP percentage for each named zone.
var zonePercents = map[PowerZone]Percentage{
	ZoneZ1: 50,
	ZoneZ2: 65,
	ZoneZ3: 81,
	ZoneSS: 90,
	ZoneZ4: 95,
	ZoneZ5: 109,
	ZoneZ6: 125,
	ZoneZ7: 150,
}

// ParseZone maps a zone literal ("Z1".."Z7", "SS") to its PowerZone.
func ParseZone(s string) (PowerZone, error) {
	z := PowerZone(s)
	if _, ok := zonePercents[z]; !ok {
		return "", fmt.Errorf("unknown power zone %q", s)
	}
	return z, nil
}

// Percent returns the zone's fixed Percentage of FTP.
func (z PowerZone) Percent() Percentage { return zonePercents[z] }

func (z PowerZone) value()         {}
func (z PowerZone) String() string { return z.Percent().String() }

// Duration is a length of time in whole seconds, from a "mm:ss" literal.
type Duration int

// DurationFromClock builds a Duration from the mm:ss literal components.
func DurationFromClock(minutes, seconds int) Duration {
	return Duration(minutes*60 + seconds)
}

func (d Duration) value() {}

// Seconds returns the total seconds.
func (d Duration) Seconds() int { return int(d) }

func (d Duration) String() string { return strconv.Itoa(int(d)) }

// Range is a pair of scalar values joined by "->". Both endpoints are
// conventionally the same kind, but the grammar does not enforce it.
type Range struct {
	Left  Value
	Right Value
}

func (r Range) value()         {}
func (r Range) String() string { return r.Left.String() + " -> " + r.Right.String() }

// Text is a quoted string value with the surrounding quotes stripped and
// common leading indentation removed. Embedded newlines are preserved.
type Text string

func (t Text) value()         {}
func (t Text) String() string { return string(t) }

// Message is a timestamped rider message attached to a block.
type Message struct {
	Timestamp Duration
	Text      Text
}
