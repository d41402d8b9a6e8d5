package models

import "fmt"

// Tag is a recognized ZWOM keyword: either a block kind (META, FREE, ...)
// or a parameter key within a block (DURATION, POWER, ...).
type Tag string

const (
	// Block kinds.
	TagMeta        Tag = "META"
	TagFree        Tag = "FREE"
	TagSegment     Tag = "SEGMENT"
	TagRamp        Tag = "RAMP"
	TagWarmup      Tag = "WARMUP"
	TagCooldown    Tag = "COOLDOWN"
	TagIntervals   Tag = "INTERVALS"
	TagStartRepeat Tag = "START_REPEAT"
	TagEndRepeat   Tag = "END_REPEAT"

	// Parameter keys.
	TagName        Tag = "NAME"
	TagAuthor      Tag = "AUTHOR"
	TagDescription Tag = "DESCRIPTION"
	TagFTP         Tag = "FTP"
	TagTags        Tag = "TAGS"
	TagDuration    Tag = "DURATION"
	TagPower       Tag = "POWER"
	TagCadence     Tag = "CADENCE"
	TagRepeat      Tag = "REPEAT"

	// TagMessages marks a block's message list during housekeeping. It is
	// never a valid keyword in a ZWOM file.
	TagMessages Tag = "MESSAGES"
)

var knownTags = map[Tag]bool{
	TagMeta:        true,
	TagFree:        true,
	TagSegment:     true,
	TagRamp:        true,
	TagWarmup:      true,
	TagCooldown:    true,
	TagIntervals:   true,
	TagStartRepeat: true,
	TagEndRepeat:   true,
	TagName:        true,
	TagAuthor:      true,
	TagDescription: true,
	TagFTP:         true,
	TagTags:        true,
	TagDuration:    true,
	TagPower:       true,
	TagCadence:     true,
	TagRepeat:      true,
}

// ParseTag maps a source keyword to its Tag. Keywords are case-sensitive,
// upper-case with underscores. MESSAGES is internal-only and rejected here.
func ParseTag(s string) (Tag, error) {
	t := Tag(s)
	if !knownTags[t] {
		return "", fmt.Errorf("unknown tag %q", s)
	}
	return t, nil
}
