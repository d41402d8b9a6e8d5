// Package interp validates a parsed ZWOM workout in a single left-to-right
// scan: per-kind schema checks, FTP-dependent power rules, and expansion of
// START_REPEAT/END_REPEAT regions into concrete block sequences.
package interp

import (
	"fmt"
	"strings"

	"github.com/sco1/zwom/internal/models"
)

// ValidationError reports a workout that parsed but violates the language
// rules. The message names the offending block kind and keys or values.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func errorf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// requiredKeys is the per-kind schema for workout blocks. Kinds absent from
// this table are not valid at the top level.
var requiredKeys = map[models.Tag][]models.Tag{
	models.TagFree:        {models.TagDuration},
	models.TagSegment:     {models.TagDuration, models.TagPower},
	models.TagRamp:        {models.TagDuration, models.TagPower},
	models.TagWarmup:      {models.TagDuration, models.TagPower},
	models.TagCooldown:    {models.TagDuration, models.TagPower},
	models.TagIntervals:   {models.TagRepeat, models.TagDuration, models.TagPower},
	models.TagStartRepeat: {models.TagRepeat},
	models.TagEndRepeat:   {},
}

var metaRequiredKeys = []models.Tag{models.TagName, models.TagAuthor, models.TagDescription}

// scanState is the repeat-region state of the scan.
type scanState int

const (
	stateNormal scanState = iota
	stateInRepeat
)

// scan is the short-lived state of one validation pass. It is local to a
// single Validate call and never shared.
type scan struct {
	state   scanState
	ftp     int
	repeats int
	body    []models.Block
	out     models.Workout
}

// Validate checks the raw block sequence and returns a new, independent
// sequence with META first and all repeat regions expanded in place, plus
// the resolved FTP (0 when the META block carries none). The first rule
// violation ends the pass with a *ValidationError; the input is never
// mutated.
func Validate(raw models.Workout) (models.Workout, int, error) {
	if len(raw) == 0 {
		return models.Workout{}, 0, nil
	}
	if raw[0].Tag != models.TagMeta {
		return nil, 0, errorf("a ZWOM file must begin with a META block")
	}

	ftp, err := validateMeta(raw[0])
	if err != nil {
		return nil, 0, err
	}

	// Repeat expansion builds a fresh sequence, seeded with the META block
	// since the scan below skips it.
	s := scan{ftp: ftp, out: models.Workout{raw[0]}}
	for _, blk := range raw[1:] {
		if err := s.step(blk); err != nil {
			return nil, 0, err
		}
	}
	if s.state == stateInRepeat {
		return nil, 0, errorf("START_REPEAT is missing a matching END_REPEAT")
	}

	return s.out, s.ftp, nil
}

// step is one transition of the scan's state machine.
func (s *scan) step(blk models.Block) error {
	switch blk.Tag {
	case models.TagStartRepeat:
		if s.state == stateInRepeat {
			return errorf("nested block repetition is not supported")
		}
		if err := checkKeys(blk); err != nil {
			return err
		}
		if err := s.checkParams(blk); err != nil {
			return err
		}
		n, ok := blk.Params[models.TagRepeat].(models.Integer)
		if !ok {
			return errorf("START_REPEAT must have an integer REPEAT value")
		}
		if n == 0 {
			return errorf("REPEAT must be > 0")
		}
		s.state = stateInRepeat
		s.repeats = int(n)
		s.body = nil
		return nil

	case models.TagEndRepeat:
		if s.state != stateInRepeat {
			return errorf("END_REPEAT is missing an opening START_REPEAT block")
		}
		if err := s.checkParams(blk); err != nil {
			return err
		}
		for i := 0; i < s.repeats; i++ {
			s.out = append(s.out, s.body...)
		}
		s.state = stateNormal
		s.body = nil
		return nil

	case models.TagFree, models.TagSegment, models.TagRamp,
		models.TagWarmup, models.TagCooldown, models.TagIntervals:
		if err := checkKeys(blk); err != nil {
			return err
		}
		if err := s.checkParams(blk); err != nil {
			return err
		}
		if s.state == stateInRepeat {
			s.body = append(s.body, blk)
		} else {
			s.out = append(s.out, blk)
		}
		return nil
	}
	return errorf("unknown workout block kind: %s", blk.Tag)
}

// validateMeta checks the META block and resolves the optional FTP. FTP
// must be a positive integer; the grammar already rules out negatives.
func validateMeta(blk models.Block) (int, error) {
	if err := checkRequired(metaRequiredKeys, blk); err != nil {
		return 0, err
	}

	raw, ok := blk.Params[models.TagFTP]
	if !ok {
		return 0, nil
	}
	ftp, ok := raw.(models.Integer)
	if !ok {
		return 0, errorf("FTP must be a positive integer, received: %s", raw)
	}
	if ftp == 0 {
		return 0, errorf("FTP must be > 0, received: %d", ftp)
	}
	return int(ftp), nil
}

// checkParams applies the cross-field power and cadence rules, which hold
// for every block kind.
func (s *scan) checkParams(blk models.Block) error {
	if power, ok := blk.Params[models.TagPower]; ok {
		if err := s.checkPower(power); err != nil {
			return err
		}
	}
	if cadence, ok := blk.Params[models.TagCadence]; ok {
		if err := checkCadence(cadence, blk.Tag); err != nil {
			return err
		}
	}
	return nil
}

// checkPower enforces the absolute-watts rules: zero watts is invalid, and
// bare integer watts (scalar or either range endpoint) require a resolved
// FTP. Percentage and zone powers never do.
func (s *scan) checkPower(power models.Value) error {
	switch v := power.(type) {
	case models.Integer:
		if v == 0 {
			return errorf("power must be > 0, received: %d", v)
		}
		if s.ftp == 0 {
			return errorf("an FTP must be specified in the META block to use absolute watts")
		}
	case models.Range:
		if s.ftp == 0 {
			if isInteger(v.Left) || isInteger(v.Right) {
				return errorf("an FTP must be specified in the META block to use absolute watts")
			}
		}
	}
	return nil
}

// checkCadence enforces that cadence ranges appear only in INTERVALS blocks
// and that INTERVALS cadence, when present, is always a range.
func checkCadence(cadence models.Value, kind models.Tag) error {
	_, isRange := cadence.(models.Range)
	if isRange && kind != models.TagIntervals {
		return errorf("cadence ranges are only valid in INTERVALS blocks")
	}
	if kind == models.TagIntervals && !isRange {
		return errorf("the cadence spec for an INTERVALS block must be a range")
	}
	return nil
}

func checkKeys(blk models.Block) error {
	return checkRequired(requiredKeys[blk.Tag], blk)
}

// checkRequired reports every absent required key at once.
func checkRequired(required []models.Tag, blk models.Block) error {
	var missing []string
	for _, key := range required {
		if _, ok := blk.Params[key]; !ok {
			missing = append(missing, string(key))
		}
	}
	if len(missing) > 0 {
		return errorf("%s block missing required keys: %s", blk.Tag, strings.Join(missing, ", "))
	}
	return nil
}

func isInteger(v models.Value) bool {
	_, ok := v.(models.Integer)
	return ok
}
