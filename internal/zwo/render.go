package zwo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sco1/zwom/internal/models"
)

// Element names Zwift expects for each block kind. Ramp-like blocks
// (RAMP/WARMUP/COOLDOWN) resolve positionally via classifyRamp instead.
const (
	elemFreeRide    = "FreeRide"
	elemSteadyState = "SteadyState"
	elemIntervals   = "IntervalsT"
	elemWarmup      = "WarmUp"
	elemCooldown    = "Cooldown"
	elemRamp        = "Ramp"
)

// staticMetaFields are constant trailer elements Zwift expects after the
// user-supplied META fields.
var staticMetaFields = []Attr{
	{Name: "sportType", Value: "bike"},
}

// metaFieldOrder fixes the emission order of user META fields.
var metaFieldOrder = []models.Tag{
	models.TagName,
	models.TagAuthor,
	models.TagDescription,
	models.TagTags,
}

// Render builds the ZWO document for a validated block sequence. The
// sequence must have META first with repeat markers already expanded, and
// ftp must be the validator's resolved FTP (0 when none): the renderer
// relies on the validator's guarantee that bare-watt powers only appear
// when FTP is known. An empty sequence renders to a bare workout_file.
func Render(blocks models.Workout, ftp int) (*Document, error) {
	doc := &Document{Root: Element{Name: "workout_file"}}

	body := blocks
	if len(blocks) > 0 && blocks[0].Tag == models.TagMeta {
		renderMeta(&doc.Root, blocks[0])
		body = blocks[1:]
	}

	workout := Element{Name: "workout"}
	for i, blk := range body {
		elem, err := renderBlock(blk, i+1, len(body), ftp)
		if err != nil {
			return nil, err
		}
		workout.addChild(elem)
	}
	doc.Root.addChild(workout)

	return doc, nil
}

// renderMeta emits one element per META key. FTP is consumed during
// validation and never emitted. The TAGS value explodes into one child per
// hashtag token with the leading marker stripped.
func renderMeta(root *Element, meta models.Block) {
	for _, tag := range metaFieldOrder {
		val, ok := meta.Params[tag]
		if !ok {
			continue
		}

		elem := Element{Name: strings.ToLower(string(tag))}
		if tag == models.TagTags {
			for _, hashtag := range strings.Fields(val.String()) {
				child := Element{Name: "tag"}
				child.setAttr("name", strings.TrimPrefix(hashtag, "#"))
				elem.addChild(child)
			}
		} else {
			elem.Text = val.String()
		}
		root.addChild(elem)
	}

	for _, field := range staticMetaFields {
		root.addChild(Element{Name: field.Name, Text: field.Value})
	}
}

// renderBlock maps one validated block to its element. pos is the
// 1-indexed position among the body blocks that follow META; total is the
// body block count.
func renderBlock(blk models.Block, pos, total, ftp int) (Element, error) {
	var elem Element
	var err error

	switch blk.Tag {
	case models.TagFree:
		elem = Element{Name: elemFreeRide}
		setDuration(&elem, blk)
		setScalarCadence(&elem, blk)
		elem.setAttr("FlatRoad", "0")

	case models.TagSegment:
		elem = Element{Name: elemSteadyState}
		setDuration(&elem, blk)
		setScalarCadence(&elem, blk)
		power, perr := renderPower(blk.Params[models.TagPower], ftp)
		if perr != nil {
			return Element{}, perr
		}
		elem.setAttr("Power", power)
		elem.setAttr("pace", "0")

	case models.TagRamp, models.TagWarmup, models.TagCooldown:
		elem = Element{Name: classifyRamp(pos, total)}
		setDuration(&elem, blk)
		setScalarCadence(&elem, blk)
		elem.setAttr("pace", "0")
		if err = setRampPower(&elem, blk, ftp); err != nil {
			return Element{}, err
		}

	case models.TagIntervals:
		elem = Element{Name: elemIntervals}
		elem.setAttr("pace", "0")
		if err = setIntervals(&elem, blk, ftp); err != nil {
			return Element{}, err
		}

	default:
		return Element{}, fmt.Errorf("block kind %s cannot be rendered", blk.Tag)
	}

	for _, msg := range blk.Messages {
		child := Element{Name: "textevent"}
		child.setAttr("timeoffset", msg.Timestamp.String())
		child.setAttr("message", string(msg.Text))
		elem.addChild(child)
	}

	return elem, nil
}

// classifyRamp picks the Zwift element name for a ramp-like block by its
// position. Zwift has no dedicated ramp in its workout builder: a ramp at
// the very start serializes as a warmup, one at the end of a multi-block
// workout as a cooldown, and anything else as a plain ramp. A lone ramp
// block counts as the start.
func classifyRamp(pos, total int) string {
	switch {
	case pos == 1:
		return elemWarmup
	case pos == total:
		return elemCooldown
	default:
		return elemRamp
	}
}

func setDuration(elem *Element, blk models.Block) {
	elem.setAttr("Duration", blk.Params[models.TagDuration].String())
}

// setScalarCadence emits the optional scalar Cadence attribute. Intervals
// blocks carry a cadence range instead and are handled in setIntervals.
func setScalarCadence(elem *Element, blk models.Block) {
	if cadence, ok := blk.Params[models.TagCadence]; ok {
		elem.setAttr("Cadence", cadence.String())
	}
}

func setRampPower(elem *Element, blk models.Block, ftp int) error {
	low, high, err := powerRange(blk.Params[models.TagPower], ftp)
	if err != nil {
		return err
	}
	elem.setAttr("PowerLow", low)
	elem.setAttr("PowerHigh", high)
	return nil
}

func setIntervals(elem *Element, blk models.Block, ftp int) error {
	elem.setAttr("Repeat", blk.Params[models.TagRepeat].String())

	durations, ok := blk.Params[models.TagDuration].(models.Range)
	if !ok {
		return fmt.Errorf("INTERVALS DURATION must be a range, received: %s", blk.Params[models.TagDuration])
	}
	elem.setAttr("OnDuration", durations.Left.String())
	elem.setAttr("OffDuration", durations.Right.String())

	on, off, err := powerRange(blk.Params[models.TagPower], ftp)
	if err != nil {
		return err
	}
	elem.setAttr("OnPower", on)
	elem.setAttr("OffPower", off)

	if cadence, ok := blk.Params[models.TagCadence].(models.Range); ok {
		elem.setAttr("Cadence", cadence.Left.String())
		elem.setAttr("CadenceResting", cadence.Right.String())
	}
	return nil
}

// powerRange renders both endpoints of a POWER range.
func powerRange(power models.Value, ftp int) (low, high string, err error) {
	rng, ok := power.(models.Range)
	if !ok {
		return "", "", fmt.Errorf("POWER must be a range here, received: %s", power)
	}
	if low, err = renderPower(rng.Left, ftp); err != nil {
		return "", "", err
	}
	if high, err = renderPower(rng.Right, ftp); err != nil {
		return "", "", err
	}
	return low, high, nil
}

// renderPower renders one power value: percentages and zones as their
// fraction strings, bare watts as the decimal fraction of the resolved
// FTP.
func renderPower(power models.Value, ftp int) (string, error) {
	switch v := power.(type) {
	case models.Integer:
		if ftp == 0 {
			return "", fmt.Errorf("absolute watts %d require a resolved FTP", v)
		}
		return strconv.FormatFloat(float64(v)/float64(ftp), 'f', -1, 64), nil
	case models.Percentage, models.PowerZone:
		return power.String(), nil
	}
	return "", fmt.Errorf("%s is not a power value", power)
}
