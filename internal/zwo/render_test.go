package zwo

import (
	"strings"
	"testing"

	"github.com/sco1/zwom/internal/models"
)

func metaBlock() models.Block {
	return models.Block{Tag: models.TagMeta, Params: map[models.Tag]models.Value{
		models.TagName:        models.Text("Foo"),
		models.TagAuthor:      models.Text("sco1"),
		models.TagDescription: models.Text("d"),
	}}
}

func rampBlock() models.Block {
	return models.Block{Tag: models.TagRamp, Params: map[models.Tag]models.Value{
		models.TagDuration: models.Duration(30),
		models.TagPower:    models.Range{Left: models.Percentage(25), Right: models.Percentage(50)},
	}}
}

// TestClassifyRamp verifies the purely positional element-name heuristic
// for ramp-like blocks.
func TestClassifyRamp(t *testing.T) {
	cases := []struct {
		pos, total int
		want       string
	}{
		{1, 3, elemWarmup},
		{2, 3, elemRamp},
		{3, 3, elemCooldown},
		{1, 1, elemWarmup}, // first-position check takes precedence
		{2, 2, elemCooldown},
	}
	for _, c := range cases {
		if got := classifyRamp(c.pos, c.total); got != c.want {
			t.Errorf("classifyRamp(%d, %d) = %q, want %q", c.pos, c.total, got, c.want)
		}
	}
}

// TestRenderFreeRide verifies the FREE element shape, including the
// Duration conversion pinned by the language examples (11:06 -> "666").
func TestRenderFreeRide(t *testing.T) {
	blocks := models.Workout{
		metaBlock(),
		{Tag: models.TagFree, Params: map[models.Tag]models.Value{
			models.TagDuration: models.Duration(666),
		}},
	}
	doc, err := Render(blocks, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := doc.String()
	if !strings.Contains(out, `<FreeRide Duration="666" FlatRoad="0"/>`) {
		t.Errorf("output missing FreeRide element:\n%s", out)
	}
}

// TestRenderSteadyState verifies SEGMENT rendering for percentage, zone,
// and absolute-watt powers.
func TestRenderSteadyState(t *testing.T) {
	segment := func(power models.Value) models.Workout {
		return models.Workout{metaBlock(), {Tag: models.TagSegment, Params: map[models.Tag]models.Value{
			models.TagDuration: models.Duration(30),
			models.TagPower:    power,
		}}}
	}

	cases := []struct {
		power models.Value
		ftp   int
		want  string
	}{
		{models.Percentage(65), 0, `<SteadyState Duration="30" Power="0.650" pace="0"/>`},
		{models.ZoneZ1, 0, `<SteadyState Duration="30" Power="0.500" pace="0"/>`},
		{models.Integer(165), 275, `<SteadyState Duration="30" Power="0.6" pace="0"/>`},
	}
	for _, c := range cases {
		doc, err := Render(segment(c.power), c.ftp)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(doc.String(), c.want) {
			t.Errorf("output missing %q:\n%s", c.want, doc.String())
		}
	}
}

// TestRenderWattsWithoutFTP verifies the renderer refuses bare watts with
// no resolved FTP; the validator normally rules this out upstream.
func TestRenderWattsWithoutFTP(t *testing.T) {
	blocks := models.Workout{metaBlock(), {Tag: models.TagSegment, Params: map[models.Tag]models.Value{
		models.TagDuration: models.Duration(30),
		models.TagPower:    models.Integer(165),
	}}}
	if _, err := Render(blocks, 0); err == nil {
		t.Error("Render succeeded, want FTP error")
	}
}

// TestRenderRampPositions verifies ramp-like blocks pick their element
// name from document position.
func TestRenderRampPositions(t *testing.T) {
	blocks := models.Workout{metaBlock(), rampBlock(), rampBlock(), rampBlock()}
	doc, err := Render(blocks, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := doc.String()
	for _, want := range []string{"<WarmUp ", "<Ramp ", "<Cooldown "} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, `PowerLow="0.250" PowerHigh="0.500"`) {
		t.Errorf("output missing ramp power attributes:\n%s", out)
	}
}

// TestRenderSingleRampIsWarmup verifies a lone ramp block classifies as a
// warmup, not a cooldown.
func TestRenderSingleRampIsWarmup(t *testing.T) {
	doc, err := Render(models.Workout{metaBlock(), rampBlock()}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := doc.String()
	if !strings.Contains(out, "<WarmUp ") {
		t.Errorf("output missing WarmUp:\n%s", out)
	}
	if strings.Contains(out, "<Cooldown ") {
		t.Errorf("lone ramp rendered as Cooldown:\n%s", out)
	}
}

// TestRenderIntervals verifies the IntervalsT shape: repeat count, on/off
// durations and powers, and the cadence range pair.
func TestRenderIntervals(t *testing.T) {
	blocks := models.Workout{metaBlock(), {Tag: models.TagIntervals, Params: map[models.Tag]models.Value{
		models.TagRepeat:   models.Integer(3),
		models.TagDuration: models.Range{Left: models.Duration(30), Right: models.Duration(45)},
		models.TagPower:    models.Range{Left: models.Percentage(90), Right: models.Percentage(50)},
		models.TagCadence:  models.Range{Left: models.Integer(100), Right: models.Integer(80)},
	}}}
	doc, err := Render(blocks, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<IntervalsT pace="0" Repeat="3" OnDuration="30" OffDuration="45"` +
		` OnPower="0.900" OffPower="0.500" Cadence="100" CadenceResting="80"/>`
	if !strings.Contains(doc.String(), want) {
		t.Errorf("output missing intervals element:\n%s", doc.String())
	}
}

// TestRenderIntervalsWithoutCadence verifies the cadence attributes are
// simply omitted when no cadence range is present.
func TestRenderIntervalsWithoutCadence(t *testing.T) {
	blocks := models.Workout{metaBlock(), {Tag: models.TagIntervals, Params: map[models.Tag]models.Value{
		models.TagRepeat:   models.Integer(3),
		models.TagDuration: models.Range{Left: models.Duration(30), Right: models.Duration(45)},
		models.TagPower:    models.Range{Left: models.Percentage(90), Right: models.Percentage(50)},
	}}}
	doc, err := Render(blocks, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(doc.String(), "CadenceResting") {
		t.Errorf("unexpected cadence attributes:\n%s", doc.String())
	}
}

// TestRenderDurationPowerRejected verifies a Duration smuggled into a
// power range is rejected at render time (range endpoint kinds are not
// grammatically enforced).
func TestRenderDurationPowerRejected(t *testing.T) {
	blocks := models.Workout{metaBlock(), {Tag: models.TagRamp, Params: map[models.Tag]models.Value{
		models.TagDuration: models.Duration(30),
		models.TagPower:    models.Range{Left: models.Duration(30), Right: models.Percentage(50)},
	}}}
	if _, err := Render(blocks, 0); err == nil {
		t.Error("Render succeeded, want power-kind error")
	}
}

// TestRenderMeta verifies META emission: field order, the sportType
// trailer, FTP omission, and hashtag explosion.
func TestRenderMeta(t *testing.T) {
	meta := metaBlock()
	meta.Params[models.TagFTP] = models.Integer(275)
	meta.Params[models.TagTags] = models.Text("#recovery #base")

	doc, err := Render(models.Workout{meta}, 275)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := doc.String()

	for _, want := range []string{
		"<name>Foo</name>",
		"<author>sco1</author>",
		"<description>d</description>",
		`<tag name="recovery"/>`,
		`<tag name="base"/>`,
		"<sportType>bike</sportType>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ftp") || strings.Contains(out, "275") {
		t.Errorf("FTP leaked into output:\n%s", out)
	}
	if strings.Index(out, "<name>") > strings.Index(out, "<author>") {
		t.Errorf("meta fields out of order:\n%s", out)
	}
}

// TestRenderMessages verifies textevent children carry the time offset and
// text in parse order.
func TestRenderMessages(t *testing.T) {
	blocks := models.Workout{metaBlock(), {
		Tag: models.TagFree,
		Params: map[models.Tag]models.Value{
			models.TagDuration: models.Duration(666),
		},
		Messages: []models.Message{
			{Timestamp: models.Duration(0), Text: "go!"},
			{Timestamp: models.Duration(600), Text: "almost there"},
		},
	}}
	doc, err := Render(blocks, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := doc.String()
	first := `<textevent timeoffset="0" message="go!"/>`
	second := `<textevent timeoffset="600" message="almost there"/>`
	if !strings.Contains(out, first) || !strings.Contains(out, second) {
		t.Fatalf("output missing textevents:\n%s", out)
	}
	if strings.Index(out, first) > strings.Index(out, second) {
		t.Errorf("textevents out of order:\n%s", out)
	}
}

// TestOutputFormat verifies the document has no XML prolog and is indented
// with four spaces.
func TestOutputFormat(t *testing.T) {
	blocks := models.Workout{metaBlock(), {Tag: models.TagFree, Params: map[models.Tag]models.Value{
		models.TagDuration: models.Duration(60),
	}}}
	doc, err := Render(blocks, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := doc.String()
	if strings.HasPrefix(out, "<?xml") {
		t.Errorf("output starts with an XML prolog:\n%s", out)
	}
	if !strings.HasPrefix(out, "<workout_file>\n    <name>") {
		t.Errorf("unexpected document start:\n%s", out)
	}
	if !strings.Contains(out, "\n        <FreeRide ") {
		t.Errorf("workout children not double-indented:\n%s", out)
	}
}

// TestEscaping verifies markup-significant characters in text and
// attributes are escaped.
func TestEscaping(t *testing.T) {
	meta := metaBlock()
	meta.Params[models.TagName] = models.Text(`Sweet <Spot> & Friends`)

	blocks := models.Workout{meta, {
		Tag:      models.TagFree,
		Params:   map[models.Tag]models.Value{models.TagDuration: models.Duration(60)},
		Messages: []models.Message{{Timestamp: 0, Text: `say "hi" <now>`}},
	}}
	doc, err := Render(blocks, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := doc.String()
	if !strings.Contains(out, "Sweet &lt;Spot&gt; &amp; Friends") {
		t.Errorf("text not escaped:\n%s", out)
	}
	if strings.Contains(out, `message="say "hi"`) {
		t.Errorf("attribute quotes not escaped:\n%s", out)
	}
}

// TestEscapingPreservesNewlines verifies a multi-line description carries
// its embedded newline literally rather than as a character reference.
func TestEscapingPreservesNewlines(t *testing.T) {
	meta := metaBlock()
	meta.Params[models.TagDescription] = models.Text("first\nsecond")

	doc, err := Render(models.Workout{meta}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := doc.String()
	if !strings.Contains(out, "<description>first\nsecond</description>") {
		t.Errorf("newline not preserved in description:\n%s", out)
	}
	if strings.Contains(out, "&#xA;") {
		t.Errorf("newline escaped as a character reference:\n%s", out)
	}
}
