package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sco1/zwom/internal/storage"
)

// fakeLibrary is an in-memory DataSource for tool handler tests.
type fakeLibrary struct {
	workouts map[uuid.UUID]storage.Workout
}

func (f *fakeLibrary) ListWorkouts(_ context.Context, name string) ([]storage.Workout, error) {
	var out []storage.Workout
	for _, w := range f.workouts {
		if name == "" || strings.Contains(strings.ToLower(w.Name), strings.ToLower(name)) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeLibrary) GetWorkout(_ context.Context, id uuid.UUID) (*storage.Workout, error) {
	w, ok := f.workouts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &w, nil
}

func testHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestConvertWorkoutTool verifies the conversion tool returns the rendered
// document for a valid source.
func TestConvertWorkoutTool(t *testing.T) {
	h := testHandlers(nil)
	req := toolRequest(map[string]any{
		"zwom": `META {NAME "Foo", AUTHOR "sco1", DESCRIPTION "d"}` + "\nFREE {DURATION 11:06}\n",
	})

	res, err := h.convertWorkout(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool errored: %s", resultText(t, res))
	}
	if text := resultText(t, res); !strings.Contains(text, `<FreeRide Duration="666"`) {
		t.Errorf("result missing FreeRide element:\n%s", text)
	}
}

// TestConvertWorkoutToolInvalid verifies language violations surface as
// tool errors carrying the pipeline message.
func TestConvertWorkoutToolInvalid(t *testing.T) {
	h := testHandlers(nil)
	req := toolRequest(map[string]any{"zwom": "FREE {POWER 165}"})

	res, err := h.convertWorkout(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("tool succeeded, want error result")
	}
}

// TestCheckWorkoutTool verifies the check tool reports block count and
// resolved FTP for valid sources.
func TestCheckWorkoutTool(t *testing.T) {
	h := testHandlers(nil)
	src := `META {NAME "a", AUTHOR "b", DESCRIPTION "c", FTP 275}
START_REPEAT {REPEAT 2}
SEGMENT {DURATION 00:30, POWER 65%}
END_REPEAT {}
`
	res, err := h.checkWorkout(context.Background(), toolRequest(map[string]any{"zwom": src}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var report struct {
		Valid  bool   `json:"valid"`
		Blocks int    `json:"blocks"`
		FTP    int    `json:"ftp"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if !report.Valid {
		t.Fatalf("valid = false, error: %s", report.Error)
	}
	if report.Blocks != 2 {
		t.Errorf("blocks = %d, want 2 (expanded repeat)", report.Blocks)
	}
	if report.FTP != 275 {
		t.Errorf("ftp = %d, want 275", report.FTP)
	}
}

// TestCheckWorkoutToolInvalid verifies the check tool reports violations
// without erroring the call.
func TestCheckWorkoutToolInvalid(t *testing.T) {
	h := testHandlers(nil)
	res, err := h.checkWorkout(context.Background(), toolRequest(map[string]any{"zwom": "FREE {POWER 165}"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var report struct {
		Valid bool   `json:"valid"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if report.Valid || report.Error == "" {
		t.Errorf("report = %+v, want valid=false with a message", report)
	}
}

// TestListWorkoutsTool verifies the library listing tool.
func TestListWorkoutsTool(t *testing.T) {
	id := uuid.New()
	lib := &fakeLibrary{workouts: map[uuid.UUID]storage.Workout{
		id: {ID: id, Name: "Sweet Spot", Author: "sco1"},
	}}
	h := testHandlers(lib)

	res, err := h.listWorkouts(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool errored: %s", resultText(t, res))
	}
	if text := resultText(t, res); !strings.Contains(text, id.String()) {
		t.Errorf("result missing workout id:\n%s", text)
	}
}

// TestListWorkoutsToolNoLibrary verifies the tool degrades cleanly when no
// library is configured.
func TestListWorkoutsToolNoLibrary(t *testing.T) {
	h := testHandlers(nil)
	res, err := h.listWorkouts(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Error("tool succeeded without a library, want error result")
	}
}

// TestGetWorkoutTool verifies body selection and the id failure modes.
func TestGetWorkoutTool(t *testing.T) {
	id := uuid.New()
	lib := &fakeLibrary{workouts: map[uuid.UUID]storage.Workout{
		id: {ID: id, Name: "Foo", ZWOM: "META { ... }", ZWO: "<workout_file>\n</workout_file>\n"},
	}}
	h := testHandlers(lib)

	res, err := h.getWorkout(context.Background(), toolRequest(map[string]any{"id": id.String()}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, "<workout_file>") {
		t.Errorf("default format = %q, want the rendered document", text)
	}

	res, err = h.getWorkout(context.Background(), toolRequest(map[string]any{"id": id.String(), "format": "zwom"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, res); text != "META { ... }" {
		t.Errorf("zwom format = %q, want the source", text)
	}

	res, _ = h.getWorkout(context.Background(), toolRequest(map[string]any{"id": "not-a-uuid"}))
	if !res.IsError {
		t.Error("bad id succeeded, want error result")
	}
	res, _ = h.getWorkout(context.Background(), toolRequest(map[string]any{"id": uuid.NewString()}))
	if !res.IsError {
		t.Error("unknown id succeeded, want error result")
	}
}

// TestPowerZonesResource verifies the zone table resource lists all eight
// zones with their FTP percentages.
func TestPowerZonesResource(t *testing.T) {
	h := testHandlers(nil)
	req := mcp.ReadResourceRequest{}
	req.Params.URI = "zwom://power_zones"

	contents, err := h.powerZones(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d entries, want 1", len(contents))
	}

	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents type = %T, want TextResourceContents", contents[0])
	}

	var zones []struct {
		Zone    string `json:"zone"`
		Percent int    `json:"percent_ftp"`
	}
	if err := json.Unmarshal([]byte(text.Text), &zones); err != nil {
		t.Fatalf("decoding zones: %v", err)
	}
	if len(zones) != 8 {
		t.Fatalf("zones = %d, want 8", len(zones))
	}
	if zones[0].Zone != "Z1" || zones[0].Percent != 50 {
		t.Errorf("first zone = %+v, want Z1 at 50", zones[0])
	}
}
