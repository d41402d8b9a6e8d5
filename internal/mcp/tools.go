package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sco1/zwom/internal/convert"
	"github.com/sco1/zwom/internal/ingest/zwom"
	"github.com/sco1/zwom/internal/interp"
	"github.com/sco1/zwom/internal/models"
)

// --- Tool definitions ---

var toolConvertWorkout = mcp.NewTool("convert_workout",
	mcp.WithDescription("Convert ZWOM workout source to a Zwift ZWO XML document. Fails with the parser or validator message if the source violates the language rules."),
	mcp.WithString("zwom", mcp.Required(), mcp.Description("The ZWOM workout source text")),
)

var toolCheckWorkout = mcp.NewTool("check_workout",
	mcp.WithDescription("Check ZWOM workout source for syntax and validation errors without producing a document. Returns the block count and resolved FTP when valid."),
	mcp.WithString("zwom", mcp.Required(), mcp.Description("The ZWOM workout source text")),
)

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List stored workouts from the library, newest first. Returns metadata only."),
	mcp.WithString("name", mcp.Description("Filter by workout name (case-insensitive substring match)")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Fetch one stored workout by id. Returns the rendered ZWO document by default."),
	mcp.WithString("id", mcp.Required(), mcp.Description("The workout's UUID")),
	mcp.WithString("format", mcp.Description("Which body to return. Defaults to 'zwo'."), mcp.Enum("zwo", "zwom")),
)

// --- Tool handlers ---

func (h *handlers) convertWorkout(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := req.RequireString("zwom")
	if err != nil {
		return mcp.NewToolResultError("zwom parameter is required"), nil
	}

	doc, err := convert.Convert(src)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(doc)), nil
}

func (h *handlers) checkWorkout(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := req.RequireString("zwom")
	if err != nil {
		return mcp.NewToolResultError("zwom parameter is required"), nil
	}

	report := map[string]any{"valid": true}

	var blocks models.Workout
	var ftp int
	raw, err := zwom.Parse(src)
	if err == nil {
		blocks, ftp, err = interp.Validate(raw)
	}
	if err != nil {
		report["valid"] = false
		report["error"] = err.Error()
	} else {
		n := len(blocks)
		if n > 0 && blocks[0].Tag == models.TagMeta {
			n--
		}
		report["blocks"] = n
		if ftp != 0 {
			report["ftp"] = ftp
		}
	}

	result, err := mcp.NewToolResultJSON(report)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.ds == nil {
		return mcp.NewToolResultError("no workout library configured"), nil
	}

	workouts, err := h.ds.ListWorkouts(ctx, req.GetString("name", ""))
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	type meta struct {
		ID        uuid.UUID `json:"id"`
		Name      string    `json:"name"`
		Author    string    `json:"author"`
		FTP       *int      `json:"ftp,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}
	out := make([]meta, 0, len(workouts))
	for _, w := range workouts {
		out = append(out, meta{ID: w.ID, Name: w.Name, Author: w.Author, FTP: w.FTP, CreatedAt: w.CreatedAt})
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.ds == nil {
		return mcp.NewToolResultError("no workout library configured"), nil
	}

	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid workout id: " + err.Error()), nil
	}

	workout, err := h.ds.GetWorkout(ctx, id)
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if req.GetString("format", "zwo") == "zwom" {
		return mcp.NewToolResultText(workout.ZWOM), nil
	}
	return mcp.NewToolResultText(workout.ZWO), nil
}
