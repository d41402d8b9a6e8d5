package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sco1/zwom/internal/models"
)

// zoneOrder lists the named power zones from easiest to hardest.
var zoneOrder = []models.PowerZone{
	models.ZoneZ1,
	models.ZoneZ2,
	models.ZoneZ3,
	models.ZoneSS,
	models.ZoneZ4,
	models.ZoneZ5,
	models.ZoneZ6,
	models.ZoneZ7,
}

func (h *handlers) powerZones(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	type zoneEntry struct {
		Zone     string `json:"zone"`
		Percent  int    `json:"percent_ftp"`
		Fraction string `json:"fraction"`
	}

	zones := make([]zoneEntry, 0, len(zoneOrder))
	for _, z := range zoneOrder {
		zones = append(zones, zoneEntry{
			Zone:     string(z),
			Percent:  int(z.Percent()),
			Fraction: z.String(),
		})
	}

	data, err := json.Marshal(zones)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
