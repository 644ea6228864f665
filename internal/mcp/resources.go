// ABOUTME: MCP resource implementations for the local gym data.
// ABOUTME: Provides uplifting://gyms and uplifting://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	gymsURI    = "uplifting://gyms"
	summaryURI = "uplifting://summary"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         gymsURI,
		Name:        "Gyms",
		Description: "Every stored gym with its location and the current selection",
		MIMEType:    "application/json",
	}, s.handleGymsResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Local Data Summary",
		Description: "Counts of stored gyms, profiles, mappings and set history plus the last sync time",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleGymsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	gyms := s.app.Gyms.List(ctx)
	out := make([]gymOutput, 0, len(gyms))
	for _, g := range gyms {
		out = append(out, s.gymOutput(ctx, g))
	}
	return jsonResource(gymsURI, map[string]any{
		"gyms":  out,
		"count": len(out),
	})
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	store := s.app.Store

	history := store.PreviousSets(ctx)
	totalSets := 0
	for _, sets := range history {
		totalSets += len(sets)
	}

	result := map[string]any{
		"generated_at":  time.Now().Format(time.RFC3339),
		"authenticated": s.app.Coordinator.Authenticated(),
		"counts": map[string]int{
			"gyms":              len(store.Gyms(ctx)),
			"profiles":          len(store.Profiles(ctx)),
			"gym_profile_map":   len(store.GymProfileMap(ctx)),
			"previous_set_keys": len(history),
			"previous_sets":     totalSets,
		},
	}
	if g, ok := s.app.CurrentGym.Gym(ctx); ok {
		result["current_gym"] = map[string]string{"id": g.ID, "name": g.Name}
	}
	if last, ok := store.LastSyncTime(ctx); ok {
		result["last_sync"] = last.Format(time.RFC3339)
	}

	return jsonResource(summaryURI, result)
}
