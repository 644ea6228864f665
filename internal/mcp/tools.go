// ABOUTME: MCP tool implementations for gyms, profile mappings and set suggestions.
// ABOUTME: Each tool calls one App component and reports the sync state it reached.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexng353/uplifting/internal/geo"
	"github.com/alexng353/uplifting/internal/models"
	"github.com/alexng353/uplifting/internal/suggest"
	"github.com/alexng353/uplifting/internal/sync"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_gyms",
		Description: "List the gyms stored on this device",
	}, s.handleListGyms)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_gym",
		Description: "Add a gym, optionally with its location",
	}, s.handleAddGym)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "rename_gym",
		Description: "Rename a gym",
	}, s.handleRenameGym)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_gym",
		Description: "Delete a gym",
	}, s.handleDeleteGym)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "set_current_gym",
		Description: "Select the gym you are training at, or clear it with an empty id",
	}, s.handleSetCurrentGym)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "current_gym",
		Description: "Show the currently selected gym",
	}, s.handleCurrentGym)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "nearby_gym",
		Description: "Find the stored gym within 300 meters of a position",
	}, s.handleNearbyGym)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "suggest_set",
		Description: "Suggest reps and weight for a set from previous sets",
	}, s.handleSuggestSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "suggest_profile",
		Description: "Suggest the profile last used for an exercise at a gym",
	}, s.handleSuggestProfile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "record_profile",
		Description: "Remember the profile used for an exercise at a gym",
	}, s.handleRecordProfile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "bootstrap",
		Description: "Replace local gyms, profiles, mappings and set history with the server snapshot",
	}, s.handleBootstrap)
}

// Tool input/output types

type gymOutput struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Current   bool     `json:"current"`
}

type listGymsInput struct{}

type listGymsOutput struct {
	Gyms    []gymOutput `json:"gyms"`
	Message string      `json:"message,omitempty"`
}

type addGymInput struct {
	Name      string   `json:"name" jsonschema:"Name of the gym"`
	Latitude  *float64 `json:"latitude,omitempty" jsonschema:"Latitude in degrees"`
	Longitude *float64 `json:"longitude,omitempty" jsonschema:"Longitude in degrees"`
}

type mutationOutput struct {
	ID        string `json:"id"`
	State     string `json:"state"`
	RemoteErr string `json:"remote_error,omitempty"`
	Message   string `json:"message"`
}

type renameGymInput struct {
	ID   string `json:"id" jsonschema:"Gym ID"`
	Name string `json:"name" jsonschema:"New gym name"`
}

type gymIDInput struct {
	ID string `json:"id" jsonschema:"Gym ID"`
}

type currentGymInput struct{}

type currentGymOutput struct {
	Gym     *gymOutput `json:"gym,omitempty"`
	Message string     `json:"message"`
}

type positionInput struct {
	Latitude  float64 `json:"latitude" jsonschema:"Latitude in degrees"`
	Longitude float64 `json:"longitude" jsonschema:"Longitude in degrees"`
}

type nearbyOutput struct {
	Gym            *gymOutput `json:"gym,omitempty"`
	DistanceMeters float64    `json:"distance_meters,omitempty"`
	Message        string     `json:"message"`
}

type suggestSetInput struct {
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise ID"`
	ProfileID  string `json:"profile_id,omitempty" jsonschema:"Profile ID, empty for the default profile"`
	SetNumber  int    `json:"set_number,omitempty" jsonschema:"1-based set number (default 1)"`
	Side       string `json:"side,omitempty" jsonschema:"L or R for unilateral sets"`
}

type suggestProfileInput struct {
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise ID"`
	GymID      string `json:"gym_id,omitempty" jsonschema:"Gym ID, defaults to the current gym"`
}

type suggestProfileOutput struct {
	ProfileID string `json:"profile_id,omitempty"`
	GymID     string `json:"gym_id,omitempty"`
	Message   string `json:"message"`
}

type recordProfileInput struct {
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise ID"`
	ProfileID  string `json:"profile_id" jsonschema:"Profile ID"`
	GymID      string `json:"gym_id,omitempty" jsonschema:"Gym ID, defaults to the current gym"`
}

type bootstrapInput struct {
	Latitude  *float64 `json:"latitude,omitempty" jsonschema:"Device latitude for gym detection"`
	Longitude *float64 `json:"longitude,omitempty" jsonschema:"Device longitude for gym detection"`
}

type bootstrapOutput struct {
	Gyms         int    `json:"gyms"`
	Profiles     int    `json:"profiles"`
	Mappings     int    `json:"mappings"`
	PreviousSets int    `json:"previous_sets"`
	CurrentGymID string `json:"current_gym_id,omitempty"`
	Message      string `json:"message"`
}

func (s *Server) gymOutput(ctx context.Context, g models.Gym) gymOutput {
	return gymOutput{
		ID:        g.ID,
		Name:      g.Name,
		Latitude:  g.Latitude,
		Longitude: g.Longitude,
		Current:   g.ID == s.app.CurrentGym.ID(ctx),
	}
}

func newMutationOutput[L any](id string, res sync.Result[L], message string) mutationOutput {
	out := mutationOutput{ID: id, State: res.State.String(), Message: message}
	if res.RemoteErr != nil {
		out.RemoteErr = res.RemoteErr.Error()
	}
	return out
}

// Tool handlers

func (s *Server) handleListGyms(ctx context.Context, req *mcp.CallToolRequest, input listGymsInput) (*mcp.CallToolResult, listGymsOutput, error) {
	gyms := s.app.Gyms.List(ctx)
	out := listGymsOutput{Gyms: make([]gymOutput, 0, len(gyms))}
	for _, g := range gyms {
		out.Gyms = append(out.Gyms, s.gymOutput(ctx, g))
	}
	if len(gyms) == 0 {
		out.Message = "No gyms found."
	}
	return nil, out, nil
}

func (s *Server) handleAddGym(ctx context.Context, req *mcp.CallToolRequest, input addGymInput) (*mcp.CallToolResult, mutationOutput, error) {
	if input.Name == "" {
		return nil, mutationOutput{}, errors.New("gym name is required")
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return nil, mutationOutput{}, errors.New("latitude and longitude must be given together")
	}

	var coords *geo.Coordinates
	if input.Latitude != nil {
		coords = &geo.Coordinates{Latitude: *input.Latitude, Longitude: *input.Longitude}
	}

	res, err := s.app.Gyms.Add(ctx, input.Name, coords)
	if err != nil {
		return nil, mutationOutput{}, fmt.Errorf("failed to add gym: %w", err)
	}
	return nil, newMutationOutput(res.Value.ID, res, fmt.Sprintf("Added gym %s (ID: %s)", res.Value.Name, res.Value.ID)), nil
}

func (s *Server) handleRenameGym(ctx context.Context, req *mcp.CallToolRequest, input renameGymInput) (*mcp.CallToolResult, mutationOutput, error) {
	if input.Name == "" {
		return nil, mutationOutput{}, errors.New("gym name is required")
	}
	res, err := s.app.Gyms.Rename(ctx, input.ID, input.Name)
	if err != nil {
		return nil, mutationOutput{}, fmt.Errorf("failed to rename gym: %w", err)
	}
	return nil, newMutationOutput(input.ID, res, fmt.Sprintf("Renamed gym to %s", input.Name)), nil
}

func (s *Server) handleDeleteGym(ctx context.Context, req *mcp.CallToolRequest, input gymIDInput) (*mcp.CallToolResult, mutationOutput, error) {
	if _, ok := s.app.Gyms.Get(ctx, input.ID); !ok {
		return nil, mutationOutput{}, fmt.Errorf("gym not found: %s", input.ID)
	}
	res, err := s.app.Gyms.Delete(ctx, input.ID)
	if err != nil {
		return nil, mutationOutput{}, fmt.Errorf("failed to delete gym: %w", err)
	}
	return nil, newMutationOutput(input.ID, res, fmt.Sprintf("Deleted gym: %s", input.ID)), nil
}

func (s *Server) handleSetCurrentGym(ctx context.Context, req *mcp.CallToolRequest, input gymIDInput) (*mcp.CallToolResult, mutationOutput, error) {
	res, err := s.app.CurrentGym.Set(ctx, input.ID)
	if err != nil {
		return nil, mutationOutput{}, fmt.Errorf("failed to set current gym: %w", err)
	}
	msg := "Cleared current gym"
	if input.ID != "" {
		msg = fmt.Sprintf("Current gym: %s", input.ID)
	}
	return nil, newMutationOutput(input.ID, res, msg), nil
}

func (s *Server) handleCurrentGym(ctx context.Context, req *mcp.CallToolRequest, input currentGymInput) (*mcp.CallToolResult, currentGymOutput, error) {
	g, ok := s.app.CurrentGym.Gym(ctx)
	if !ok {
		return nil, currentGymOutput{Message: "No current gym."}, nil
	}
	out := s.gymOutput(ctx, g)
	return nil, currentGymOutput{Gym: &out, Message: fmt.Sprintf("Current gym: %s", g.Name)}, nil
}

func (s *Server) handleNearbyGym(ctx context.Context, req *mcp.CallToolRequest, input positionInput) (*mcp.CallToolResult, nearbyOutput, error) {
	det, ok := s.app.Detector.Nearby(ctx, geo.Coordinates{Latitude: input.Latitude, Longitude: input.Longitude})
	if !ok {
		return nil, nearbyOutput{Message: "No gym within range."}, nil
	}
	out := s.gymOutput(ctx, det.Gym)
	return nil, nearbyOutput{
		Gym:            &out,
		DistanceMeters: det.DistanceMeters,
		Message:        fmt.Sprintf("%s is %.0f m away", det.Gym.Name, det.DistanceMeters),
	}, nil
}

func (s *Server) handleSuggestSet(ctx context.Context, req *mcp.CallToolRequest, input suggestSetInput) (*mcp.CallToolResult, suggest.Suggestion, error) {
	side, err := models.ParseSide(input.Side)
	if err != nil {
		return nil, suggest.Suggestion{}, err
	}
	if input.SetNumber == 0 {
		input.SetNumber = 1
	}
	return nil, s.app.Suggestions.Suggest(ctx, input.ExerciseID, input.ProfileID, input.SetNumber, side), nil
}

func (s *Server) handleSuggestProfile(ctx context.Context, req *mcp.CallToolRequest, input suggestProfileInput) (*mcp.CallToolResult, suggestProfileOutput, error) {
	gymID := input.GymID
	if gymID == "" {
		gymID = s.app.CurrentGym.ID(ctx)
	}
	if gymID == "" {
		return nil, suggestProfileOutput{Message: "No current gym."}, nil
	}

	profileID := s.app.Mappings.SuggestedProfile(ctx, input.ExerciseID, gymID)
	if profileID == "" {
		return nil, suggestProfileOutput{GymID: gymID, Message: "No profile recorded for this gym."}, nil
	}
	return nil, suggestProfileOutput{
		ProfileID: profileID,
		GymID:     gymID,
		Message:   fmt.Sprintf("Use profile %s", profileID),
	}, nil
}

func (s *Server) handleRecordProfile(ctx context.Context, req *mcp.CallToolRequest, input recordProfileInput) (*mcp.CallToolResult, mutationOutput, error) {
	res, err := s.app.Mappings.Record(ctx, input.GymID, input.ExerciseID, input.ProfileID)
	if err != nil {
		return nil, mutationOutput{}, fmt.Errorf("failed to record profile: %w", err)
	}
	return nil, newMutationOutput(input.ProfileID, res, fmt.Sprintf("Recorded profile %s for %s", input.ProfileID, input.ExerciseID)), nil
}

func (s *Server) handleBootstrap(ctx context.Context, req *mcp.CallToolRequest, input bootstrapInput) (*mcp.CallToolResult, bootstrapOutput, error) {
	if input.Latitude != nil && input.Longitude != nil {
		s.app.SetPosition(geo.Coordinates{Latitude: *input.Latitude, Longitude: *input.Longitude})
	}

	snap, err := s.app.Bootstrap(ctx)
	if err != nil {
		return nil, bootstrapOutput{}, err
	}
	s.app.Bootstrapper.Wait()

	return nil, bootstrapOutput{
		Gyms:         len(snap.Gyms),
		Profiles:     len(snap.Profiles),
		Mappings:     len(snap.GymProfileMap),
		PreviousSets: len(snap.PreviousSets),
		CurrentGymID: s.app.CurrentGym.ID(ctx),
		Message:      fmt.Sprintf("Bootstrapped %d gyms", len(snap.Gyms)),
	}, nil
}
