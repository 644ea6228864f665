// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON and YAML export formats round-trip into a fresh store.
package storage

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alexng353/uplifting/internal/models"
)

func seedStore(t *testing.T, s *Store) *models.Gym {
	t.Helper()
	ctx := context.Background()

	g := models.NewGym("Downtown").WithLocation(40.0, -73.0)
	if err := s.AddGym(ctx, *g); err != nil {
		t.Fatalf("AddGym failed: %v", err)
	}
	if err := s.SetCurrentGymID(ctx, g.ID); err != nil {
		t.Fatalf("SetCurrentGymID failed: %v", err)
	}
	if err := s.SetGymProfileForExercise(ctx, "bench", g.ID, "p1"); err != nil {
		t.Fatalf("SetGymProfileForExercise failed: %v", err)
	}
	if err := s.SetProfiles(ctx, []models.Profile{{ID: "p1", ExerciseID: "bench", Name: "Barbell"}}); err != nil {
		t.Fatalf("SetProfiles failed: %v", err)
	}
	return g
}

func TestExportJSON(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	g := seedStore(t, s)

	data, err := s.ExportJSON(ctx)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if export.Version != ExportVersion {
		t.Errorf("Expected version %s, got %s", ExportVersion, export.Version)
	}
	if export.Tool != "uplifting" {
		t.Errorf("Expected tool uplifting, got %s", export.Tool)
	}
	if len(export.Gyms) != 1 || export.CurrentGymID != g.ID {
		t.Errorf("Unexpected gyms export: %+v", export)
	}
}

func TestExportYAML(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	seedStore(t, s)

	data, err := s.ExportYAML(ctx)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}
	out := string(data)
	for _, want := range []string{"version:", "gyms:", "Downtown", "gym_profile_map:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected YAML to contain %q", want)
		}
	}
}

func TestImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := setupTestStore(t)
	g := seedStore(t, src)

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			dst := NewStore(setupTestDB(t), nil)

			var err error
			if format == "json" {
				data, _ := src.ExportJSON(ctx)
				err = dst.ImportJSON(ctx, data)
			} else {
				data, _ := src.ExportYAML(ctx)
				err = dst.ImportYAML(ctx, data)
			}
			if err != nil {
				t.Fatalf("Import failed: %v", err)
			}

			if dst.CurrentGymID(ctx) != g.ID {
				t.Errorf("Expected current gym %s, got %s", g.ID, dst.CurrentGymID(ctx))
			}
			if got := dst.LastProfileForExerciseAtGym(ctx, "bench", g.ID); got != "p1" {
				t.Errorf("Expected mapping p1, got %q", got)
			}
			gyms := dst.Gyms(ctx)
			if len(gyms) != 1 || !gyms[0].HasLocation() {
				t.Errorf("Expected located gym, got %v", gyms)
			}
		})
	}
}

func TestImportDropsDanglingCurrentGym(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	err := s.ImportData(ctx, &ExportData{CurrentGymID: "ghost"})
	if err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}
	if id := s.CurrentGymID(ctx); id != "" {
		t.Errorf("Expected dangling current gym dropped, got %q", id)
	}
}

func TestImportJSONInvalid(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ImportJSON(context.Background(), []byte("{")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
