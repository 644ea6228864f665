// ABOUTME: Export and import of the local store's typed partitions.
// ABOUTME: Supports JSON and YAML formats.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexng353/uplifting/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for the local store.
type ExportData struct {
	Version       string               `json:"version" yaml:"version"`
	ExportedAt    time.Time            `json:"exported_at" yaml:"exported_at"`
	Tool          string               `json:"tool" yaml:"tool"`
	Gyms          []models.Gym         `json:"gyms" yaml:"gyms"`
	CurrentGymID  string               `json:"current_gym_id,omitempty" yaml:"current_gym_id,omitempty"`
	GymProfileMap models.GymProfileMap `json:"gym_profile_map" yaml:"gym_profile_map"`
	Profiles      []models.Profile     `json:"profiles" yaml:"profiles"`
	PreviousSets  models.PreviousSets  `json:"previous_sets" yaml:"previous_sets"`
	Settings      models.Settings      `json:"settings" yaml:"settings"`
}

// GetAllData snapshots all typed partitions for export.
func (s *Store) GetAllData(ctx context.Context) *ExportData {
	return &ExportData{
		Version:       ExportVersion,
		ExportedAt:    time.Now().UTC(),
		Tool:          "uplifting",
		Gyms:          s.Gyms(ctx),
		CurrentGymID:  s.CurrentGymID(ctx),
		GymProfileMap: s.GymProfileMap(ctx),
		Profiles:      s.Profiles(ctx),
		PreviousSets:  s.PreviousSets(ctx),
		Settings:      s.Settings(ctx),
	}
}

// ImportData overwrites the store's partitions with data.
// A current gym ID that matches no imported gym is dropped.
func (s *Store) ImportData(ctx context.Context, data *ExportData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.SetGyms(ctx, data.Gyms); err != nil {
		return fmt.Errorf("import gyms: %w", err)
	}
	if err := s.SetProfiles(ctx, data.Profiles); err != nil {
		return fmt.Errorf("import profiles: %w", err)
	}
	if err := s.SetGymProfileMap(ctx, data.GymProfileMap); err != nil {
		return fmt.Errorf("import gym profile map: %w", err)
	}
	if err := s.SetPreviousSets(ctx, data.PreviousSets); err != nil {
		return fmt.Errorf("import previous sets: %w", err)
	}
	if err := s.SetSettings(ctx, data.Settings); err != nil {
		return fmt.Errorf("import settings: %w", err)
	}

	current := data.CurrentGymID
	if _, ok := models.FindGym(data.Gyms, current); !ok {
		current = ""
	}
	if err := s.SetCurrentGymID(ctx, current); err != nil {
		return fmt.Errorf("import current gym: %w", err)
	}
	return nil
}

// ExportJSON exports all data as JSON.
func (s *Store) ExportJSON(ctx context.Context) ([]byte, error) {
	return json.MarshalIndent(s.GetAllData(ctx), "", "  ")
}

// ExportYAML exports all data as YAML.
func (s *Store) ExportYAML(ctx context.Context) ([]byte, error) {
	return yaml.Marshal(s.GetAllData(ctx))
}

// ImportJSON imports data from JSON bytes.
func (s *Store) ImportJSON(ctx context.Context, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return s.ImportData(ctx, &exportData)
}

// ImportYAML imports data from YAML bytes.
func (s *Store) ImportYAML(ctx context.Context, data []byte) error {
	var exportData ExportData
	if err := yaml.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal YAML: %w", err)
	}
	return s.ImportData(ctx, &exportData)
}
