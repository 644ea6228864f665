// ABOUTME: Tests for CLI commands executed through the root command.
// ABOUTME: Each test runs against a temporary XDG data directory with the SQLite backend.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexng353/uplifting/internal/api"
	"github.com/alexng353/uplifting/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var cliOut bytes.Buffer

// setupTestCLI points XDG directories at a temp dir and resets flag state.
// It returns the temp dir.
func setupTestCLI(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	for _, name := range []string{"UPLIFTING_BACKEND", "UPLIFTING_DATA_DIR", "UPLIFTING_SERVER", "UPLIFTING_TOKEN", "UPLIFTING_LOG_FILE"} {
		t.Setenv(name, "")
	}
	t.Setenv("UPLIFTING_LOG_LEVEL", "error")

	resetFlags(rootCmd)
	rootCmd.SetOut(&cliOut)
	rootCmd.SetErr(&cliOut)
	rootCmd.SetIn(strings.NewReader(""))
	t.Cleanup(func() {
		if application != nil {
			_ = application.Close()
			application = nil
		}
	})

	return tmpDir
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cliOut.Reset()
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return cliOut.String(), err
}

// openTestStore opens the SQLite store the CLI wrote to.
func openTestStore(t *testing.T, tmpDir string) *storage.Store {
	t.Helper()
	db, err := storage.Open(filepath.Join(tmpDir, "uplifting", "uplifting.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	s := storage.NewStore(db, nil)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRootCmd(t *testing.T) {
	if rootCmd.Use != "uplifting" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "uplifting")
	}
	if rootCmd.PersistentFlags().Lookup("backend") == nil {
		t.Error("Expected --backend persistent flag")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"gym", "bootstrap", "suggest", "profile", "nearby", "sync", "export", "import", "migrate", "mcp"}

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range want {
		if !names[name] {
			t.Errorf("Expected %q command", name)
		}
	}
}

func TestGymSubcommands(t *testing.T) {
	want := []string{"add", "current", "delete", "list", "pull", "rename", "use"}

	names := make(map[string]bool)
	for _, c := range gymCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range want {
		if !names[name] {
			t.Errorf("Expected gym %q subcommand", name)
		}
	}
}

func TestGymLifecycle(t *testing.T) {
	tmpDir := setupTestCLI(t)

	out, err := runCLI(t, "gym", "list")
	if err != nil {
		t.Fatalf("gym list failed: %v", err)
	}
	if !strings.Contains(out, "No gyms found.") {
		t.Errorf("Expected empty list, got %q", out)
	}

	out, err = runCLI(t, "gym", "add", "Iron Temple", "--lat", "49.2827", "--lon", "-123.1207")
	if err != nil {
		t.Fatalf("gym add failed: %v", err)
	}
	if !strings.Contains(out, "Added Iron Temple") || !strings.Contains(out, "saved locally") {
		t.Errorf("Unexpected add output: %q", out)
	}

	gyms := openTestStore(t, tmpDir).Gyms(context.Background())
	if len(gyms) != 1 {
		t.Fatalf("Expected 1 gym, got %d", len(gyms))
	}
	id := gyms[0].ID
	if !gyms[0].HasLocation() {
		t.Error("Expected gym location to be stored")
	}

	if _, err := runCLI(t, "gym", "use", id); err != nil {
		t.Fatalf("gym use failed: %v", err)
	}
	out, err = runCLI(t, "gym", "current")
	if err != nil {
		t.Fatalf("gym current failed: %v", err)
	}
	if !strings.Contains(out, "Iron Temple") {
		t.Errorf("Expected current gym, got %q", out)
	}

	if _, err := runCLI(t, "gym", "rename", id, "Iron Temple Downtown"); err != nil {
		t.Fatalf("gym rename failed: %v", err)
	}
	out, _ = runCLI(t, "gym", "list")
	if !strings.Contains(out, "Iron Temple Downtown") {
		t.Errorf("Expected renamed gym in list, got %q", out)
	}

	if _, err := runCLI(t, "gym", "delete", id); err != nil {
		t.Fatalf("gym delete failed: %v", err)
	}
	out, _ = runCLI(t, "gym", "current")
	if !strings.Contains(out, "No current gym.") {
		t.Errorf("Expected current gym cleared, got %q", out)
	}
}

func TestGymAddRequiresBothCoordinates(t *testing.T) {
	setupTestCLI(t)

	_, err := runCLI(t, "gym", "add", "Half", "--lat", "1")
	if err == nil || !strings.Contains(err.Error(), "together") {
		t.Errorf("Expected coordinate error, got %v", err)
	}
}

func TestGymUseUnknown(t *testing.T) {
	setupTestCLI(t)

	if _, err := runCLI(t, "gym", "use", "missing"); err == nil {
		t.Error("Expected error for unknown gym")
	}
}

func TestGymUseClear(t *testing.T) {
	setupTestCLI(t)

	out, err := runCLI(t, "gym", "use", "--clear")
	if err != nil {
		t.Fatalf("gym use --clear failed: %v", err)
	}
	if !strings.Contains(out, "Cleared current gym") {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestGymPullOffline(t *testing.T) {
	setupTestCLI(t)

	_, err := runCLI(t, "gym", "pull")
	if err == nil || !strings.Contains(err.Error(), "not authenticated") {
		t.Errorf("Expected not authenticated error, got %v", err)
	}
}

func TestSuggestSetDefaults(t *testing.T) {
	setupTestCLI(t)

	out, err := runCLI(t, "suggest", "set", "bench", "--set", "2")
	if err != nil {
		t.Fatalf("suggest set failed: %v", err)
	}
	if !strings.Contains(out, "10 reps @ 20") {
		t.Errorf("Expected default suggestion, got %q", out)
	}
}

func TestSuggestSetInvalidSide(t *testing.T) {
	setupTestCLI(t)

	if _, err := runCLI(t, "suggest", "set", "lunge", "--side", "X"); err == nil {
		t.Error("Expected error for invalid side")
	}
}

func TestProfileRecordNeedsCurrentGym(t *testing.T) {
	setupTestCLI(t)

	_, err := runCLI(t, "profile", "record", "bench", "p1")
	if err == nil || !strings.Contains(err.Error(), "no current gym") {
		t.Errorf("Expected no current gym error, got %v", err)
	}
}

func TestProfileRecordAndSuggest(t *testing.T) {
	tmpDir := setupTestCLI(t)

	if _, err := runCLI(t, "gym", "add", "Home"); err != nil {
		t.Fatalf("gym add failed: %v", err)
	}
	id := openTestStore(t, tmpDir).Gyms(context.Background())[0].ID

	if _, err := runCLI(t, "profile", "record", "bench", "p1", "--gym", id); err != nil {
		t.Fatalf("profile record failed: %v", err)
	}

	out, err := runCLI(t, "profile", "suggest", "bench", "--gym", id)
	if err != nil {
		t.Fatalf("profile suggest failed: %v", err)
	}
	if strings.TrimSpace(out) != "p1" {
		t.Errorf("Expected p1, got %q", out)
	}
}

func TestNearby(t *testing.T) {
	setupTestCLI(t)

	if _, err := runCLI(t, "gym", "add", "Downtown", "--lat", "49.2827", "--lon", "-123.1207"); err != nil {
		t.Fatalf("gym add failed: %v", err)
	}

	out, err := runCLI(t, "nearby", "--lat", "49.2830", "--lon", "-123.1210")
	if err != nil {
		t.Fatalf("nearby failed: %v", err)
	}
	if !strings.Contains(out, "Downtown") || !strings.Contains(out, "m away") {
		t.Errorf("Expected Downtown nearby, got %q", out)
	}

	out, _ = runCLI(t, "nearby", "--lat", "0", "--lon", "0")
	if !strings.Contains(out, "No gym within range.") {
		t.Errorf("Expected no gym in range, got %q", out)
	}

	if _, err := runCLI(t, "nearby"); err == nil {
		t.Error("Expected error without coordinates")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	tmpDir := setupTestCLI(t)

	if _, err := runCLI(t, "gym", "add", "Iron Temple"); err != nil {
		t.Fatalf("gym add failed: %v", err)
	}

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			file := filepath.Join(tmpDir, "backup."+format)
			if _, err := runCLI(t, "export", "--format", format, "-o", file); err != nil {
				t.Fatalf("export failed: %v", err)
			}
			if _, err := os.Stat(file); err != nil {
				t.Fatalf("Expected export file: %v", err)
			}

			if _, err := runCLI(t, "import", file); err != nil {
				t.Fatalf("import failed: %v", err)
			}
			out, _ := runCLI(t, "gym", "list")
			if !strings.Contains(out, "Iron Temple") {
				t.Errorf("Expected gym after import, got %q", out)
			}
		})
	}
}

func TestExportInvalidFormat(t *testing.T) {
	setupTestCLI(t)

	_, err := runCLI(t, "export", "--format", "markdown")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("Expected unknown format error, got %v", err)
	}
}

func TestBootstrapOffline(t *testing.T) {
	setupTestCLI(t)

	if _, err := runCLI(t, "bootstrap"); err == nil {
		t.Error("Expected error bootstrapping without a server")
	}
}

func TestBootstrapWithServer(t *testing.T) {
	tmpDir := setupTestCLI(t)

	lat, lon := 49.2827, -123.1207
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/sync/bootstrap", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(api.Bootstrap{
			Gyms: []api.Gym{{ID: "g1", Name: "Downtown", Latitude: &lat, Longitude: &lon}},
		})
	})
	mux.HandleFunc("PUT /v1/settings", func(w http.ResponseWriter, r *http.Request) {
		var body api.Settings
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(body)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Setenv("UPLIFTING_SERVER", srv.URL)
	t.Setenv("UPLIFTING_TOKEN", "secret")

	out, err := runCLI(t, "bootstrap", "--lat", "49.2828", "--lon", "-123.1208")
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if !strings.Contains(out, "Bootstrap complete") || !strings.Contains(out, "Current gym: Downtown") {
		t.Errorf("Unexpected bootstrap output: %q", out)
	}

	s := openTestStore(t, tmpDir)
	if got := s.CurrentGymID(context.Background()); got != "g1" {
		t.Errorf("Expected current gym g1, got %q", got)
	}
	if _, ok := s.LastSyncTime(context.Background()); !ok {
		t.Error("Expected last sync time")
	}
}

func TestSyncStatusOffline(t *testing.T) {
	setupTestCLI(t)

	out, err := runCLI(t, "sync", "status")
	if err != nil {
		t.Fatalf("sync status failed: %v", err)
	}
	if !strings.Contains(out, "Backend: sqlite") || !strings.Contains(out, "Offline") {
		t.Errorf("Unexpected status output: %q", out)
	}
}

func TestSyncWipeCanceled(t *testing.T) {
	setupTestCLI(t)
	rootCmd.SetIn(strings.NewReader("no\n"))

	out, err := runCLI(t, "sync", "wipe")
	if err != nil {
		t.Fatalf("sync wipe failed: %v", err)
	}
	if !strings.Contains(out, "Canceled.") {
		t.Errorf("Expected cancel, got %q", out)
	}
}

func TestMigrateSQLiteToBadger(t *testing.T) {
	tmpDir := setupTestCLI(t)

	if _, err := runCLI(t, "gym", "add", "Iron Temple"); err != nil {
		t.Fatalf("gym add failed: %v", err)
	}

	out, err := runCLI(t, "migrate", "--from", "sqlite", "--to", "badger")
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out, "Migrated sqlite → badger") {
		t.Errorf("Unexpected migrate output: %q", out)
	}

	out, err = runCLI(t, "--backend", "badger", "gym", "list")
	if err != nil {
		t.Fatalf("gym list on badger failed: %v", err)
	}
	if !strings.Contains(out, "Iron Temple") {
		t.Errorf("Expected migrated gym, got %q", out)
	}

	if _, err := runCLI(t, "migrate", "--from", "sqlite", "--to", "badger"); err == nil {
		t.Error("Expected error migrating into a non-empty destination")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "uplifting", "badger")); err != nil {
		t.Errorf("Expected badger directory: %v", err)
	}
}

func TestMigrateSameBackend(t *testing.T) {
	setupTestCLI(t)

	if _, err := runCLI(t, "migrate", "--from", "sqlite", "--to", "sqlite"); err == nil {
		t.Error("Expected error for identical backends")
	}
}
