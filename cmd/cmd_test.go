package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	abs := func(name string) string {
		p, err := filepath.Abs(filepath.Join("..", "data", name))
		require.NoError(t, err)
		return p
	}
	data := "data:\n" +
		"  format: csv\n" +
		"  pilots: " + abs("pilot_roster.csv") + "\n" +
		"  drones: " + abs("drone_fleet.csv") + "\n" +
		"  missions: " + abs("missions.csv") + "\n" +
		"audit:\n  backend: none\n" +
		"log:\n  level: error\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	availableOnly, activeOn = false, ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", writeConfig(t)}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPilotsAvailable(t *testing.T) {
	out, err := run(t, "pilots", "--available")
	require.NoError(t, err)
	assert.Contains(t, out, "Arjun")
	assert.Contains(t, out, "Rohit")
	assert.NotContains(t, out, "Neha")
	assert.NotContains(t, out, "Sneha")
}

func TestAssignNext(t *testing.T) {
	out, err := run(t, "assign", "next")
	require.NoError(t, err)
	assert.Contains(t, out, "Mission 'Client A' assigned successfully.")
	assert.Contains(t, out, "Arjun (P001)")
	assert.Contains(t, out, "DJI M300 (D001)")
}

func TestCheckReportsBlockers(t *testing.T) {
	out, err := run(t, "check", "PRJ002", "P001", "D003")
	require.NoError(t, err)
	assert.Contains(t, out, "Blocked:")
	assert.Contains(t, out, "Pilot Arjun lacks required skills: Inspection.")
}

func TestAssignBlocked(t *testing.T) {
	out, err := run(t, "assign", "PRJ002", "P001", "D001")
	require.Error(t, err)
	var shown shownError
	assert.ErrorAs(t, err, &shown)
	assert.Contains(t, out, "ConflictBlocked:")
	assert.Contains(t, out, "  - Pilot Arjun lacks required skills: Inspection.")
}

func TestUrgentUnknownMission(t *testing.T) {
	out, err := run(t, "urgent", "PRJ404")
	require.Error(t, err)
	assert.Contains(t, out, "NotFound:")
}

func TestCandidatesOrder(t *testing.T) {
	out, err := run(t, "candidates", "PRJ001")
	require.NoError(t, err)
	arjun, rohit := strings.Index(out, "Arjun"), strings.Index(out, "Rohit")
	require.NotEqual(t, -1, arjun)
	require.NotEqual(t, -1, rohit)
	assert.Less(t, arjun, rohit)
	assert.Contains(t, out, "Selected due to same location + skill match + certified")
}

func TestScenarioCommand(t *testing.T) {
	out, err := run(t, "scenario", filepath.Join("..", "qa", "scenarios", "testdata", "urgent_ranking.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "urgent-ranking")
	assert.Contains(t, out, "PASS")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`name: wrong
roster:
  missions: []
steps:
  - op: assign-next
expected:
  failures: 0
`), 0o600))
	out, err = run(t, "scenario", bad)
	require.ErrorIs(t, err, errScenarioFailed)
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "status: want ok")
	assert.Contains(t, out, "expected 0 failed decisions, got 1")
}

func TestMissingConfig(t *testing.T) {
	rootCmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "pilots"})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "load config")
}
