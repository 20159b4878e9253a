package registry

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withRegistryHome redirects os.UserHomeDir's source by setting HOME
// for the duration of the test (registry.Path joins $HOME/.br/...).
func withRegistryHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return dir
}

func writeEntries(t *testing.T, home string, entries map[string]Entry) {
	t.Helper()
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".br"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".br", "instances.json"), data, 0o644))
}

// longRunningPID starts a real `sleep 30` process so alive(pid) has a
// genuine live pid to probe, and returns it alongside a cleanup that
// kills it.
func longRunningPID(t *testing.T) (int, func()) {
	t.Helper()
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	return cmd.Process.Pid, func() { cmd.Process.Kill(); cmd.Wait() }
}

func TestReadDropsDeadEntries(t *testing.T) {
	home := withRegistryHome(t)
	livePID, cleanup := longRunningPID(t)
	defer cleanup()

	writeEntries(t, home, map[string]Entry{
		"alive": {Port: 3030, PID: livePID},
		"dead":  {Port: 3031, PID: 999999}, // practically never a real live pid in a test sandbox
	})

	entries, err := Read()
	require.NoError(t, err)
	assert.Contains(t, entries, "alive")
	assert.NotContains(t, entries, "dead")

	// The rewrite must have persisted the drop.
	raw, ok := readRaw(filepath.Join(home, ".br", "instances.json"))
	require.True(t, ok)
	assert.NotContains(t, raw, "dead")
}

func TestAllocatePortMonotonicity(t *testing.T) {
	home := withRegistryHome(t)
	writeEntries(t, home, map[string]Entry{
		"a": {Port: 3030, PID: os.Getpid()},
		"b": {Port: 3031, PID: os.Getpid()},
		"c": {Port: 3033, PID: os.Getpid()},
	})

	port, err := AllocatePort("other")
	require.NoError(t, err)
	assert.Equal(t, 3032, port)
}

func TestAllocatePortEmptyRegistryPrefersDefault(t *testing.T) {
	withRegistryHome(t)
	port, err := AllocatePort("default")
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, port)
}

func TestRegisterAndUnregister(t *testing.T) {
	withRegistryHome(t)
	require.NoError(t, Register("default", 3030, os.Getpid()))

	e, ok, err := Lookup("default")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3030, e.Port)

	require.NoError(t, Unregister("default"))
	_, ok, err = Lookup("default")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMissingFileIsEmptyRegistry(t *testing.T) {
	withRegistryHome(t)
	entries, err := Read()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
