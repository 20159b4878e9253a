// Package registry implements the named-instance directory on disk:
// $HOME/.br/instances.json, mapping instance name to {port, pid}, with
// liveness pruning and port allocation (spec §4.7).
package registry

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"syscall"
)

// Entry is one registered instance.
type Entry struct {
	Port int `json:"port"`
	PID  int `json:"pid"`
}

// DefaultPort is the port the "default" instance prefers, and the first
// candidate the port allocator scans from.
const DefaultPort = 3030

// Path returns $HOME/.br/instances.json.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("registry: resolve home dir: %w", err)
	}
	return filepath.Join(home, ".br", "instances.json"), nil
}

// Read parses the registry file, probes liveness for every entry by
// sending signal 0 to its pid, drops dead entries, and rewrites the file
// atomically if anything changed. A missing or malformed file is
// treated as an empty registry, per spec §4.7.
func Read() (map[string]Entry, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	entries, ok := readRaw(path)
	if !ok {
		return map[string]Entry{}, nil
	}

	changed := false
	for name, e := range entries {
		if !alive(e.PID) {
			delete(entries, name)
			changed = true
		}
	}
	if changed {
		if err := write(path, entries); err != nil {
			return entries, err
		}
	}
	return entries, nil
}

// readRaw loads the file without liveness pruning; ok is false for a
// missing or unparseable file (treated as empty, not an error).
func readRaw(path string) (map[string]Entry, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false
	}
	if entries == nil {
		entries = map[string]Entry{}
	}
	return entries, true
}

// Register records name → {port, pid}, read-merge-write.
func Register(name string, port, pid int) error {
	path, err := Path()
	if err != nil {
		return err
	}
	entries, _ := readRaw(path)
	if entries == nil {
		entries = map[string]Entry{}
	}
	entries[name] = Entry{Port: port, PID: pid}
	return write(path, entries)
}

// Unregister removes name, read-delete-write. Removing an absent name
// is not an error.
func Unregister(name string) error {
	path, err := Path()
	if err != nil {
		return err
	}
	entries, ok := readRaw(path)
	if !ok {
		return nil
	}
	delete(entries, name)
	return write(path, entries)
}

// Lookup returns the live entry for name, or ok=false if absent or dead.
func Lookup(name string) (Entry, bool, error) {
	entries, err := Read()
	if err != nil {
		return Entry{}, false, err
	}
	e, ok := entries[name]
	return e, ok, nil
}

// AllocatePort scans the registry for used ports and returns the lowest
// free integer >= DefaultPort that also passes a bind probe. The default
// instance name prefers DefaultPort specifically when free.
func AllocatePort(forName string) (int, error) {
	entries, err := Read()
	if err != nil {
		return 0, err
	}

	used := make(map[int]bool, len(entries))
	for _, e := range entries {
		used[e.Port] = true
	}

	if forName == "default" && !used[DefaultPort] && bindable(DefaultPort) {
		return DefaultPort, nil
	}

	ports := make([]int, 0, len(used))
	for p := range used {
		ports = append(ports, p)
	}
	sort.Ints(ports)

	candidate := DefaultPort
	for _, p := range ports {
		if p < candidate {
			continue
		}
		if p == candidate {
			candidate++
		}
	}
	for !bindable(candidate) {
		candidate++
	}
	return candidate, nil
}

// write serializes entries to path via a temp file + atomic rename, so
// a reader never observes a torn write (spec §4.7's concurrency policy).
func write(path string, entries map[string]Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("registry: create dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("registry: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".instances-*.json.tmp")
	if err != nil {
		return fmt.Errorf("registry: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("registry: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("registry: close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("registry: rename temp file: %w", err)
	}
	return nil
}

// alive reports whether pid is a live process, via signal 0 (spec
// §4.7's kill(pid, 0) liveness probe).
func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// bindable reports whether port can currently be bound on loopback.
func bindable(port int) bool {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return false
	}
	ln.Close()
	return true
}
