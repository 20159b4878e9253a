// Package instance implements Session State (per-daemon mutable state,
// spec §4.4) and the Supervisor lifecycle (spec §4.8).
package instance

import "github.com/use-agent/br/models"

// tab is the internal mutable record behind models.Tab; it additionally
// holds a per-tab serialization slot (SPEC_FULL §5: per-tab operations
// are serialized, cross-tab ones are not). The live driver.Page handle is
// kept alongside it in State.pages, at the same index.
type tab struct {
	url    string
	title  string
	opLock chan struct{}
}

func newTab() *tab {
	t := &tab{opLock: make(chan struct{}, 1)}
	t.opLock <- struct{}{}
	return t
}

// lock acquires the tab's operation slot; unlock releases it. Modeled as
// a buffered channel rather than sync.Mutex so a future caller could
// select on it alongside context cancellation; today it behaves as a
// plain mutex.
func (t *tab) lock()   { <-t.opLock }
func (t *tab) unlock() { t.opLock <- struct{}{} }

const consoleRingCapacity = models.ConsoleRingCapacity
