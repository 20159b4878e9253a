package instance

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/use-agent/br/driver"
	"github.com/use-agent/br/models"
)

// State is the single mutable bag for one instance: tabs, active tab,
// action history, console ring, secret set, and the last ID→XPath map.
// All mutation goes through its methods, which take the state's one
// mutex — per SPEC_FULL §9, these are legitimately process-wide but must
// not scatter as package-level globals.
type State struct {
	mu sync.Mutex

	tabs      []*tab
	pages     []driver.Page
	activeIdx int // -1 when tabs is empty

	history []models.ActionHistoryEntry
	console []models.ConsoleLogEntry
	secrets map[string]struct{}

	idToXPath map[int]string
}

// NewState returns an empty Session State with no tabs.
func NewState() *State {
	return &State{
		activeIdx: -1,
		secrets:   make(map[string]struct{}),
		idToXPath: make(map[int]string),
	}
}

// ErrNoActiveTab is returned by any tab-dependent operation when the tab
// list is empty, per spec §3's invariant.
var ErrNoActiveTab = fmt.Errorf("no active tab")

// AddPage appends a new tab backed by page and makes it active, per
// spec §3: "opening a new page sets it as active."
func (s *State) AddPage(p driver.Page) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabs = append(s.tabs, newTab())
	s.pages = append(s.pages, p)
	idx := len(s.tabs) - 1
	s.activeIdx = idx
	return idx
}

// ClosePage removes the tab at idx, compacting indices and reassigning
// the active tab per spec §3 ("closing a tab compacts indices").
func (s *State) ClosePage(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.tabs) {
		return fmt.Errorf("tab index out of range: %d", idx)
	}
	s.tabs = append(s.tabs[:idx], s.tabs[idx+1:]...)
	s.pages = append(s.pages[:idx], s.pages[idx+1:]...)
	switch {
	case len(s.tabs) == 0:
		s.activeIdx = -1
	case s.activeIdx >= len(s.tabs):
		s.activeIdx = len(s.tabs) - 1
	case s.activeIdx > idx:
		s.activeIdx--
	}
	return nil
}

// Tabs returns a snapshot of {index, title, url, isActive} for every
// tab, per the GET /tabs contract.
func (s *State) Tabs() []models.Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Tab, len(s.tabs))
	for i, t := range s.tabs {
		out[i] = models.Tab{Index: i, Title: t.title, URL: t.url, IsActive: i == s.activeIdx}
	}
	return out
}

// SetActiveTab implements POST /tabs/switch; out-of-range is a Bad
// input error per spec §4.6.
func (s *State) SetActiveTab(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.tabs) {
		return models.BadInput(fmt.Sprintf("tab index out of range: %d", idx))
	}
	s.activeIdx = idx
	return nil
}

// ActivePage returns the active tab's driver.Page and index, or
// ErrNoActiveTab when the tab list is empty.
func (s *State) ActivePage() (driver.Page, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeIdx < 0 {
		return nil, -1, ErrNoActiveTab
	}
	return s.pages[s.activeIdx], s.activeIdx, nil
}

// Page returns the page at idx.
func (s *State) Page(idx int) (driver.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.pages) {
		return nil, fmt.Errorf("tab index out of range: %d", idx)
	}
	return s.pages[idx], nil
}

// SetTabInfo updates the cached title/url for tab idx, used after a
// navigation completes.
func (s *State) SetTabInfo(idx int, url, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.tabs) {
		return
	}
	s.tabs[idx].url = url
	s.tabs[idx].title = title
}

// LockTab acquires the per-tab operation lock for the duration of a
// single driver interaction (SPEC_FULL §5 per-tab serialization);
// UnlockTab releases it. Both are no-ops for an out-of-range index.
func (s *State) LockTab(idx int) {
	s.mu.Lock()
	var t *tab
	if idx >= 0 && idx < len(s.tabs) {
		t = s.tabs[idx]
	}
	s.mu.Unlock()
	if t != nil {
		t.lock()
	}
}

func (s *State) UnlockTab(idx int) {
	s.mu.Lock()
	var t *tab
	if idx >= 0 && idx < len(s.tabs) {
		t = s.tabs[idx]
	}
	s.mu.Unlock()
	if t != nil {
		t.unlock()
	}
}

// AppendHistory records one completed side-effecting request, per
// spec §4.4's append_history.
func (s *State) AppendHistory(action string, args map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, models.ActionHistoryEntry{
		Action:    action,
		Args:      args,
		Timestamp: time.Now(),
	})
}

// History returns a snapshot of the action history.
func (s *State) History() []models.ActionHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ActionHistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// ClearHistory empties the action history.
func (s *State) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// PushConsole appends a console entry, dropping the oldest when the
// ring exceeds consoleRingCapacity (spec §3, testable property 5).
func (s *State) PushConsole(e models.ConsoleLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.console = append(s.console, e)
	if over := len(s.console) - consoleRingCapacity; over > 0 {
		s.console = s.console[over:]
	}
}

// ConsoleFiltered returns console entries matching the given type set
// (nil/empty means all types) and optionally clears them after reading,
// per GET /console's {type, clear} params.
func (s *State) ConsoleFiltered(types map[models.ConsoleLogType]bool, clear bool) []models.ConsoleLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ConsoleLogEntry
	var kept []models.ConsoleLogEntry
	for _, e := range s.console {
		if len(types) == 0 || types[e.Type] {
			out = append(out, e)
			if !clear {
				kept = append(kept, e)
			}
		} else {
			kept = append(kept, e)
		}
	}
	if clear {
		s.console = kept
	}
	return out
}

// DropConsoleForTab removes console entries whose TabIndex matches idx,
// per spec §3 ("cleared ... on navigation of the tab that produced it").
func (s *State) DropConsoleForTab(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.console[:0:0]
	for _, e := range s.console {
		if e.TabIndex != idx {
			kept = append(kept, e)
		}
	}
	s.console = kept
}

// ClearConsole empties the console ring.
func (s *State) ClearConsole() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.console = nil
}

// AddSecret records a value that must be masked out of any /html
// response; the set only ever grows (spec §3's monotonicity invariant).
func (s *State) AddSecret(value string) {
	if value == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[value] = struct{}{}
}

// MaskSecrets replaces every occurrence of every recorded secret in html
// with "***"; used only by the /html handler (spec §7's masking rule).
func (s *State) MaskSecrets(html string) string {
	s.mu.Lock()
	secrets := make([]string, 0, len(s.secrets))
	for v := range s.secrets {
		secrets = append(secrets, v)
	}
	s.mu.Unlock()

	out := html
	for _, v := range secrets {
		if v == "" {
			continue
		}
		out = strings.ReplaceAll(out, v, "***")
	}
	return out
}

// ReplaceIDToXPathMap overwrites the ID→XPath map produced by the most
// recent view-tree call, per spec §4.3/§4.4's replace_id_xpath_map.
func (s *State) ReplaceIDToXPathMap(m map[int]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idToXPath = m
}

// IDToXPathMap returns the current map for Selector Resolver lookups.
func (s *State) IDToXPathMap() map[int]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]string, len(s.idToXPath))
	for k, v := range s.idToXPath {
		out[k] = v
	}
	return out
}
