// Package models holds the data shapes shared between the daemon's
// internal components and its HTTP wire format: tabs, history entries,
// console log entries, and launch options. Behavior (mutation, locking)
// lives in the instance package; these are plain data.
package models

import "time"

// Tab is a browser page within an instance. Index is the 0-based
// position in the current tab list; closing a tab compacts indices.
type Tab struct {
	Index    int    `json:"index"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	IsActive bool   `json:"isActive"`
}

// ActionHistoryEntry records one completed side-effecting request.
// Selectors are kept in their original agent-supplied form so the
// history can be replayed.
type ActionHistoryEntry struct {
	Action    string         `json:"action"`
	Args      map[string]any `json:"args"`
	Timestamp time.Time      `json:"timestamp"`
}

// ConsoleLogType enumerates the console entry kinds the driver reports.
type ConsoleLogType string

const (
	ConsoleLog       ConsoleLogType = "log"
	ConsoleWarning   ConsoleLogType = "warning"
	ConsoleError     ConsoleLogType = "error"
	ConsoleInfo      ConsoleLogType = "info"
	ConsoleDebug     ConsoleLogType = "debug"
	ConsolePageError ConsoleLogType = "pageerror"
)

// ConsoleLogEntry is one captured console/exception event.
type ConsoleLogEntry struct {
	Type      ConsoleLogType `json:"type"`
	Text      string         `json:"text"`
	Timestamp time.Time      `json:"timestamp"`
	URL       string         `json:"url"`
	TabIndex  int            `json:"tabIndex"`
}

// ConsoleRingCapacity is the bounded size of the console log ring;
// oldest entries are dropped first on overflow.
const ConsoleRingCapacity = 1000

// Viewport is the browser window size.
type Viewport struct {
	Width  int
	Height int
}

// LaunchOptions configures a newly started instance. They are set once
// at `start` time and are immutable for the instance's lifetime.
type LaunchOptions struct {
	Name             string
	Headless         bool
	Viewport         Viewport
	AdBlock          bool
	AdBlockBase      string // none|adsandtrackers|full|ads
	AdBlockLists     []string
	HumanLike        bool
}
