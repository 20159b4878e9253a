// Package driver is the thin capability layer over the Chromium remote
// debugging driver (go-rod). It hides the vendor API behind small
// interfaces so the rest of the daemon — selector resolution, tree
// building, the request router — never imports rod directly and can be
// exercised against a fake in tests.
package driver

import (
	"context"
	"time"
)

// Browser owns the persistent Chromium context for one instance.
type Browser interface {
	// NewPage opens a new blank tab and returns it.
	NewPage(ctx context.Context) (Page, error)
	// Pages lists all open tabs in insertion order.
	Pages(ctx context.Context) ([]Page, error)
	// PID returns the underlying browser process id, or 0 if unknown
	// (e.g. when connected to a remote CDP endpoint).
	PID() int
	// Close releases the user-data directory and kills the browser
	// process this adapter launched.
	Close() error
}

// ResourceBlockSpec names a resource type to block via HijackRequests,
// e.g. "Image", "Stylesheet", "Font", "Media", "Script".
type ResourceBlockSpec = string

// HijackRouter is a running request-blocking router; Stop tears it down.
type HijackRouter interface {
	Stop() error
}

// Page is one browser tab.
type Page interface {
	// Goto navigates the page and returns once the configured
	// wait-until condition (DOMContentLoaded) is reached or timeout
	// elapses.
	Goto(ctx context.Context, url string, timeout time.Duration) error
	Back(ctx context.Context, timeout time.Duration) error
	Forward(ctx context.Context, timeout time.Duration) error
	Reload(ctx context.Context, hard bool, timeout time.Duration) error
	ClearBrowserCache(ctx context.Context) error

	URL() string
	Title() string

	// Evaluate runs script in the page and returns the JSON-decoded
	// result.
	Evaluate(ctx context.Context, script string, args ...any) (any, error)

	// Element classification is the Selector Resolver's job; the driver
	// only knows how to query CSS or XPath directly.
	ElementByCSS(ctx context.Context, css string) (Element, error)
	ElementByXPath(ctx context.Context, xpath string) (Element, error)
	ElementsByCSS(ctx context.Context, css string) ([]Element, error)

	WaitForSelectorVisible(ctx context.Context, css string, timeout time.Duration) error
	WaitForLoad(ctx context.Context, timeout time.Duration) error
	WaitStable(ctx context.Context, quiet time.Duration, timeout time.Duration) error
	WaitIdle(ctx context.Context, quiet time.Duration, timeout time.Duration) error

	HTML(ctx context.Context) (string, error)
	Screenshot(ctx context.Context, fullPage bool) ([]byte, error)
	PDF(ctx context.Context, format string) ([]byte, error)

	KeyPress(ctx context.Context, key string) error
	TypeChars(ctx context.Context, text string, perCharDelay func()) error

	// HijackRequests blocks the given resource types; returns nil router
	// when blocked is empty.
	HijackRequests(blocked []ResourceBlockSpec) (HijackRouter, error)

	// Tree returns the raw DOM document and accessibility tree for the
	// tree package to join. Returned as `any` to keep this interface
	// free of rod/proto types; concrete drivers document the dynamic
	// type (see tree.BuildFromSnapshot).
	AccessibilitySnapshot(ctx context.Context) (dom any, ax any, err error)

	// Console subscribes to console/exception events until ctx is
	// cancelled or Close is called on the page; events are pushed to out.
	Console(ctx context.Context, out chan<- ConsoleEvent) (stop func(), err error)

	Close() error
}

// Element is a resolved handle to a DOM element.
type Element interface {
	Click(ctx context.Context) error
	Input(ctx context.Context, text string) error
	ScrollIntoView(ctx context.Context) error
	Visible(ctx context.Context) (bool, error)
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, bool, error)
	Eval(ctx context.Context, script string) (any, error)
}

// ConsoleEvent is one console/exception event as delivered by the driver.
type ConsoleEvent struct {
	Type string
	Text string
	URL  string
}
