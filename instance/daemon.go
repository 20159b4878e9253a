package instance

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/use-agent/br/driver"
	"github.com/use-agent/br/models"
)

// Daemon is the Supervisor (spec §4.8): it owns the persistent browser
// context, wires console/exception listeners onto every tab it opens,
// and tracks the shutting-down flag that governs the exit code on
// browser disconnect.
type Daemon struct {
	State *State

	browser driver.Browser
	opts    models.LaunchOptions

	blockedResources []driver.ResourceBlockSpec

	shuttingDown atomic.Bool

	wg sync.WaitGroup
}

// ResourceSpecsForAdBlockLevel maps the `--adblock-base` level to the
// set of resource types HijackRequests should block: "none" disables
// blocking entirely, "adsandtrackers" blocks the request types ad
// networks rely on most, "ads"/"full" widen the set to the heavier
// asset types as well (spec §9's ad-blocker expansion).
func ResourceSpecsForAdBlockLevel(level string) []driver.ResourceBlockSpec {
	switch level {
	case "adsandtrackers":
		return []driver.ResourceBlockSpec{"Image", "Script"}
	case "ads":
		return []driver.ResourceBlockSpec{"Image", "Script", "Media"}
	case "full":
		return []driver.ResourceBlockSpec{"Image", "Script", "Media", "Stylesheet", "Font"}
	default:
		return nil
	}
}

// NewDaemon launches the persistent Chromium context, opens the initial
// tab, and attaches its listeners. userDataDir is the per-instance
// profile directory.
func NewDaemon(userDataDir string, opts models.LaunchOptions, blocked []driver.ResourceBlockSpec) (*Daemon, error) {
	browser, err := driver.LaunchPersistentContext(userDataDir, opts.Headless, opts.Viewport, opts.HumanLike)
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		State:            NewState(),
		browser:          browser,
		opts:             opts,
		blockedResources: blocked,
	}

	ctx := context.Background()
	page, err := browser.NewPage(ctx)
	if err != nil {
		browser.Close()
		return nil, err
	}
	d.State.AddPage(page)
	d.attachPage(page, 0)

	slog.Info("instance started",
		"name", opts.Name,
		"headless", opts.Headless,
		"humanlike", opts.HumanLike,
		"adblock", opts.AdBlock,
	)

	return d, nil
}

// attachPage wires console/exception forwarding and the ad-blocker
// hijack router onto one tab, per spec §4.8's "page opened" hook.
func (d *Daemon) attachPage(page driver.Page, tabIdx int) {
	if d.opts.AdBlock && len(d.blockedResources) > 0 {
		if _, err := page.HijackRequests(d.blockedResources); err != nil {
			slog.Warn("ad-block hijack failed", "tab", tabIdx, "error", err)
		}
	}

	events := make(chan driver.ConsoleEvent, 64)
	stop, err := page.Console(context.Background(), events)
	if err != nil {
		slog.Warn("console listener failed", "tab", tabIdx, "error", err)
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer stop()
		for ev := range events {
			d.State.PushConsole(models.ConsoleLogEntry{
				Type:     classifyConsoleEvent(ev.Type),
				Text:     ev.Text,
				URL:      ev.URL,
				TabIndex: tabIdx,
			})
		}
	}()
}

func classifyConsoleEvent(t string) models.ConsoleLogType {
	switch t {
	case "warning":
		return models.ConsoleWarning
	case "error":
		return models.ConsoleError
	case "info":
		return models.ConsoleInfo
	case "debug":
		return models.ConsoleDebug
	case "pageerror":
		return models.ConsolePageError
	default:
		return models.ConsoleLog
	}
}

// OpenTab opens a new tab, registers it in Session State, and attaches
// listeners. Returns the new tab's index.
func (d *Daemon) OpenTab(ctx context.Context) (int, error) {
	page, err := d.browser.NewPage(ctx)
	if err != nil {
		return 0, err
	}
	idx := d.State.AddPage(page)
	d.attachPage(page, idx)
	return idx, nil
}

// ShuttingDown reports whether Shutdown has been called, distinguishing
// a requested teardown from an unexpected browser disconnect (spec
// §4.8's exit-code rule).
func (d *Daemon) ShuttingDown() bool { return d.shuttingDown.Load() }

// PID returns the underlying Chromium process id for registry bookkeeping.
func (d *Daemon) PID() int { return d.browser.PID() }

// Shutdown marks the daemon as intentionally stopping and closes the
// browser context. Console-listener goroutines are left to exit on
// their own as the underlying CDP connection drops; the process exits
// shortly after this returns, so nothing further waits on them.
func (d *Daemon) Shutdown() error {
	d.shuttingDown.Store(true)
	return d.browser.Close()
}

// ExitCodeOnBrowserGone implements spec §4.8's "my browser went away, so
// did I" rule: a disconnect always exits 0, whether requested via
// Shutdown or not; an unrequested one is logged first so the operator
// can tell the two apart in the logs.
func (d *Daemon) ExitCodeOnBrowserGone() int {
	if !d.shuttingDown.Load() {
		slog.Error("browser disconnected unexpectedly")
	}
	return 0
}

// SwallowBrokenPipe matches spec §4.8's "uncaught EPIPE on stdout is
// swallowed silently": stdout writes after the reader goes away return
// EPIPE on Unix, which callers treat as a no-op rather than a fatal error.
func SwallowBrokenPipe(err error) bool {
	return err != nil && errors.Is(err, syscall.EPIPE)
}
