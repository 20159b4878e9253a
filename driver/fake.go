package driver

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// FakeBrowser and FakePage are in-memory test doubles implementing the
// Browser/Page interfaces without a real Chromium process. They back
// the Request Router's httptest-driven scenario tests (spec §8 S1-S6)
// so those tests don't depend on a browser binary being present.
type FakeBrowser struct {
	PagesList []*FakePage
	ClosedErr error
	Closed    bool
}

func NewFakeBrowser() *FakeBrowser {
	return &FakeBrowser{PagesList: []*FakePage{NewFakePage("about:blank")}}
}

func (b *FakeBrowser) NewPage(ctx context.Context) (Page, error) {
	p := NewFakePage("about:blank")
	b.PagesList = append(b.PagesList, p)
	return p, nil
}

func (b *FakeBrowser) Pages(ctx context.Context) ([]Page, error) {
	out := make([]Page, len(b.PagesList))
	for i, p := range b.PagesList {
		out[i] = p
	}
	return out, nil
}

func (b *FakeBrowser) PID() int { return 424242 }

func (b *FakeBrowser) Close() error {
	b.Closed = true
	return b.ClosedErr
}

// FakePage is a minimal in-memory "page": it stores an HTML body, a URL,
// and a title, and serves CSS lookups by plain substring search of the
// HTML (see cssToMarker); XPath lookups always succeed — enough to drive
// handler-level tests without a real DOM engine.
type FakePage struct {
	url     string
	title   string
	html    string
	closed  bool
	console chan<- ConsoleEvent
}

func NewFakePage(url string) *FakePage {
	return &FakePage{url: url, html: "<html><body></body></html>"}
}

func (p *FakePage) SetHTML(html string) { p.html = html }

func (p *FakePage) Goto(ctx context.Context, url string, timeout time.Duration) error {
	p.url = url
	if strings.HasPrefix(url, "data:text/html,") {
		p.html = strings.TrimPrefix(url, "data:text/html,")
	}
	return nil
}

func (p *FakePage) Back(ctx context.Context, timeout time.Duration) error    { return nil }
func (p *FakePage) Forward(ctx context.Context, timeout time.Duration) error { return nil }
func (p *FakePage) Reload(ctx context.Context, hard bool, timeout time.Duration) error {
	return nil
}
func (p *FakePage) ClearBrowserCache(ctx context.Context) error { return nil }

func (p *FakePage) URL() string   { return p.url }
func (p *FakePage) Title() string { return p.title }

func (p *FakePage) Evaluate(ctx context.Context, script string, args ...any) (any, error) {
	switch script {
	case `() => document.title`:
		return p.title, nil
	case `() => window.location.href`:
		return p.url, nil
	}
	return nil, nil
}

func (p *FakePage) ElementByCSS(ctx context.Context, css string) (Element, error) {
	if strings.Contains(p.html, cssToMarker(css)) {
		return &FakeElement{exists: true, html: p.html}, nil
	}
	return nil, fmt.Errorf("no element matching %q", css)
}

func (p *FakePage) ElementByXPath(ctx context.Context, xpath string) (Element, error) {
	return &FakeElement{exists: true, html: p.html}, nil
}

func (p *FakePage) ElementsByCSS(ctx context.Context, css string) ([]Element, error) {
	if strings.Contains(p.html, cssToMarker(css)) {
		return []Element{&FakeElement{exists: true, html: p.html}}, nil
	}
	return nil, nil
}

func (p *FakePage) WaitForSelectorVisible(ctx context.Context, css string, timeout time.Duration) error {
	_, err := p.ElementByCSS(ctx, css)
	return err
}
func (p *FakePage) WaitForLoad(ctx context.Context, timeout time.Duration) error { return nil }
func (p *FakePage) WaitStable(ctx context.Context, quiet, timeout time.Duration) error {
	return nil
}
func (p *FakePage) WaitIdle(ctx context.Context, quiet, timeout time.Duration) error { return nil }

func (p *FakePage) HTML(ctx context.Context) (string, error) { return p.html, nil }

func (p *FakePage) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}
func (p *FakePage) PDF(ctx context.Context, format string) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

func (p *FakePage) KeyPress(ctx context.Context, key string) error { return nil }
func (p *FakePage) TypeChars(ctx context.Context, text string, perCharDelay func()) error {
	if perCharDelay != nil {
		for range text {
			perCharDelay()
		}
	}
	return nil
}

func (p *FakePage) HijackRequests(blocked []ResourceBlockSpec) (HijackRouter, error) {
	return nil, nil
}

func (p *FakePage) AccessibilitySnapshot(ctx context.Context) (any, any, error) {
	return nil, nil, fmt.Errorf("fake driver does not implement accessibility snapshots")
}

func (p *FakePage) Console(ctx context.Context, out chan<- ConsoleEvent) (func(), error) {
	p.console = out
	return func() {}, nil
}

func (p *FakePage) Close() error { p.closed = true; return nil }

// Emit pushes a synthetic console event to the channel registered by
// Console, used by tests exercising console forwarding into Session State.
func (p *FakePage) Emit(e ConsoleEvent) {
	if p.console != nil {
		p.console <- e
	}
}

// FakeElement is a trivial element double: every operation succeeds,
// Text returns "", Attribute reports the attribute as absent, and Eval
// returns nil.
type FakeElement struct {
	exists bool
	html   string
}

func (e *FakeElement) Click(ctx context.Context) error          { return nil }
func (e *FakeElement) Input(ctx context.Context, text string) error { return nil }
func (e *FakeElement) ScrollIntoView(ctx context.Context) error { return nil }
func (e *FakeElement) Visible(ctx context.Context) (bool, error) { return e.exists, nil }
func (e *FakeElement) Text(ctx context.Context) (string, error) { return "", nil }
func (e *FakeElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	return "", false, nil
}
func (e *FakeElement) Eval(ctx context.Context, script string) (any, error) { return nil, nil }

// cssToMarker is a deliberately crude selector->substring mapper: it
// strips a leading "#" and returns the rest, so "#submit" matches any
// HTML containing "submit". Selectors such as "tag.class" do not match
// unless that literal text appears in the HTML.
func cssToMarker(css string) string {
	css = strings.TrimPrefix(css, "#")
	return css
}
