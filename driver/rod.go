package driver

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/br/models"
)

// RodBrowser adapts *rod.Browser to the Browser interface.
type RodBrowser struct {
	browser *rod.Browser
	pid     int
	stealth bool
}

// LaunchPersistentContext starts (or attaches to) a Chromium instance
// with its own user-data directory, matching spec §4.1's
// launch_persistent_context capability.
func LaunchPersistentContext(userDataDir string, headless bool, viewport models.Viewport, humanLike bool) (*RodBrowser, error) {
	l := launcher.New().
		Headless(headless).
		UserDataDir(userDataDir)

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chromium: %w", err)
	}

	if err := b.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  viewport.Width,
		Height: viewport.Height,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	return &RodBrowser{browser: b, pid: l.PID(), stealth: humanLike}, nil
}

func (b *RodBrowser) NewPage(ctx context.Context) (Page, error) {
	p, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	if b.stealth {
		_, _ = p.EvalOnNewDocument(stealth.JS)
	}
	return &RodPage{page: p}, nil
}

func (b *RodBrowser) Pages(ctx context.Context) ([]Page, error) {
	pages, err := b.browser.Context(ctx).Pages()
	if err != nil {
		return nil, err
	}
	out := make([]Page, 0, len(pages))
	for _, p := range pages {
		out = append(out, &RodPage{page: p})
	}
	return out, nil
}

func (b *RodBrowser) PID() int { return b.pid }

func (b *RodBrowser) Close() error { return b.browser.Close() }

// RodPage adapts *rod.Page to the Page interface.
type RodPage struct {
	page *rod.Page
}

func (p *RodPage) bind(ctx context.Context) *rod.Page { return p.page.Context(ctx) }

func (p *RodPage) Goto(ctx context.Context, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pg := p.bind(ctx)
	wait := pg.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := pg.Navigate(url); err != nil {
		return err
	}
	wait()
	return ctx.Err()
}

func (p *RodPage) Back(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.bind(ctx).NavigateBack()
}

func (p *RodPage) Forward(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.bind(ctx).NavigateForward()
}

func (p *RodPage) Reload(ctx context.Context, hard bool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pg := p.bind(ctx)
	if !hard {
		return pg.Reload()
	}
	if err := (proto.PageReload{IgnoreCache: true}).Call(pg); err != nil {
		return err
	}
	return pg.WaitLoad()
}

func (p *RodPage) ClearBrowserCache(ctx context.Context) error {
	return (proto.NetworkClearBrowserCache{}).Call(p.bind(ctx))
}

func (p *RodPage) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *RodPage) Title() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.Title
}

func (p *RodPage) Evaluate(ctx context.Context, script string, args ...any) (any, error) {
	res, err := p.bind(ctx).Eval(script, args...)
	if err != nil {
		return nil, err
	}
	return res.Value.Val(), nil
}

func (p *RodPage) ElementByCSS(ctx context.Context, css string) (Element, error) {
	el, err := p.bind(ctx).Element(css)
	if err != nil {
		return nil, err
	}
	return &RodElement{el: el}, nil
}

func (p *RodPage) ElementByXPath(ctx context.Context, xpath string) (Element, error) {
	el, err := p.bind(ctx).ElementX(xpath)
	if err != nil {
		return nil, err
	}
	return &RodElement{el: el}, nil
}

func (p *RodPage) ElementsByCSS(ctx context.Context, css string) ([]Element, error) {
	els, err := p.bind(ctx).Elements(css)
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &RodElement{el: el})
	}
	return out, nil
}

func (p *RodPage) WaitForSelectorVisible(ctx context.Context, css string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	el, err := p.bind(ctx).Element(css)
	if err != nil {
		return err
	}
	return el.WaitVisible()
}

func (p *RodPage) WaitForLoad(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.bind(ctx).WaitLoad()
}

func (p *RodPage) WaitStable(ctx context.Context, quiet, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.bind(ctx).WaitDOMStable(quiet, 0.1)
}

func (p *RodPage) WaitIdle(ctx context.Context, quiet, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pg := p.bind(ctx)
	wait := pg.WaitRequestIdle(quiet, nil, nil, nil)
	wait()
	return nil
}

func (p *RodPage) HTML(ctx context.Context) (string, error) {
	return p.bind(ctx).HTML()
}

func (p *RodPage) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	return p.bind(ctx).Screenshot(fullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

func (p *RodPage) PDF(ctx context.Context, format string) ([]byte, error) {
	req := &proto.PagePrintToPDF{}
	applyPaperFormat(req, format)
	reader, err := p.bind(ctx).PDF(req)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}

func (p *RodPage) KeyPress(ctx context.Context, key string) error {
	k, ok := input.Keys[key]
	if !ok {
		return fmt.Errorf("unknown key: %s", key)
	}
	return p.bind(ctx).Keyboard.Press(k)
}

func (p *RodPage) TypeChars(ctx context.Context, text string, perCharDelay func()) error {
	pg := p.bind(ctx)
	if perCharDelay == nil {
		return pg.Keyboard.InsertText(text)
	}
	for _, r := range text {
		if err := pg.Keyboard.InsertText(string(r)); err != nil {
			return err
		}
		perCharDelay()
	}
	return nil
}

func (p *RodPage) HijackRequests(blocked []ResourceBlockSpec) (HijackRouter, error) {
	if len(blocked) == 0 {
		return nil, nil
	}
	set := make(map[proto.NetworkResourceType]struct{}, len(blocked))
	for _, name := range blocked {
		set[proto.NetworkResourceType(name)] = struct{}{}
	}

	router := p.page.HijackRequests()
	if err := router.Add("*", "", func(h *rod.Hijack) {
		if _, block := set[h.Request.Type()]; block {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	}); err != nil {
		return nil, err
	}
	go router.Run()
	return rodHijackRouter{router}, nil
}

type rodHijackRouter struct{ r *rod.HijackRouter }

func (h rodHijackRouter) Stop() error { return h.r.Stop() }

// AccessibilitySnapshot returns the raw CDP DOM document root and the
// flat accessibility node list; the tree package knows how to join them
// (see tree.BuildFromSnapshot).
func (p *RodPage) AccessibilitySnapshot(ctx context.Context) (any, any, error) {
	pg := p.bind(ctx)

	domRes, err := (proto.DOMGetDocument{Depth: -1, Pierce: true}).Call(pg)
	if err != nil {
		return nil, nil, fmt.Errorf("DOM.getDocument: %w", err)
	}

	axRes, err := (proto.AccessibilityGetFullAXTree{}).Call(pg)
	if err != nil {
		return nil, nil, fmt.Errorf("Accessibility.getFullAXTree: %w", err)
	}

	return domRes.Root, axRes.Nodes, nil
}

func (p *RodPage) Console(ctx context.Context, out chan<- ConsoleEvent) (func(), error) {
	pg := p.bind(ctx)
	if err := (proto.RuntimeEnable{}).Call(pg); err != nil {
		return nil, err
	}
	if err := (proto.LogEnable{}).Call(pg); err != nil {
		return nil, err
	}

	stopConsole := pg.EachEvent(func(e *proto.RuntimeConsoleAPICalled) {
		out <- ConsoleEvent{Type: string(e.Type), Text: formatConsoleArgs(e.Args), URL: p.URL()}
	}, func(e *proto.RuntimeExceptionThrown) {
		out <- ConsoleEvent{Type: "pageerror", Text: e.ExceptionDetails.Error(), URL: p.URL()}
	})
	go stopConsole()

	return func() {}, nil
}

func (p *RodPage) Close() error { return p.page.Close() }

func formatConsoleArgs(args []*proto.RuntimeRemoteObject) string {
	var s string
	for i, a := range args {
		if i > 0 {
			s += " "
		}
		if a.Value.Nil() {
			s += a.Description
		} else {
			s += a.Value.Raw
		}
	}
	return s
}

// RodElement adapts *rod.Element to the Element interface.
type RodElement struct {
	el *rod.Element
}

func (e *RodElement) Click(ctx context.Context) error {
	return e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

func (e *RodElement) Input(ctx context.Context, text string) error {
	return e.el.Context(ctx).Input(text)
}

func (e *RodElement) ScrollIntoView(ctx context.Context) error {
	return e.el.Context(ctx).ScrollIntoView()
}

func (e *RodElement) Visible(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

func (e *RodElement) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *RodElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	attr, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", false, err
	}
	if attr == nil {
		return "", false, nil
	}
	return *attr, true, nil
}

func (e *RodElement) Eval(ctx context.Context, script string) (any, error) {
	res, err := e.el.Context(ctx).Eval(script)
	if err != nil {
		return nil, err
	}
	return res.Value.Val(), nil
}

func applyPaperFormat(req *proto.PagePrintToPDF, format string) {
	// Letter is the default; A4 is the other commonly requested format.
	switch format {
	case "A4":
		req.PaperWidth = 8.27
		req.PaperHeight = 11.69
	default:
		req.PaperWidth = 8.5
		req.PaperHeight = 11
	}
}
