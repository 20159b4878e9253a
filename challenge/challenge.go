// Package challenge implements the bot-check interstitial detector and
// the best-effort popup/modal dismisser used before screenshots, per
// spec §4.5.
package challenge

import (
	"context"
	"time"

	"github.com/use-agent/br/driver"
)

// Tag identifies which known challenge was detected.
type Tag string

const (
	None        Tag = ""
	Cloudflare  Tag = "cloudflare"
	SiteGround  Tag = "siteground"
)

const detectScript = `() => {
	const title = document.title || "";
	if (title === "Just a moment..." ||
		window._cf_chl_opt !== undefined ||
		document.querySelector('script[src*="/cdn-cgi/challenge-platform/"]') ||
		(document.querySelector('meta[http-equiv="refresh"]') && title === "Just a moment...")) {
		return "cloudflare";
	}
	if (title === "Robot Challenge Screen" || window.sgchallenge !== undefined) {
		return "siteground";
	}
	const scripts = document.querySelectorAll('script');
	for (const s of scripts) {
		if (s.textContent && s.textContent.includes("sgchallenge")) {
			return "siteground";
		}
	}
	return "";
}`

// Detect runs the in-page Cloudflare/SiteGround marker probe and
// returns the matching Tag, or None if the page looks clean.
func Detect(ctx context.Context, page driver.Page) (Tag, error) {
	res, err := page.Evaluate(ctx, detectScript)
	if err != nil {
		return None, err
	}
	s, _ := res.(string)
	return Tag(s), nil
}

// WaitForBypass polls Detect every 100ms until the page is clean or
// maxWait elapses; the result (clean or not) feeds the screenshot path,
// which proceeds either way.
func WaitForBypass(ctx context.Context, page driver.Page, maxWait time.Duration) (clean bool) {
	deadline := time.Now().Add(maxWait)
	for {
		tag, err := Detect(ctx, page)
		if err == nil && tag == None {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// modalCloseSelectors is a fixed list of common close-button affordances
// (bootstrap, ARIA, popular cookie/consent popups).
var modalCloseSelectors = []string{
	`[aria-label="Close"]`,
	`[aria-label="close"]`,
	`.modal .close`,
	`.modal-close`,
	`button.close`,
	`[data-dismiss="modal"]`,
	`[data-bs-dismiss="modal"]`,
	`.cookie-consent .close`,
	`#onetrust-close-btn-container button`,
	`.popup-close`,
}

// DismissModals fires Escape then polls for up to 2.5s for a visible
// close affordance from the fixed list, clicking the first visible one
// it finds. Click failures are ignored — this is a best-effort nicety,
// never a blocking precondition for interactive commands (spec §4.5).
func DismissModals(ctx context.Context, page driver.Page) {
	_ = page.KeyPress(ctx, "Escape")

	deadline := time.Now().Add(2500 * time.Millisecond)
	for time.Now().Before(deadline) {
		for _, sel := range modalCloseSelectors {
			el, err := page.ElementByCSS(ctx, sel)
			if err != nil {
				continue
			}
			visible, err := el.Visible(ctx)
			if err != nil || !visible {
				continue
			}
			_ = el.Click(ctx)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(100 * time.Millisecond):
		}
	}
}
