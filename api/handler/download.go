package handler

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/br/driver"
	"github.com/use-agent/br/instance"
	"github.com/use-agent/br/models"
)

const resolveHrefSrcScript = `el => {
	const href = el.getAttribute('href');
	const src = el.getAttribute('src');
	const raw = href || src;
	if (!raw) { return null; }
	return new URL(raw, document.baseURI).href;
}`

// Download handles POST /download: resolves the element, reads href
// then src, resolves against document.baseURI, decodes data: URLs
// directly, otherwise fetches inside the page context so cookies/auth
// carry over (spec §4.6).
func Download(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DownloadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.BadInput(err.Error()))
			return
		}

		page, _, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()
		ctx, cancel := withTimeout(c, defaultTimeout)
		defer cancel()

		el, err := resolve(ctx, st, page, req.Selector)
		if err != nil {
			respondError(c, err)
			return
		}

		result, err := el.Eval(ctx, resolveHrefSrcScript)
		if err != nil {
			respondError(c, driverFailure(err))
			return
		}
		resolvedURL, _ := result.(string)
		if resolvedURL == "" {
			respondError(c, badInputf("no href or src on selector: %s", req.Selector))
			return
		}

		outPath := req.Output
		if outPath == "" {
			outPath, err = defaultDownloadPath(resolvedURL)
			if err != nil {
				respondError(c, driverFailure(err))
				return
			}
		}

		var data []byte
		if strings.HasPrefix(resolvedURL, "data:") {
			data, err = decodeDataURL(resolvedURL)
			if err != nil {
				respondError(c, badInputf("malformed data URL: %v", err))
				return
			}
		} else {
			data, err = fetchInPage(ctx, page, resolvedURL)
			if err != nil {
				respondError(c, driverFailure(err))
				return
			}
		}

		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			respondError(c, driverFailure(err))
			return
		}

		recordHistory(st, "download", map[string]any{"selector": req.Selector, "output": req.Output})
		c.JSON(http.StatusOK, models.DownloadResponse{Path: outPath, Size: int64(len(data)), URL: resolvedURL})
	}
}

// decodeDataURL decodes a "data:[mime];base64,<payload>" or
// "data:[mime],<payload>" URL into its raw bytes.
func decodeDataURL(raw string) ([]byte, error) {
	rest := strings.TrimPrefix(raw, "data:")
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil, fmt.Errorf("no comma in data URL")
	}
	meta, payload := rest[:comma], rest[comma+1:]
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	unescaped, err := decodeURLComponent(payload)
	if err != nil {
		return nil, err
	}
	return []byte(unescaped), nil
}

func decodeURLComponent(s string) (string, error) {
	return url.QueryUnescape(s)
}

// fetchInPage performs the HTTP fetch from inside the page's JS context
// (via fetch + base64 round-trip) so the page's cookies and auth state
// apply, per spec §4.6's download contract.
const fetchScript = `async (u) => {
	const res = await fetch(u);
	if (!res.ok) { throw new Error('download fetch failed: ' + res.status); }
	const buf = await res.arrayBuffer();
	let binary = '';
	const bytes = new Uint8Array(buf);
	for (let i = 0; i < bytes.byteLength; i++) { binary += String.fromCharCode(bytes[i]); }
	return btoa(binary);
}`

func fetchInPage(ctx context.Context, page driver.Page, fetchURL string) ([]byte, error) {
	result, err := page.Evaluate(ctx, fetchScript, fetchURL)
	if err != nil {
		return nil, err
	}
	encoded, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected fetch result type %T", result)
	}
	return base64.StdEncoding.DecodeString(encoded)
}
