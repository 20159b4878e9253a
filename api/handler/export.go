package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/br/challenge"
	"github.com/use-agent/br/instance"
)

// Screenshot handles GET /screenshot?fullPage=&path=: dismisses modals
// and waits for challenge bypass before capture, per spec §4.5/§4.6.
func Screenshot(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()

		ctx, cancel := withTimeout(c, defaultTimeout)
		defer cancel()

		challenge.DismissModals(ctx, page)
		challenge.WaitForBypass(ctx, page, 8*time.Second)

		fullPage := c.Query("fullPage") == "true" || c.Query("fullPage") == "1"
		path := c.Query("path")
		if path == "" {
			path, err = defaultScreenshotPath(page.URL())
			if err != nil {
				respondError(c, driverFailure(err))
				return
			}
		}

		data, err := page.Screenshot(ctx, fullPage)
		if err != nil {
			respondError(c, driverFailure(err))
			return
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			respondError(c, driverFailure(err))
			return
		}

		recordHistory(st, "screenshot", map[string]any{"fullPage": fullPage, "path": path})
		c.String(http.StatusOK, path)
	}
}

// PDF handles GET /pdf?format=&path=; default format Letter.
func PDF(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()

		ctx, cancel := withTimeout(c, defaultTimeout)
		defer cancel()

		format := c.DefaultQuery("format", "Letter")
		path := c.Query("path")
		if path == "" {
			path, err = defaultPDFPath(page.URL())
			if err != nil {
				respondError(c, driverFailure(err))
				return
			}
		}

		data, err := page.PDF(ctx, format)
		if err != nil {
			respondError(c, driverFailure(err))
			return
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			respondError(c, driverFailure(err))
			return
		}

		recordHistory(st, "pdf", map[string]any{"format": format, "path": path})
		c.String(http.StatusOK, path)
	}
}
