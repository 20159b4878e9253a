package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/br/driver"
	"github.com/use-agent/br/instance"
	"github.com/use-agent/br/models"
	"github.com/use-agent/br/tree"
)

// HTML handles GET /html?page=n: page source with every secret masked.
func HTML(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		idx := 0
		explicit := c.Query("page") != ""
		if explicit {
			if n, err := strconv.Atoi(c.Query("page")); err == nil {
				idx = n
			}
		}

		var (
			page interface {
				HTML(ctx context.Context) (string, error)
			}
			err error
		)
		if explicit {
			page, err = st.Page(idx)
		} else {
			var p driver.Page
			p, idx, err = activePage(st)
			page = p
		}
		if err != nil {
			respondError(c, models.BadInput(err.Error()))
			return
		}

		st.LockTab(idx)
		defer st.UnlockTab(idx)

		ctx, cancel := withTimeout(c, defaultTimeout)
		defer cancel()
		html, err := page.HTML(ctx)
		if err != nil {
			respondError(c, driverFailure(err))
			return
		}
		c.String(http.StatusOK, st.MaskSecrets(html))
	}
}

// Tree handles GET /tree: joins the accessibility and DOM trees and
// replaces Session State's ID→XPath map (spec §4.3).
func Tree(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()
		ctx, cancel := withTimeout(c, defaultTimeout)
		defer cancel()
		dom, ax, err := page.AccessibilitySnapshot(ctx)
		if err != nil {
			respondError(c, driverFailure(err))
			return
		}
		joined, idToXPath, err := tree.BuildFromSnapshot(dom, ax)
		if err != nil {
			respondError(c, driverFailure(err))
			return
		}
		st.ReplaceIDToXPathMap(idToXPath)
		c.JSON(http.StatusOK, models.TreeResponse{Tree: joined})
	}
}

const extractTextScript = `(sel) => {
	const els = sel ? Array.from(document.querySelectorAll(sel)) : [document.body];
	return els.slice(0, 1000).map(el => el.innerText || "").join("\n");
}`

// ExtractText handles POST /extract-text: visible text of the matched
// elements (or body), capped at 1000 elements and a 5s wall-time
// best-effort budget (spec §9: checked once, not a hard ceiling).
func ExtractText(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ExtractTextRequest
		_ = c.ShouldBindJSON(&req)

		page, _, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()

		deadline := time.Now().Add(extractTextBudget)
		ctx, cancel := withTimeout(c, extractTextBudget)
		defer cancel()

		result, err := page.Evaluate(ctx, extractTextScript, req.Selector)
		if err != nil {
			respondError(c, driverFailure(err))
			return
		}
		if time.Now().After(deadline) {
			respondError(c, driverFailure(context.DeadlineExceeded))
			return
		}

		text, _ := result.(string)
		recordHistory(st, "extract-text", map[string]any{"selector": req.Selector})
		c.JSON(http.StatusOK, models.ExtractTextResponse{Text: text})
	}
}
