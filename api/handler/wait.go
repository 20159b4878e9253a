package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/br/driver"
	"github.com/use-agent/br/instance"
	"github.com/use-agent/br/models"
	"github.com/use-agent/br/selector"
)

// Wait handles POST /wait: waits for the resolved selector to be
// visible; default timeout 30s. CSS tokens use the driver's native
// wait; XPath/numeric-ID tokens poll resolve+Visible since the driver's
// wait primitive only understands CSS.
func Wait(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.WaitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.BadInput(err.Error()))
			return
		}
		timeout := defaultTimeout
		if req.Timeout > 0 {
			timeout = time.Duration(req.Timeout) * time.Second
		}

		page, _, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()

		idToXPath := st.IDToXPathMap()
		classified, err := selector.Classify(req.Selector, idToXPath)
		if err != nil {
			respondError(c, err)
			return
		}

		ctx, cancel := withTimeout(c, timeout)
		defer cancel()

		if classified.Kind == selector.KindCSS {
			if err := page.WaitForSelectorVisible(ctx, req.Selector, timeout); err != nil {
				respondError(c, driverFailure(err))
				return
			}
		} else if err := pollVisible(ctx, page, req.Selector, idToXPath); err != nil {
			respondError(c, err)
			return
		}

		recordHistory(st, "wait", map[string]any{"selector": req.Selector})
		c.JSON(http.StatusOK, models.OK())
	}
}

func pollVisible(ctx context.Context, page driver.Page, token string, idToXPath map[int]string) error {
	for {
		el, err := selector.Resolve(ctx, page, token, idToXPath)
		if err == nil {
			if visible, _ := el.Visible(ctx); visible {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return models.SelectorMiss("Element not found for selector: " + token)
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// WaitLoad handles POST /wait-load.
func WaitLoad(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()
		ctx, cancel := withTimeout(c, defaultTimeout)
		defer cancel()
		if err := page.WaitForLoad(ctx, defaultTimeout); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		recordHistory(st, "wait-load", nil)
		c.JSON(http.StatusOK, models.OK())
	}
}

// WaitStable handles POST /wait-stable: DOM-stable via a 500ms quiet
// window capped at the safety timeout.
func WaitStable(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()
		ctx, cancel := withTimeout(c, defaultTimeout)
		defer cancel()
		if err := page.WaitStable(ctx, 500*time.Millisecond, defaultTimeout); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		recordHistory(st, "wait-stable", nil)
		c.JSON(http.StatusOK, models.OK())
	}
}

// WaitIdle handles POST /wait-idle: network-idle.
func WaitIdle(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()
		ctx, cancel := withTimeout(c, defaultTimeout)
		defer cancel()
		if err := page.WaitIdle(ctx, 500*time.Millisecond, defaultTimeout); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		recordHistory(st, "wait-idle", nil)
		c.JSON(http.StatusOK, models.OK())
	}
}
