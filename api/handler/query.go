package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/br/instance"
	"github.com/use-agent/br/models"
)

// Exists handles POST /exists; a missing element is a "check false"
// result (200, result=false), never a 400/500.
func Exists(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ExistsRequest
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
		_, resolveErr := resolve(ctx, st, page, req.Selector)
		recordHistory(st, "exists", map[string]any{"selector": req.Selector})
		c.JSON(http.StatusOK, models.BoolResultResponse{Result: resolveErr == nil})
	}
}

// Visible handles POST /visible.
func Visible(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.VisibleRequest
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
		el, resolveErr := resolve(ctx, st, page, req.Selector)
		visible := false
		if resolveErr == nil {
			visible, _ = el.Visible(ctx)
		}
		recordHistory(st, "visible", map[string]any{"selector": req.Selector})
		c.JSON(http.StatusOK, models.BoolResultResponse{Result: visible})
	}
}

// Count handles POST /count.
func Count(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CountRequest
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
		els, err := page.ElementsByCSS(ctx, req.Selector)
		if err != nil {
			// An invalid/absent CSS-only count is zero, not an error —
			// mirrors the "check false" shape for a count query.
			c.JSON(http.StatusOK, models.CountResponse{Count: 0})
			return
		}
		recordHistory(st, "count", map[string]any{"selector": req.Selector})
		c.JSON(http.StatusOK, models.CountResponse{Count: len(els)})
	}
}

// Attr handles POST /attr; 400 if the attribute is absent.
func Attr(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AttrRequest
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
		el, resolveErr := resolve(ctx, st, page, req.Selector)
		if resolveErr != nil {
			respondError(c, resolveErr)
			return
		}
		value, ok, err := el.Attribute(ctx, req.Attribute)
		if err != nil {
			respondError(c, driverFailure(err))
			return
		}
		if !ok {
			respondError(c, badInputf("attribute %q not present on element", req.Attribute))
			return
		}
		recordHistory(st, "attr", map[string]any{"selector": req.Selector, "attribute": req.Attribute})
		c.JSON(http.StatusOK, models.AttrResponse{Value: value})
	}
}
