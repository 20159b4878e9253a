package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/br/humanlike"
	"github.com/use-agent/br/instance"
	"github.com/use-agent/br/models"
)

// Goto handles POST /goto. Clears console entries for the active tab
// on success and brackets the navigation with human-like delays.
func Goto(st *instance.State, pacer *humanlike.Pacer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.GotoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.BadInput(err.Error()))
			return
		}

		page, idx, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()

		pacer.MaybeDelay(c.Request.Context(), 200*time.Millisecond, 600*time.Millisecond)

		ctx, cancel := withTimeout(c, defaultTimeout)
		defer cancel()
		if err := page.Goto(ctx, req.URL, defaultTimeout); err != nil {
			respondError(c, driverFailure(err))
			return
		}

		pacer.MaybeDelay(c.Request.Context(), 200*time.Millisecond, 600*time.Millisecond)

		st.SetTabInfo(idx, page.URL(), page.Title())
		st.DropConsoleForTab(idx)
		recordHistory(st, "goto", map[string]any{"url": req.URL})
		c.JSON(http.StatusOK, models.OK())
	}
}

// Back handles POST /back.
func Back(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, idx, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()
		ctx, cancel := withTimeout(c, defaultTimeout)
		defer cancel()
		if err := page.Back(ctx, defaultTimeout); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		st.SetTabInfo(idx, page.URL(), page.Title())
		recordHistory(st, "back", nil)
		c.JSON(http.StatusOK, models.URLResponse{URL: page.URL()})
	}
}

// Forward handles POST /forward.
func Forward(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, idx, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()
		ctx, cancel := withTimeout(c, defaultTimeout)
		defer cancel()
		if err := page.Forward(ctx, defaultTimeout); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		st.SetTabInfo(idx, page.URL(), page.Title())
		recordHistory(st, "forward", nil)
		c.JSON(http.StatusOK, models.URLResponse{URL: page.URL()})
	}
}

// Reload handles POST /reload.
func Reload(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ReloadRequest
		_ = c.ShouldBindJSON(&req) // hard is optional; absent body is fine

		page, idx, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()
		ctx, cancel := withTimeout(c, defaultTimeout)
		defer cancel()
		if err := page.Reload(ctx, req.Hard, defaultTimeout); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		st.SetTabInfo(idx, page.URL(), page.Title())
		recordHistory(st, "reload", map[string]any{"hard": req.Hard})
		c.JSON(http.StatusOK, models.OK())
	}
}

// ClearCache handles POST /clear-cache.
func ClearCache(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()
		if err := page.ClearBrowserCache(c.Request.Context()); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		recordHistory(st, "clear-cache", nil)
		c.JSON(http.StatusOK, models.OK())
	}
}
