package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/br/humanlike"
	"github.com/use-agent/br/instance"
	"github.com/use-agent/br/models"
)

// ScrollIntoView handles POST /scroll-into-view.
func ScrollIntoView(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ScrollIntoViewRequest
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
		if err := el.ScrollIntoView(ctx); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		recordHistory(st, "scroll-into-view", map[string]any{"selector": req.Selector})
		c.JSON(http.StatusOK, models.OK())
	}
}

// ScrollTo handles POST /scroll-to; percentage is clamped to [0,100]
// and scrolls to body.scrollHeight * p/100.
func ScrollTo(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ScrollToRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.BadInput(err.Error()))
			return
		}
		p := req.Percentage
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}

		page, _, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()
		ctx, cancel := withTimeout(c, defaultTimeout)
		defer cancel()
		script := fmt.Sprintf(`() => window.scrollTo(0, document.body.scrollHeight * %f / 100)`, p)
		if _, err := page.Evaluate(ctx, script); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		recordHistory(st, "scroll-to", map[string]any{"percentage": p})
		c.JSON(http.StatusOK, models.OK())
	}
}

func scrollByViewport(st *instance.State, action string, sign int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _, unlock, err := lockActivePage(st)
		if err != nil {
			respondError(c, err)
			return
		}
		defer unlock()
		ctx, cancel := withTimeout(c, defaultTimeout)
		defer cancel()
		script := fmt.Sprintf(`() => window.scrollBy(0, %d * window.innerHeight)`, sign)
		if _, err := page.Evaluate(ctx, script); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		recordHistory(st, action, nil)
		c.JSON(http.StatusOK, models.OK())
	}
}

// NextChunk handles POST /next-chunk: scrolls by +window.innerHeight.
func NextChunk(st *instance.State) gin.HandlerFunc { return scrollByViewport(st, "next-chunk", 1) }

// PrevChunk handles POST /prev-chunk: scrolls by -window.innerHeight.
func PrevChunk(st *instance.State) gin.HandlerFunc { return scrollByViewport(st, "prev-chunk", -1) }

// Fill handles POST /fill.
func Fill(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.FillRequest
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
		if err := el.Input(ctx, req.Text); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		recordHistory(st, "fill", map[string]any{"selector": req.Selector, "text": req.Text})
		c.JSON(http.StatusOK, models.OK())
	}
}

// FillSecret handles POST /fill-secret; the secret value is never
// recorded in Action History or logged (spec §7's masking rule).
func FillSecret(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.FillSecretRequest
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
		if err := el.Input(ctx, req.Secret); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		st.AddSecret(req.Secret)
		recordHistory(st, "fill-secret", map[string]any{"selector": req.Selector})
		c.JSON(http.StatusOK, models.OK())
	}
}

// Type handles POST /type: character-by-character when human-like mode
// is on, a single call otherwise.
func Type(st *instance.State, pacer *humanlike.Pacer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TypeRequest
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
		if err := el.Click(ctx); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		if err := page.TypeChars(ctx, req.Text, pacer.PerCharDelay(ctx)); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		recordHistory(st, "type", map[string]any{"selector": req.Selector, "text": req.Text})
		c.JSON(http.StatusOK, models.OK())
	}
}

// Press handles POST /press.
func Press(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PressRequest
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
		if err := page.KeyPress(ctx, req.Key); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		recordHistory(st, "press", map[string]any{"key": req.Key})
		c.JSON(http.StatusOK, models.OK())
	}
}

// Click handles POST /click, preceded by a human-like delay when
// enabled.
func Click(st *instance.State, pacer *humanlike.Pacer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ClickRequest
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
		pacer.MaybeDelay(ctx, 80*time.Millisecond, 250*time.Millisecond)
		if err := el.Click(ctx); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		recordHistory(st, "click", map[string]any{"selector": req.Selector})
		c.JSON(http.StatusOK, models.OK())
	}
}

// searchSelectors is the fixed ordered list fill-search scans when no
// selector is supplied (spec §4.6).
var searchSelectors = []string{
	`input[type=search]`,
	`input[name=q]`,
	`input[name=query]`,
	`input[name=search]`,
	`input[placeholder*=search i]`,
	`input[placeholder*=Search i]`,
	`[role=searchbox]`,
}

// FillSearch handles POST /fill-search.
func FillSearch(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.FillSearchRequest
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

		matched := req.Selector
		if matched != "" {
			e, err := resolve(ctx, st, page, matched)
			if err != nil {
				respondError(c, err)
				return
			}
			if err := e.Input(ctx, req.Query); err != nil {
				respondError(c, driverFailure(err))
				return
			}
		} else {
			found := false
			for _, sel := range searchSelectors {
				e, err := page.ElementByCSS(ctx, sel)
				if err != nil {
					continue
				}
				if err := e.Input(ctx, req.Query); err != nil {
					continue
				}
				matched = sel
				found = true
				break
			}
			if !found {
				respondError(c, models.SelectorMiss("no search input found on page"))
				return
			}
		}

		if err := page.KeyPress(ctx, "Enter"); err != nil {
			respondError(c, driverFailure(err))
			return
		}
		recordHistory(st, "fill-search", map[string]any{"query": req.Query, "selector": matched})
		c.JSON(http.StatusOK, models.FillSearchResponse{Selector: matched})
	}
}

// Select handles POST /select.
func Select(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SelectRequest
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
		script := fmt.Sprintf(`el => { el.value = %q; el.dispatchEvent(new Event('change', {bubbles: true})); return el.value }`, req.Value)
		result, err := el.Eval(ctx, script)
		if err != nil {
			respondError(c, driverFailure(err))
			return
		}
		value, _ := result.(string)
		recordHistory(st, "select", map[string]any{"selector": req.Selector, "value": req.Value})
		c.JSON(http.StatusOK, models.SelectResponse{Value: value})
	}
}

// Submit handles POST /submit: walks to the enclosing <form> (or self
// if already a form) and calls .submit(); error if none found.
func Submit(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SubmitRequest
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
		const script = `el => {
			const form = el.tagName === 'FORM' ? el : el.closest('form');
			if (!form) { throw new Error('no enclosing form'); }
			form.submit();
			return true;
		}`
		if _, err := el.Eval(ctx, script); err != nil {
			respondError(c, badInputf("no enclosing form for selector: %s", req.Selector))
			return
		}
		recordHistory(st, "submit", map[string]any{"selector": req.Selector})
		c.JSON(http.StatusOK, models.OK())
	}
}
