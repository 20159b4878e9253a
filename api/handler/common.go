// Package handler implements the ~40 HTTP endpoints of the Request
// Router (spec §4.6): one gin.HandlerFunc factory per endpoint (or
// small family of endpoints), taking the Session State and driver
// dependencies it needs as plain arguments — mirroring the teacher's
// api/handler package shape.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/br/driver"
	"github.com/use-agent/br/instance"
	"github.com/use-agent/br/models"
	"github.com/use-agent/br/selector"
)

const (
	defaultTimeout    = 30 * time.Second
	extractTextBudget = 5 * time.Second
	extractTextCap    = 1000
)

// respondError writes the wire form spec §6/§7 requires: a plain-text
// body carrying the error message, with the status the error's code
// maps to. "Check false" results are never routed through here — they
// are ordinary 200 JSON bodies built by the caller.
func respondError(c *gin.Context, err error) {
	berr, ok := err.(*models.Error)
	if !ok {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.String(statusForCode(berr.Code), berr.Message)
}

func statusForCode(code string) int {
	switch code {
	case models.ErrCodeBadInput, models.ErrCodeSelectorMiss:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// activePage fetches the active tab's page and index, translating
// instance.ErrNoActiveTab into a Bad input wire error.
func activePage(st *instance.State) (driver.Page, int, error) {
	page, idx, err := st.ActivePage()
	if err != nil {
		return nil, -1, models.BadInput("no active tab")
	}
	return page, idx, nil
}

// lockActivePage fetches the active tab's page and index and acquires
// its per-tab operation lock for the life of the handler, per spec §5's
// "per-tab operations are serialized" invariant. The returned unlock
// func is a no-op when err != nil, so callers can defer it unconditionally
// right after the error check.
func lockActivePage(st *instance.State) (driver.Page, int, func(), error) {
	page, idx, err := activePage(st)
	if err != nil {
		return nil, -1, func() {}, err
	}
	st.LockTab(idx)
	return page, idx, func() { st.UnlockTab(idx) }, nil
}

// resolve classifies and resolves token against the active page using
// the state's most recent ID→XPath map.
func resolve(ctx context.Context, st *instance.State, page driver.Page, token string) (driver.Element, error) {
	return selector.Resolve(ctx, page, token, st.IDToXPathMap())
}

// withTimeout returns a derived context bounded by d and its cancel.
func withTimeout(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}

// recordHistory appends a successful side-effecting call, selectors
// left in their original agent-supplied form (spec §4.6's closing
// clause).
func recordHistory(st *instance.State, action string, args map[string]any) {
	st.AppendHistory(action, args)
}

func driverFailure(err error) *models.Error {
	return models.DriverFailure(err.Error(), err)
}

func badInputf(format string, a ...any) *models.Error {
	return models.BadInput(fmt.Sprintf(format, a...))
}
