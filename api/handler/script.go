package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/br/instance"
	"github.com/use-agent/br/models"
)

// Eval handles POST /eval {script}: evaluates script in the active
// page and returns its JSON-serializable result verbatim.
func Eval(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.EvalRequest
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

		result, err := page.Evaluate(ctx, req.Script)
		if err != nil {
			respondError(c, driverFailure(err))
			return
		}

		recordHistory(st, "eval", map[string]any{"script": req.Script})
		c.JSON(http.StatusOK, models.EvalResponse{Result: result})
	}
}

// Assert handles POST /assert {script, expected?}: evaluates script,
// stringifies the result (objects pretty-printed as JSON, everything
// else via its literal form), and compares against expected when
// supplied (pass iff string-equal) or checks truthiness otherwise.
// Always responds 200 — a failed assertion is a result, not an error.
func Assert(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AssertRequest
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

		result, err := page.Evaluate(ctx, req.Script)
		if err != nil {
			respondError(c, driverFailure(err))
			return
		}

		actual := stringifyResult(result)
		resp := models.AssertResponse{Actual: actual, Expected: req.Expected}
		if req.Expected != nil {
			resp.Pass = actual == *req.Expected
		} else {
			resp.Pass = isTruthy(result)
		}
		if !resp.Pass {
			resp.Message = req.Message
			if resp.Message == "" {
				resp.Message = "assertion failed"
			}
		}

		recordHistory(st, "assert", map[string]any{"script": req.Script})
		c.JSON(http.StatusOK, resp)
	}
}

// stringifyResult renders a JS evaluation result the way a developer
// would read it back: objects/arrays as pretty JSON, scalars literally.
func stringifyResult(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return trimFloat(t)
	case map[string]any, []any:
		b, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// isTruthy mirrors JS truthiness for the subset of values an Evaluate
// call can return.
func isTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}
