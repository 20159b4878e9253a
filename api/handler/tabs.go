package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/br/instance"
	"github.com/use-agent/br/models"
)

// ListTabs handles GET /tabs.
func ListTabs(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, st.Tabs())
	}
}

// SwitchTab handles POST /tabs/switch.
func SwitchTab(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TabSwitchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.BadInput(err.Error()))
			return
		}
		if err := st.SetActiveTab(req.Index); err != nil {
			respondError(c, err)
			return
		}
		recordHistory(st, "tabs.switch", map[string]any{"index": req.Index})
		c.JSON(http.StatusOK, models.TabSwitchResponse{Index: req.Index})
	}
}
