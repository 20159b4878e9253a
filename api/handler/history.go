package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/br/instance"
	"github.com/use-agent/br/models"
)

// History handles GET /history: returns the action history in
// chronological order.
func History(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"entries": st.History()})
	}
}

// HistoryClear handles POST /history/clear.
func HistoryClear(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		st.ClearHistory()
		c.JSON(http.StatusOK, models.OK())
	}
}
