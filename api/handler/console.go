package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/br/instance"
	"github.com/use-agent/br/models"
)

// Console handles GET /console?type=&tab=&clear=: type is a
// comma-separated filter over the console log types, tab restricts to
// one tab index, clear removes from the ring every entry matching the
// type filter (all entries when no type is given) after reading; the tab
// filter only narrows the reply, not what clear removes.
func Console(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		var types map[models.ConsoleLogType]bool
		if raw := c.Query("type"); raw != "" {
			types = make(map[models.ConsoleLogType]bool)
			for _, part := range strings.Split(raw, ",") {
				part = strings.TrimSpace(part)
				if part != "" {
					types[models.ConsoleLogType(part)] = true
				}
			}
		}
		clear := c.Query("clear") == "true" || c.Query("clear") == "1"

		entries := st.ConsoleFiltered(types, clear)

		if rawTab := c.Query("tab"); rawTab != "" {
			tabIdx, err := strconv.Atoi(rawTab)
			if err != nil {
				respondError(c, models.BadInput("tab must be an integer"))
				return
			}
			filtered := make([]models.ConsoleLogEntry, 0, len(entries))
			for _, e := range entries {
				if e.TabIndex == tabIdx {
					filtered = append(filtered, e)
				}
			}
			entries = filtered
		}

		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}

// ConsoleClear handles POST /console/clear.
func ConsoleClear(st *instance.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		st.ClearConsole()
		c.JSON(http.StatusOK, models.OK())
	}
}
