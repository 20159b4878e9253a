package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/br/models"
)

// Shutdown handles POST /shutdown: replies first, then signals the
// Supervisor to tear down so the response reaches the client before the
// browser process and HTTP listener go away.
func Shutdown(requestStop func()) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.OK())
		c.Writer.Flush()
		go requestStop()
	}
}
