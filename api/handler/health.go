package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health returns a handler for GET /health. Plain-text "ok" per spec
// §4.6 so the health-probe loop the Supervisor logs about can depend on
// a fixed, parse-free response.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	}
}
