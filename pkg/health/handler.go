package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health of the service
func Health(c *gin.Context) {
	// swagger:route GET /health healthCheck
	//
	// Check health
	//
	// Check that the service is up.
	//
	// responses:
	//   200:
	c.String(http.StatusOK, "ok")
}
