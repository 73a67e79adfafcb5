package health

import (
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter) {
	r.GET("/health", Health)
}
