package feed

import (
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, authenticator gin.HandlerFunc, handler Handler) {
	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authenticator)
	tokenAuthenticationRouter.GET("/feed", handler.Subscribe)
}
