package event

import (
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, authenticator gin.HandlerFunc, handler Handler) {
	r.GET("/events", handler.List)
	r.GET("/events/categories", handler.Categories)
	r.GET("/events/tags", handler.Tags)
	r.GET("/events/random", handler.Random)
	r.POST("/events/batch-get", handler.BatchGet)
	r.GET("/events/:id", handler.FindByIdentifier)

	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authenticator)
	tokenAuthenticationRouter.POST("/events", handler.Create)
	tokenAuthenticationRouter.PUT("/events/:id", handler.Update)
	tokenAuthenticationRouter.DELETE("/events/:id", handler.Delete)
	tokenAuthenticationRouter.POST("/events/:id/save", handler.Save)
	tokenAuthenticationRouter.DELETE("/events/:id/save", handler.Unsave)
	tokenAuthenticationRouter.GET("/saved-events", handler.ListSaved)
}
