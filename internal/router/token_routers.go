package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/handler"
)

func registerTokenRoutes(router *gin.RouterGroup, tokenHandler *handler.TokenHandler) {
	tokens := router.Group("/tokens")
	{
		tokens.GET("", tokenHandler.List)
		tokens.GET("/:address", tokenHandler.Get)
	}
}
