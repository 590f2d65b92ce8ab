package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/handler"
	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/ws"
)

type Config struct {
	TokenHandler *handler.TokenHandler
	Hub          *ws.Hub
}

func New(cfg *Config) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ws", cfg.Hub.Serve)

	api := router.Group("/v1/")
	registerTokenRoutes(api, cfg.TokenHandler)

	return router
}
