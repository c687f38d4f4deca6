package routes

import (
	"net/http"

	"github.com/Glenne01/sneakers-sub000/internal/container"

	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes wires the endpoints the storefront calls without staff
// credentials: login and checkout fulfillment.
func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	c.LoginHandler.RegisterRoutes(router)
	c.FulfillmentHandler.RegisterRoutes(router)
}

// RegisterProtectedRoutes wires the back-office endpoints behind the staff
// JWT middleware.
func RegisterProtectedRoutes(router *gin.Engine, c *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(c.TokenManager.JWTMiddleware())

	c.StockHandler.RegisterRoutes(protectedRoutes)
	c.AlertHandler.RegisterRoutes(protectedRoutes)
	c.OrderHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
